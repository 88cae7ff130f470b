package handlers

import (
	"errors"
	"net/http"
	"path"

	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// DownloadFileHandler streams a stored attachment or logo to the signed-in office
func DownloadFileHandler(c echo.Context) error {
	key, err := services.CleanKey(c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "مسار غير صالح")
	}

	reader, contentType, err := services.Storage.Open(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "الملف غير موجود")
		}
		c.Logger().Errorf("file %s: %v", key, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "تعذر قراءة الملف")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+path.Base(key)+`"`)
	return c.Stream(http.StatusOK, contentType, reader)
}
