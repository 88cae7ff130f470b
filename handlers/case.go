package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetCasesHandler lists cases, optionally filtered by ?q= and ?client_id=
func GetCasesHandler(c echo.Context) error {
	cases, err := services.ListCases(db.DB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل القضايا")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"cases": cases})
}

// GetCaseHandler returns one case with its client
func GetCaseHandler(c echo.Context) error {
	cs, err := services.GetCase(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل القضية")
	}
	return c.JSON(http.StatusOK, cs)
}

// NextCaseNumberHandler suggests a free case number for the create form
func NextCaseNumberHandler(c echo.Context) error {
	number, err := services.NextCaseNumber(db.DB)
	if err != nil {
		return apiError(c, err, "تعذر توليد رقم القضية")
	}
	return c.JSON(http.StatusOK, map[string]string{"case_number": number})
}

// CreateCaseHandler adds a case
func CreateCaseHandler(c echo.Context) error {
	var in services.CaseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	cs, err := services.CreateCase(db.DB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ القضية")
	}
	return c.JSON(http.StatusCreated, cs)
}

// UpdateCaseHandler replaces a case's fields
func UpdateCaseHandler(c echo.Context) error {
	var in services.CaseInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	cs, err := services.UpdateCase(db.DB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث القضية")
	}
	return c.JSON(http.StatusOK, cs)
}

// DeleteCaseHandler removes a case
func DeleteCaseHandler(c echo.Context) error {
	if err := services.DeleteCase(db.DB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف القضية")
	}
	return c.NoContent(http.StatusNoContent)
}
