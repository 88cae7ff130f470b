package handlers

import (
	"net/http"

	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"
	"law_desk_app_go/templates/printview"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// officeProfile reads the profile printed on page headers; an unreadable
// store prints the default header
func officeProfile(c echo.Context) settings.OfficeProfile {
	if deps.Settings == nil {
		return settings.OfficeProfile{}
	}
	office, err := deps.Settings.OfficeProfile(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("office profile: %v", err)
	}
	return office
}

// renderHTML writes a print view as an HTML page
func renderHTML(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// renderPDF prints a view through headless Chrome and sends it as a download
func renderPDF(c echo.Context, component templ.Component, options services.PDFOptions, filename string) error {
	ctx := c.Request().Context()
	html, err := printview.Render(ctx, component)
	if err != nil {
		return apiError(c, err, "تعذر تجهيز الصفحة للطباعة")
	}

	options.ChromePath = chromePath()
	pdf, err := services.GeneratePDF(ctx, html, options)
	if err != nil {
		return apiError(c, err, "تعذر إنشاء ملف PDF")
	}

	attachment(c, filename)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
