package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/models"
	"law_desk_app_go/services"
	"law_desk_app_go/templates/printview"

	"github.com/labstack/echo/v4"
)

// GetTemplatesHandler lists document templates, defaults first
func GetTemplatesHandler(c echo.Context) error {
	templates, err := services.ListTemplates(db.TemplateDB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل القوالب")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"templates": templates})
}

// GetTemplateHandler returns a single template
func GetTemplateHandler(c echo.Context) error {
	t, err := services.GetTemplate(db.TemplateDB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل القالب")
	}
	return c.JSON(http.StatusOK, t)
}

// CreateTemplateHandler stores a new template with sanitized HTML
func CreateTemplateHandler(c echo.Context) error {
	var in services.TemplateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	t, err := services.CreateTemplate(db.TemplateDB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ القالب")
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateTemplateHandler replaces a template's fields
func UpdateTemplateHandler(c echo.Context) error {
	var in services.TemplateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	t, err := services.UpdateTemplate(db.TemplateDB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث القالب")
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTemplateHandler removes a template
func DeleteTemplateHandler(c echo.Context) error {
	if err := services.DeleteTemplate(db.TemplateDB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف القالب")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTemplateVariablesHandler lists the {{placeholders}} a template can use
func GetTemplateVariablesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": services.GetVariableDictionary()})
}

// mergedTemplate loads the template and fills its placeholders from the
// optional ?client_id= and ?case_id=
func mergedTemplate(c echo.Context) (*models.Template, error) {
	t, err := services.GetTemplate(db.TemplateDB, c.Param("id"))
	if err != nil {
		return nil, err
	}
	data, err := services.LoadTemplateData(db.DB, c.QueryParam("client_id"), c.QueryParam("case_id"), officeProfile(c), now())
	if err != nil {
		return nil, err
	}
	return services.MergeTemplate(t, data), nil
}

// PrintTemplateHandler shows the filled-in template as a printable page
func PrintTemplateHandler(c echo.Context) error {
	t, err := mergedTemplate(c)
	if err != nil {
		return apiError(c, err, "تعذر تحميل القالب")
	}
	return renderHTML(c, printview.TemplatePage(t))
}

// TemplatePDFHandler prints the filled-in template to PDF with its page settings
func TemplatePDFHandler(c echo.Context) error {
	t, err := mergedTemplate(c)
	if err != nil {
		return apiError(c, err, "تعذر تحميل القالب")
	}
	return renderPDF(c, printview.TemplatePage(t), services.TemplatePDFOptions(t), "template-"+t.ID+".pdf")
}
