package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"
	"law_desk_app_go/templates/printview"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCatalogHandler lists every exportable entity with its fields
func ExportCatalogHandler(c echo.Context) error {
	catalogs := make([]services.ExportCatalog, 0, len(services.ExportEntities))
	for _, entity := range services.ExportEntities {
		catalog, err := services.GetExportCatalog(entity)
		if err != nil {
			return apiError(c, err, "تعذر تحميل الحقول")
		}
		catalogs = append(catalogs, catalog)
	}
	return c.JSON(http.StatusOK, catalogs)
}

// loadExport reads :entity and ?fields=a,b into a formatted table. A nil
// table means the error response was already written.
func loadExport(c echo.Context) (*services.ExportTable, error) {
	table, err := services.LoadExportTable(c.Request().Context(), db.DB, c.Param("entity"), splitFields(c.QueryParam("fields")), location())
	if err != nil {
		return nil, apiError(c, err, "تعذر تصدير البيانات")
	}
	return table, nil
}

// ExportXLSXHandler downloads the selected fields as a spreadsheet
func ExportXLSXHandler(c echo.Context) error {
	table, err := loadExport(c)
	if table == nil {
		return err
	}
	buf, err := services.ExportXLSX(table)
	if err != nil {
		return apiError(c, err, "تعذر إنشاء ملف Excel")
	}
	attachment(c, services.ExportFilename(c.Param("entity"), now(), "xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportPrintHandler shows the selected fields as a printable table
func ExportPrintHandler(c echo.Context) error {
	table, err := loadExport(c)
	if table == nil {
		return err
	}
	return renderHTML(c, printview.Page(table.Title, officeProfile(c), printview.Table(table, now())))
}

// ExportPDFHandler prints the selected fields to PDF
func ExportPDFHandler(c echo.Context) error {
	table, err := loadExport(c)
	if table == nil {
		return err
	}
	page := printview.Page(table.Title, officeProfile(c), printview.Table(table, now()))
	return renderPDF(c, page, services.DefaultPDFOptions(), services.ExportFilename(c.Param("entity"), now(), "pdf"))
}
