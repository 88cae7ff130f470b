package handlers

import (
	"net/http"
	"strconv"

	"law_desk_app_go/db"
	"law_desk_app_go/services"
	"law_desk_app_go/templates/printview"

	"github.com/labstack/echo/v4"
)

// reportYears reads ?year= (default this year) and ?compare_year= (default none)
func reportYears(c echo.Context) (int, int, error) {
	year := now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(services.ToEnglishDigits(raw))
		if err != nil || y < 1900 || y > 9999 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "السنة غير صالحة")
		}
		year = y
	}

	compare := 0
	if raw := c.QueryParam("compare_year"); raw != "" {
		y, err := strconv.Atoi(services.ToEnglishDigits(raw))
		if err != nil || y < 1900 || y > 9999 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "سنة المقارنة غير صالحة")
		}
		compare = y
	}
	return year, compare, nil
}

func loadReport(c echo.Context) (*services.Report, error) {
	year, compare, err := reportYears(c)
	if err != nil {
		return nil, err
	}
	report, err := services.LoadReport(c.Request().Context(), db.DB, year, compare, location())
	if err != nil {
		c.Logger().Errorf("load report: %v", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "تعذر تحميل التقارير")
	}
	return report, nil
}

// ReportsHandler returns the yearly statistics
func ReportsHandler(c echo.Context) error {
	report, err := loadReport(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// PrintReportHandler shows the yearly statistics as a printable page
func PrintReportHandler(c echo.Context) error {
	report, err := loadReport(c)
	if err != nil {
		return err
	}
	page := printview.Page(printview.ReportTitle(report.Year), officeProfile(c), printview.Report(report, now()))
	return renderHTML(c, page)
}

// ReportPDFHandler prints the yearly statistics to PDF
func ReportPDFHandler(c echo.Context) error {
	report, err := loadReport(c)
	if err != nil {
		return err
	}
	page := printview.Page(printview.ReportTitle(report.Year), officeProfile(c), printview.Report(report, now()))
	return renderPDF(c, page, services.DefaultPDFOptions(), "report-"+strconv.Itoa(report.Year)+".pdf")
}
