package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetInvoicesHandler lists invoices with their totals
func GetInvoicesHandler(c echo.Context) error {
	invoices, err := services.ListInvoices(db.DB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل الفواتير")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"totals":   services.SummarizeInvoices(invoices, now()),
	})
}

// GetInvoiceHandler returns one invoice
func GetInvoiceHandler(c echo.Context) error {
	inv, err := services.GetInvoice(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل الفاتورة")
	}
	return c.JSON(http.StatusOK, inv)
}

// NextInvoiceNumberHandler suggests a free invoice number for the create form
func NextInvoiceNumberHandler(c echo.Context) error {
	number, err := services.NextInvoiceNumber(db.DB)
	if err != nil {
		return apiError(c, err, "تعذر توليد رقم الفاتورة")
	}
	return c.JSON(http.StatusOK, map[string]string{"invoice_number": number})
}

// CreateInvoiceHandler adds an invoice
func CreateInvoiceHandler(c echo.Context) error {
	var in services.InvoiceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	inv, err := services.CreateInvoice(db.DB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ الفاتورة")
	}
	return c.JSON(http.StatusCreated, inv)
}

// UpdateInvoiceHandler replaces an invoice's fields
func UpdateInvoiceHandler(c echo.Context) error {
	var in services.InvoiceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	inv, err := services.UpdateInvoice(db.DB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث الفاتورة")
	}
	return c.JSON(http.StatusOK, inv)
}

// DeleteInvoiceHandler removes an invoice
func DeleteInvoiceHandler(c echo.Context) error {
	if err := services.DeleteInvoice(db.DB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف الفاتورة")
	}
	return c.NoContent(http.StatusNoContent)
}
