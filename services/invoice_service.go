package services

import (
	"fmt"
	"strings"
	"time"

	"law_desk_app_go/models"

	"gorm.io/gorm"
)

// InvoiceInput is the create/update payload for an invoice. Dates are YYYY-MM-DD.
type InvoiceInput struct {
	InvoiceNumber string  `json:"invoice_number" form:"invoice_number"`
	ClientID      string  `json:"client_id" form:"client_id"`
	Amount        float64 `json:"amount" form:"amount"`
	Status        string  `json:"status" form:"status"`
	IssueDate     string  `json:"issue_date" form:"issue_date"`
	DueDate       string  `json:"due_date" form:"due_date"`
}

// Validate checks required fields, amount and dates
func (in *InvoiceInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.InvoiceNumber) == "" {
		verr.Add("invoice_number", "رقم الفاتورة مطلوب")
	}
	if strings.TrimSpace(in.ClientID) == "" {
		verr.Add("client_id", "يرجى اختيار العميل")
	}
	if in.Amount <= 0 {
		verr.Add("amount", "المبلغ يجب أن يكون أكبر من صفر")
	}
	if strings.TrimSpace(in.Status) == "" {
		verr.Add("status", "الحالة مطلوبة")
	}

	issue, issueErr := ParseDate(in.IssueDate)
	if issueErr != nil {
		verr.Add("issue_date", "تاريخ الإصدار غير صالح")
	}
	due, dueErr := ParseDate(in.DueDate)
	if dueErr != nil {
		verr.Add("due_date", "تاريخ الاستحقاق غير صالح")
	}
	if issueErr == nil && dueErr == nil && due.Before(issue) {
		verr.Add("due_date", "تاريخ الاستحقاق قبل تاريخ الإصدار")
	}
	return verr.Err()
}

func (in *InvoiceInput) apply(inv *models.Invoice) {
	inv.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	inv.ClientID = optional(in.ClientID)
	inv.Amount = in.Amount
	inv.Status = strings.TrimSpace(in.Status)
	inv.IssueDate, _ = ParseDate(in.IssueDate)
	inv.DueDate, _ = ParseDate(in.DueDate)
}

func checkInvoiceNumberFree(db *gorm.DB, number, exceptID string) error {
	var count int64
	q := db.Unscoped().Model(&models.Invoice{}).Where("invoice_number = ?", number)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check invoice number: %w", err)
	}
	if count > 0 {
		verr := &ValidationError{}
		verr.Add("invoice_number", "رقم الفاتورة مستخدم مسبقاً")
		return verr
	}
	return nil
}

// NextInvoiceNumber suggests the next free number in the INV-0001 sequence
func NextInvoiceNumber(db *gorm.DB) (string, error) {
	return nextSequenceNumber(db, &models.Invoice{}, "invoice_number", "INV-%04d")
}

// ListInvoices returns invoices newest first. Search matches number, status,
// amount and the client's name.
func ListInvoices(db *gorm.DB, filter ListFilter) ([]models.Invoice, error) {
	var invoices []models.Invoice
	q := db.Preload("Client").
		Joins("LEFT JOIN clients ON clients.id = invoices.client_id AND clients.deleted_at IS NULL").
		Scopes(
			searchScope(filter.Search, "invoices.invoice_number", "invoices.status", "CAST(invoices.amount AS TEXT)", "clients.full_name"),
			limitScope(filter.Limit),
		)
	if filter.ClientID != "" {
		q = q.Where("invoices.client_id = ?", filter.ClientID)
	}
	if err := q.Order("invoices.created_at DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice fetches one invoice with its client
func GetInvoice(db *gorm.DB, id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := db.Preload("Client").First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "invoice")
	}
	return &inv, nil
}

// CreateInvoice validates and stores a new invoice
func CreateInvoice(db *gorm.DB, in InvoiceInput) (*models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := checkClient(db, in.ClientID); err != nil {
		return nil, err
	}
	if err := checkInvoiceNumberFree(db, strings.TrimSpace(in.InvoiceNumber), ""); err != nil {
		return nil, err
	}

	inv := &models.Invoice{}
	in.apply(inv)
	if err := db.Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv, nil
}

// UpdateInvoice replaces every editable field of an invoice
func UpdateInvoice(db *gorm.DB, id string, in InvoiceInput) (*models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inv, err := GetInvoice(db, id)
	if err != nil {
		return nil, err
	}
	if err := checkClient(db, in.ClientID); err != nil {
		return nil, err
	}
	if err := checkInvoiceNumberFree(db, strings.TrimSpace(in.InvoiceNumber), id); err != nil {
		return nil, err
	}

	in.apply(inv)
	inv.Client = nil
	if err := db.Save(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return inv, nil
}

// DeleteInvoice removes an invoice
func DeleteInvoice(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.Invoice{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// InvoiceTotals sums invoice amounts overall and for pending and paid invoices
type InvoiceTotals struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Overdue int     `json:"overdue_count"`
}

// SummarizeInvoices totals a set of invoices. Pending invoices past their due
// date on today's calendar count as overdue.
func SummarizeInvoices(invoices []models.Invoice, today time.Time) InvoiceTotals {
	var t InvoiceTotals
	for i := range invoices {
		inv := &invoices[i]
		t.Total += inv.Amount
		switch {
		case inv.IsPaid():
			t.Paid += inv.Amount
		case inv.IsPending():
			t.Pending += inv.Amount
			if DayDiff(today, inv.DueDate) < 0 {
				t.Overdue++
			}
		}
	}
	return t
}
