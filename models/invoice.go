package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status codes. Arabic labels from the invoice form are accepted as aliases.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

var (
	pendingInvoiceStatuses = []string{InvoiceStatusPending, "قيد الانتظار", "معلقة"}
	paidInvoiceStatuses    = map[string]bool{InvoiceStatusPaid: true, "مدفوعة": true}
)

// PendingInvoiceStatuses lists every status value that means awaiting payment
func PendingInvoiceStatuses() []string {
	return slices.Clone(pendingInvoiceStatuses)
}

// Invoice is a bill issued to a client
type Invoice struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	InvoiceNumber string    `gorm:"not null;uniqueIndex" json:"invoice_number"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Status        string    `gorm:"not null;default:pending;index" json:"status"`
	IssueDate     time.Time `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time `gorm:"type:date;not null;index" json:"due_date"`

	ClientID *string `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = InvoiceStatusPending
	}
	return nil
}

// TableName specifies the table name for Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsPending reports whether the invoice still awaits payment
func (i *Invoice) IsPending() bool {
	return slices.Contains(pendingInvoiceStatuses, i.Status)
}

// IsPaid reports whether the invoice counts towards revenue reports
func (i *Invoice) IsPaid() bool {
	return paidInvoiceStatuses[i.Status]
}

// ClientName returns the preloaded client's name, or "" when absent
func (i *Invoice) ClientName() string {
	if i.Client == nil {
		return ""
	}
	return i.Client.FullName
}
