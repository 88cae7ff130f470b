package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status codes. Records created by the earlier dashboard carry Arabic
// labels instead, so the helpers below accept both.
const (
	CaseStatusActive  = "active"
	CaseStatusPending = "pending"
	CaseStatusClosed  = "closed"
)

// Case priority codes
const (
	CasePriorityHigh   = "high"
	CasePriorityMedium = "medium"
	CasePriorityLow    = "low"
)

var (
	activeCaseStatuses = map[string]bool{CaseStatusActive: true, "نشطة": true, "جارية": true}
	closedCaseStatuses = map[string]bool{CaseStatusClosed: true, "مغلقة": true, "منتهية": true}
)

// Case represents a legal matter tied to one client
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Client relationship
	ClientID string  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Identification
	CaseNumber  string  `gorm:"not null;uniqueIndex" json:"case_number"`
	Title       string  `gorm:"not null" json:"title"`
	CaseType    string  `gorm:"not null" json:"case_type"`
	CourtName   *string `json:"court_name,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Status and scheduling
	Status          string     `gorm:"not null;default:active;index" json:"status"`
	Priority        string     `gorm:"not null;default:medium" json:"priority"`
	FiledDate       *time.Time `gorm:"type:date" json:"filed_date,omitempty"`
	NextHearingDate *time.Time `gorm:"type:date;index" json:"next_hearing_date,omitempty"`
}

// BeforeCreate hook to generate UUID and default status/priority
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusActive
	}
	if c.Priority == "" {
		c.Priority = CasePriorityMedium
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsActive reports whether the case is still being worked
func (c *Case) IsActive() bool {
	return activeCaseStatuses[c.Status]
}

// IsClosed reports whether the case has ended
func (c *Case) IsClosed() bool {
	return closedCaseStatuses[c.Status]
}

// OpenedOn is the date reports bucket the case under: filed date, else creation.
func (c *Case) OpenedOn() time.Time {
	if c.FiledDate != nil && !c.FiledDate.IsZero() {
		return *c.FiledDate
	}
	return c.CreatedAt
}
