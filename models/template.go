package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page orientation constants
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Page size constants
const (
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
	PageSizeA4     = "A4"
)

// Template is a printable document skeleton (contracts, pleadings, letters).
// It lives in the template store, not next to the case records.
type Template struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string  `gorm:"not null;index" json:"title"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	Category     string  `gorm:"not null;index" json:"category"`
	TemplateType string  `gorm:"not null" json:"template_type"`
	IsDefault    bool    `gorm:"not null;default:false" json:"is_default"`

	// Content is stored as {"html": "..."}
	Content datatypes.JSON `gorm:"type:json;not null" json:"content"`

	// PDF Settings
	PageOrientation string `gorm:"not null;default:portrait" json:"page_orientation"`
	PageSize        string `gorm:"not null;default:A4" json:"page_size"`
}

// TemplateContent is the decoded form of Template.Content
type TemplateContent struct {
	HTML string `json:"html"`
}

// BeforeCreate hook to generate UUID and default PDF settings
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.PageOrientation == "" {
		t.PageOrientation = OrientationPortrait
	}
	if t.PageSize == "" {
		t.PageSize = PageSizeA4
	}
	return nil
}

// TableName specifies the table name for Template model
func (Template) TableName() string {
	return "templates"
}

// HTML returns the template body. Malformed content yields "".
func (t *Template) HTML() string {
	var c TemplateContent
	if len(t.Content) == 0 {
		return ""
	}
	if err := json.Unmarshal(t.Content, &c); err != nil {
		return ""
	}
	return c.HTML
}

// SetHTML replaces the template body
func (t *Template) SetHTML(html string) {
	raw, _ := json.Marshal(TemplateContent{HTML: html})
	t.Content = datatypes.JSON(raw)
}

// IsValidOrientation checks if the orientation is valid
func IsValidOrientation(orientation string) bool {
	return orientation == OrientationPortrait || orientation == OrientationLandscape
}

// IsValidPageSize checks if the page size is valid
func IsValidPageSize(size string) bool {
	return size == PageSizeLetter || size == PageSizeLegal || size == PageSizeA4
}
