package services

import (
	"fmt"
	"strings"
	"sync"

	"law_desk_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	templatePolicyOnce sync.Once
	templatePolicy     *bluemonday.Policy
)

// templateHTMLPolicy is the UGC policy plus the direction and alignment
// styling the template editor emits
func templateHTMLPolicy() *bluemonday.Policy {
	templatePolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("dir").Globally()
		p.AllowStyles("text-align", "direction", "font-weight", "font-size", "text-decoration").Globally()
		templatePolicy = p
	})
	return templatePolicy
}

// SanitizeTemplateHTML strips scripts, handlers and unknown markup
func SanitizeTemplateHTML(html string) string {
	return templateHTMLPolicy().Sanitize(html)
}

// TemplateInput is the create/update payload for a template
type TemplateInput struct {
	Title           string `json:"title" form:"title"`
	Description     string `json:"description" form:"description"`
	Category        string `json:"category" form:"category"`
	TemplateType    string `json:"template_type" form:"template_type"`
	HTML            string `json:"html" form:"html"`
	IsDefault       bool   `json:"is_default" form:"is_default"`
	PageOrientation string `json:"page_orientation" form:"page_orientation"`
	PageSize        string `json:"page_size" form:"page_size"`
}

// Validate checks required fields and PDF settings
func (in *TemplateInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "عنوان القالب مطلوب")
	}
	if strings.TrimSpace(in.Category) == "" {
		verr.Add("category", "التصنيف مطلوب")
	}
	if strings.TrimSpace(in.TemplateType) == "" {
		verr.Add("template_type", "نوع القالب مطلوب")
	}
	if strings.TrimSpace(in.HTML) == "" {
		verr.Add("html", "محتوى القالب مطلوب")
	}
	if in.PageOrientation != "" && !models.IsValidOrientation(in.PageOrientation) {
		verr.Add("page_orientation", "اتجاه الصفحة غير صالح")
	}
	if in.PageSize != "" && !models.IsValidPageSize(in.PageSize) {
		verr.Add("page_size", "حجم الصفحة غير صالح")
	}
	return verr.Err()
}

func (in *TemplateInput) apply(t *models.Template) {
	t.Title = strings.TrimSpace(in.Title)
	t.Description = optional(in.Description)
	t.Category = strings.TrimSpace(in.Category)
	t.TemplateType = strings.TrimSpace(in.TemplateType)
	t.IsDefault = in.IsDefault
	t.SetHTML(SanitizeTemplateHTML(in.HTML))
	t.PageOrientation = in.PageOrientation
	t.PageSize = in.PageSize
	if t.PageOrientation == "" {
		t.PageOrientation = models.OrientationPortrait
	}
	if t.PageSize == "" {
		t.PageSize = models.PageSizeA4
	}
}

// ListTemplates returns templates, defaults first then newest
func ListTemplates(db *gorm.DB, filter ListFilter) ([]models.Template, error) {
	var templates []models.Template
	err := db.Scopes(
		searchScope(filter.Search, "title", "description", "category"),
		limitScope(filter.Limit),
	).Order("is_default DESC, created_at DESC").Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate fetches one template
func GetTemplate(db *gorm.DB, id string) (*models.Template, error) {
	var t models.Template
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "template")
	}
	return &t, nil
}

// CreateTemplate validates, sanitizes and stores a new template
func CreateTemplate(db *gorm.DB, in TemplateInput) (*models.Template, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &models.Template{}
	in.apply(t)
	if err := db.Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return t, nil
}

// UpdateTemplate replaces every editable field of a template
func UpdateTemplate(db *gorm.DB, id string, in TemplateInput) (*models.Template, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := GetTemplate(db, id)
	if err != nil {
		return nil, err
	}
	in.apply(t)
	if err := db.Save(t).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return t, nil
}

// DeleteTemplate removes a template
func DeleteTemplate(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.Template{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
