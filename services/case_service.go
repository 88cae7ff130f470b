package services

import (
	"errors"
	"fmt"
	"strings"

	"law_desk_app_go/models"

	"gorm.io/gorm"
)

var validCasePriorities = map[string]bool{
	models.CasePriorityHigh:   true,
	models.CasePriorityMedium: true,
	models.CasePriorityLow:    true,
}

// CaseInput is the create/update payload for a case. Dates are YYYY-MM-DD.
type CaseInput struct {
	CaseNumber      string `json:"case_number" form:"case_number"`
	Title           string `json:"title" form:"title"`
	CaseType        string `json:"case_type" form:"case_type"`
	ClientID        string `json:"client_id" form:"client_id"`
	Status          string `json:"status" form:"status"`
	Priority        string `json:"priority" form:"priority"`
	CourtName       string `json:"court_name" form:"court_name"`
	Description     string `json:"description" form:"description"`
	FiledDate       string `json:"filed_date" form:"filed_date"`
	NextHearingDate string `json:"next_hearing_date" form:"next_hearing_date"`
}

// Validate checks required fields, priority and date formats
func (in *CaseInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.CaseNumber) == "" {
		verr.Add("case_number", "رقم القضية مطلوب")
	}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "عنوان القضية مطلوب")
	}
	if strings.TrimSpace(in.CaseType) == "" {
		verr.Add("case_type", "نوع القضية مطلوب")
	}
	if strings.TrimSpace(in.ClientID) == "" {
		verr.Add("client_id", "يرجى اختيار العميل")
	}
	if in.Priority != "" && !validCasePriorities[in.Priority] {
		verr.Add("priority", "الأولوية غير صالحة")
	}
	if _, err := ParseOptionalDate(in.FiledDate); err != nil {
		verr.Add("filed_date", "تاريخ غير صالح")
	}
	if _, err := ParseOptionalDate(in.NextHearingDate); err != nil {
		verr.Add("next_hearing_date", "تاريخ غير صالح")
	}
	return verr.Err()
}

func (in *CaseInput) apply(c *models.Case) {
	c.CaseNumber = strings.TrimSpace(in.CaseNumber)
	c.Title = strings.TrimSpace(in.Title)
	c.CaseType = strings.TrimSpace(in.CaseType)
	c.ClientID = strings.TrimSpace(in.ClientID)
	c.Status = strings.TrimSpace(in.Status)
	c.Priority = in.Priority
	c.CourtName = optional(in.CourtName)
	c.Description = optional(in.Description)
	c.FiledDate, _ = ParseOptionalDate(in.FiledDate)
	c.NextHearingDate, _ = ParseOptionalDate(in.NextHearingDate)
	if c.Status == "" {
		c.Status = models.CaseStatusActive
	}
	if c.Priority == "" {
		c.Priority = models.CasePriorityMedium
	}
}

// checkClient turns a dangling client reference into a field error
func checkClient(db *gorm.DB, clientID string) error {
	if _, err := GetClient(db, clientID); err != nil {
		if errors.Is(err, ErrNotFound) {
			verr := &ValidationError{}
			verr.Add("client_id", "العميل غير موجود")
			return verr
		}
		return err
	}
	return nil
}

// checkCaseNumberFree reports a duplicate case number as a field error
func checkCaseNumberFree(db *gorm.DB, number, exceptID string) error {
	var count int64
	q := db.Unscoped().Model(&models.Case{}).Where("case_number = ?", number)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check case number: %w", err)
	}
	if count > 0 {
		verr := &ValidationError{}
		verr.Add("case_number", "رقم القضية مستخدم مسبقاً")
		return verr
	}
	return nil
}

// NextCaseNumber suggests the next free number in the CASE-0001 sequence
func NextCaseNumber(db *gorm.DB) (string, error) {
	return nextSequenceNumber(db, &models.Case{}, "case_number", "CASE-%04d")
}

// nextSequenceNumber starts at count+1 and bumps until the number is unused
func nextSequenceNumber(db *gorm.DB, model interface{}, column, format string) (string, error) {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count records: %w", err)
	}

	const maxRetries = 1000
	for seq := count + 1; seq <= count+maxRetries; seq++ {
		candidate := fmt.Sprintf(format, seq)
		var taken int64
		if err := db.Unscoped().Model(model).Where(column+" = ?", candidate).Count(&taken).Error; err != nil {
			return "", fmt.Errorf("failed to check number: %w", err)
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to find a free number after %d attempts", maxRetries)
}

// ListCases returns cases newest first with their client preloaded
func ListCases(db *gorm.DB, filter ListFilter) ([]models.Case, error) {
	var cases []models.Case
	q := db.Preload("Client").Scopes(
		searchScope(filter.Search, "case_number", "title", "case_type", "status", "court_name"),
		limitScope(filter.Limit),
	)
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if err := q.Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// GetCase fetches one case with its client
func GetCase(db *gorm.DB, id string) (*models.Case, error) {
	var c models.Case
	if err := db.Preload("Client").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "case")
	}
	return &c, nil
}

// CreateCase validates and stores a new case
func CreateCase(db *gorm.DB, in CaseInput) (*models.Case, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := checkClient(db, in.ClientID); err != nil {
		return nil, err
	}
	if err := checkCaseNumberFree(db, strings.TrimSpace(in.CaseNumber), ""); err != nil {
		return nil, err
	}

	c := &models.Case{}
	in.apply(c)
	if err := db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return c, nil
}

// UpdateCase replaces every editable field of a case
func UpdateCase(db *gorm.DB, id string, in CaseInput) (*models.Case, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := GetCase(db, id)
	if err != nil {
		return nil, err
	}
	if err := checkClient(db, in.ClientID); err != nil {
		return nil, err
	}
	if err := checkCaseNumberFree(db, strings.TrimSpace(in.CaseNumber), id); err != nil {
		return nil, err
	}

	in.apply(c)
	c.Client = nil
	if err := db.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return c, nil
}

// DeleteCase removes a case
func DeleteCase(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.Case{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete case: %w", err)
	}
	return nil
}
