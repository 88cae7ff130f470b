package services

import (
	"fmt"
	"strings"

	"law_desk_app_go/models"

	"gorm.io/gorm"
)

// ClientInput is the create/update payload for a client
type ClientInput struct {
	FullName   string `json:"full_name" form:"full_name"`
	Phone      string `json:"phone" form:"phone"`
	Email      string `json:"email" form:"email"`
	NationalID string `json:"national_id" form:"national_id"`
	Address    string `json:"address" form:"address"`
	Notes      string `json:"notes" form:"notes"`
}

// Validate checks required fields and formats
func (in *ClientInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.FullName) == "" {
		verr.Add("full_name", "الاسم الكامل مطلوب")
	}
	if strings.TrimSpace(in.Phone) == "" {
		verr.Add("phone", "رقم الهاتف مطلوب")
	}
	if e := strings.TrimSpace(in.Email); e != "" && !validEmail(e) {
		verr.Add("email", "البريد الإلكتروني غير صالح")
	}
	return verr.Err()
}

func (in *ClientInput) apply(c *models.Client) {
	c.FullName = strings.TrimSpace(in.FullName)
	c.Phone = ToEnglishDigits(strings.TrimSpace(in.Phone))
	c.Email = optional(in.Email)
	c.NationalID = optional(in.NationalID)
	c.Address = optional(in.Address)
	c.Notes = optional(in.Notes)
}

// ListClients returns clients newest first
func ListClients(db *gorm.DB, filter ListFilter) ([]models.Client, error) {
	var clients []models.Client
	err := db.Scopes(
		searchScope(filter.Search, "full_name", "phone", "email", "national_id", "address"),
		limitScope(filter.Limit),
	).Order("created_at DESC").Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// GetClient fetches one client
func GetClient(db *gorm.DB, id string) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "client")
	}
	return &client, nil
}

// CreateClient validates and stores a new client
func CreateClient(db *gorm.DB, in ClientInput) (*models.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	client := &models.Client{}
	in.apply(client)
	if err := db.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// UpdateClient replaces every editable field of a client
func UpdateClient(db *gorm.DB, id string, in ClientInput) (*models.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	client, err := GetClient(db, id)
	if err != nil {
		return nil, err
	}
	in.apply(client)
	if err := db.Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// DeleteClient removes a client. Cases, documents and invoices that point
// at it are left as they are.
func DeleteClient(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.Client{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// CountClients returns the number of clients
func CountClients(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Client{}).Count(&n).Error
	return n, err
}
