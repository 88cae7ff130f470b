package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"law_desk_app_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentInput is the create/update payload for a document
type DocumentInput struct {
	Title    string   `json:"title" form:"title"`
	Category string   `json:"category" form:"category"`
	Type     string   `json:"type" form:"type"`
	FileURLs []string `json:"file_urls" form:"file_urls"`
	ClientID string   `json:"client_id" form:"client_id"`
}

// Validate checks required fields and that every link is an absolute URL or an app path
func (in *DocumentInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "عنوان المستند مطلوب")
	}
	if strings.TrimSpace(in.Category) == "" {
		verr.Add("category", "التصنيف مطلوب")
	}
	if strings.TrimSpace(in.Type) == "" {
		verr.Add("type", "نوع المستند مطلوب")
	}
	for _, raw := range in.FileURLs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			verr.Add("file_urls", "رابط غير صالح")
		}
	}
	return verr.Err()
}

func (in *DocumentInput) apply(d *models.Document) {
	d.Title = strings.TrimSpace(in.Title)
	d.Category = strings.TrimSpace(in.Category)
	d.Type = strings.TrimSpace(in.Type)
	d.ClientID = optional(in.ClientID)

	urls := make([]string, 0, len(in.FileURLs))
	for _, u := range in.FileURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	d.FileURLs = datatypes.JSONSlice[string](urls)
}

// ListDocuments returns documents newest first. Search also matches the
// owning client's name and phone.
func ListDocuments(db *gorm.DB, filter ListFilter) ([]models.Document, error) {
	var docs []models.Document
	q := db.Preload("Client").
		Joins("LEFT JOIN clients ON clients.id = documents.client_id AND clients.deleted_at IS NULL").
		Scopes(
			searchScope(filter.Search, "documents.title", "documents.category", "documents.type", "clients.full_name", "clients.phone"),
			limitScope(filter.Limit),
		)
	if filter.ClientID != "" {
		q = q.Where("documents.client_id = ?", filter.ClientID)
	}
	if err := q.Order("documents.created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// ListClientDocuments returns the documents owned by one client
func ListClientDocuments(db *gorm.DB, clientID string) ([]models.Document, error) {
	if _, err := GetClient(db, clientID); err != nil {
		return nil, err
	}
	return ListDocuments(db, ListFilter{ClientID: clientID})
}

// DocumentCountByClient returns how many documents each client owns
func DocumentCountByClient(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		ClientID string
		Count    int64
	}
	err := db.Model(&models.Document{}).
		Select("client_id, COUNT(*) AS count").
		Where("client_id IS NOT NULL").
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ClientID] = r.Count
	}
	return counts, nil
}

// GetDocument fetches one document with its client
func GetDocument(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.Preload("Client").First(&doc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "document")
	}
	return &doc, nil
}

// CreateDocument validates and stores a new document
func CreateDocument(db *gorm.DB, in DocumentInput) (*models.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if id := strings.TrimSpace(in.ClientID); id != "" {
		if err := checkClient(db, id); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{}
	in.apply(doc)
	if err := db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// UpdateDocument replaces every editable field of a document
func UpdateDocument(db *gorm.DB, id string, in DocumentInput) (*models.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	doc, err := GetDocument(db, id)
	if err != nil {
		return nil, err
	}
	if cid := strings.TrimSpace(in.ClientID); cid != "" {
		if err := checkClient(db, cid); err != nil {
			return nil, err
		}
	}

	in.apply(doc)
	doc.Client = nil
	if err := db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a document. Attached files stay in storage.
func DeleteDocument(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.Document{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// AttachDocumentFile uploads file and appends its URL to the document's links
func AttachDocumentFile(ctx context.Context, db *gorm.DB, storage StorageProvider, id string, file *multipart.FileHeader) (*models.Document, error) {
	doc, err := GetDocument(db, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocumentUpload(file); err != nil {
		verr := &ValidationError{}
		verr.Add("file", err.Error())
		return nil, verr
	}

	stored, err := SaveUpload(ctx, storage, file, DocumentFileKey(doc.ID, file.Filename))
	if err != nil {
		return nil, err
	}

	doc.FileURLs = append(doc.FileURLs, FileURL(storage, stored.Key))
	if err := db.Model(doc).Update("file_urls", doc.FileURLs).Error; err != nil {
		// keep storage in step with the record
		if delErr := storage.Remove(ctx, stored.Key); delErr != nil {
			return nil, fmt.Errorf("failed to save document file list: %w (cleanup: %v)", err, delErr)
		}
		return nil, fmt.Errorf("failed to save document file list: %w", err)
	}
	return doc, nil
}

// CountDocuments returns the number of documents
func CountDocuments(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Document{}).Count(&n).Error
	return n, err
}
