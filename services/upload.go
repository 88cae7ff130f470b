package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	ErrUploadTooLarge  = errors.New("upload too large")
	ErrUploadType      = errors.New("upload type not allowed")
	ErrUploadSignature = errors.New("upload content does not match its type")
)

// UploadError carries the message shown to the office for a rejected upload
type UploadError struct {
	Kind    error
	Message string
}

func (e *UploadError) Error() string { return e.Message }

func (e *UploadError) Unwrap() error { return e.Kind }

// UploadPolicy bounds what an upload field accepts
type UploadPolicy struct {
	MaxSize int64
	// Extensions maps an accepted extension to the content family its first
	// bytes must sniff as. An empty family skips the check.
	Extensions map[string]string
	// Label lists the accepted formats for messages
	Label string
}

// DocumentUploads are attachments of a document record
var DocumentUploads = UploadPolicy{
	MaxSize: 10 << 20,
	Extensions: map[string]string{
		".pdf": "application/pdf", ".jpg": "image/", ".jpeg": "image/", ".png": "image/",
		".doc": "", ".docx": "", ".txt": "", ".xlsx": "",
	},
	Label: "PDF, DOC, DOCX, TXT, JPG, PNG, XLSX",
}

// LogoUploads is the office logo
var LogoUploads = UploadPolicy{
	MaxSize:    2 << 20,
	Extensions: map[string]string{".png": "image/png", ".jpg": "image/jpeg", ".jpeg": "image/jpeg"},
	Label:      "PNG, JPG",
}

// Check validates size, extension and file signature. Rejections are
// *UploadError values wrapping one of the ErrUpload sentinels.
func (p UploadPolicy) Check(fh *multipart.FileHeader) error {
	if fh.Size > p.MaxSize {
		return &UploadError{ErrUploadTooLarge, "حجم الملف يتجاوز الحد الأقصى " + humanize.IBytes(uint64(p.MaxSize))}
	}

	family, ok := p.Extensions[strings.ToLower(filepath.Ext(fh.Filename))]
	if !ok {
		return &UploadError{ErrUploadType, "نوع الملف غير مسموح. الصيغ المقبولة: " + p.Label}
	}
	if family == "" {
		return nil
	}

	head, err := readHead(fh)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(http.DetectContentType(head), family) {
		return &UploadError{ErrUploadSignature, "محتوى الملف لا يطابق امتداده"}
	}
	return nil
}

// ValidateDocumentUpload checks an attachment against DocumentUploads
func ValidateDocumentUpload(fh *multipart.FileHeader) error {
	return DocumentUploads.Check(fh)
}

// ValidateLogoUpload checks a logo against LogoUploads
func ValidateLogoUpload(fh *multipart.FileHeader) error {
	return LogoUploads.Check(fh)
}

// readHead returns up to the first 512 bytes of the upload
func readHead(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return buf[:n], nil
}
