package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockFileHeader(filename string, content []byte, contentType string) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(20 * 1024 * 1024)
	return form.File["file"][0]
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func padded(head string, n int) []byte {
	return append([]byte(head), make([]byte, n)...)
}

func TestValidateDocumentUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"pdf", "judgment.pdf", padded("%PDF-1.4\n", 100), nil},
		{"png", "scan.PNG", padded(string(pngHeader), 100), nil},
		{"docx is not sniffed", "memo.docx", padded("PK\x03\x04", 100), nil},
		{"too large", "big.pdf", make([]byte, 11<<20), ErrUploadTooLarge},
		{"extension", "setup.exe", []byte("MZ"), ErrUploadType},
		{"pdf that is text", "fake.pdf", []byte("this is just text"), ErrUploadSignature},
		{"png that is text", "fake.png", []byte("this is just text"), ErrUploadSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentUpload(createMockFileHeader(tt.filename, tt.content, ""))
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUploadError_Message(t *testing.T) {
	err := ValidateDocumentUpload(createMockFileHeader("setup.exe", []byte("MZ"), ""))
	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Error(), "PDF, DOC, DOCX")

	err = ValidateLogoUpload(createMockFileHeader("logo.png", make([]byte, 3<<20), ""))
	assert.ErrorIs(t, err, ErrUploadTooLarge)
	assert.Contains(t, err.Error(), "2.0 MiB")
}

func TestValidateLogoUpload(t *testing.T) {
	assert.NoError(t, ValidateLogoUpload(createMockFileHeader("logo.png", padded(string(pngHeader), 50), "")))
	assert.NoError(t, ValidateLogoUpload(createMockFileHeader("logo.jpg", padded("\xff\xd8\xff\xe0", 50), "")))
	assert.ErrorIs(t, ValidateLogoUpload(createMockFileHeader("logo.png", []byte("%PDF-1.4"), "")), ErrUploadSignature)
	assert.ErrorIs(t, ValidateLogoUpload(createMockFileHeader("logo.gif", []byte("GIF89a"), "")), ErrUploadType)
}
