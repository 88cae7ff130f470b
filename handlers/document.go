package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetDocumentsHandler lists documents, optionally filtered by ?q= and ?client_id=
func GetDocumentsHandler(c echo.Context) error {
	docs, err := services.ListDocuments(db.DB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل المستندات")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"documents": docs})
}

// GetDocumentHandler returns one document
func GetDocumentHandler(c echo.Context) error {
	doc, err := services.GetDocument(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل المستند")
	}
	return c.JSON(http.StatusOK, doc)
}

// CreateDocumentHandler adds a document record
func CreateDocumentHandler(c echo.Context) error {
	var in services.DocumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	doc, err := services.CreateDocument(db.DB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ المستند")
	}
	return c.JSON(http.StatusCreated, doc)
}

// UpdateDocumentHandler replaces a document's fields
func UpdateDocumentHandler(c echo.Context) error {
	var in services.DocumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	doc, err := services.UpdateDocument(db.DB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث المستند")
	}
	return c.JSON(http.StatusOK, doc)
}

// DeleteDocumentHandler removes a document record
func DeleteDocumentHandler(c echo.Context) error {
	if err := services.DeleteDocument(db.DB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف المستند")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadDocumentFileHandler stores the multipart "file" and links it to the document
func UploadDocumentFileHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "يرجى اختيار ملف",
			"fields": map[string]string{"file": "الملف مطلوب"},
		})
	}

	doc, err := services.AttachDocumentFile(c.Request().Context(), db.DB, services.Storage, c.Param("id"), file)
	if err != nil {
		return apiError(c, err, "تعذر رفع الملف")
	}
	return c.JSON(http.StatusOK, doc)
}
