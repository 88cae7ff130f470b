package handlers

import (
	"net/http"

	"law_desk_app_go/db"
	"law_desk_app_go/models"
	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
)

// clientRow is a client with the number of documents it owns
type clientRow struct {
	models.Client
	DocumentCount int64 `json:"document_count"`
}

// GetClientsHandler lists clients, optionally filtered by ?q=
func GetClientsHandler(c echo.Context) error {
	clients, err := services.ListClients(db.DB, listFilter(c))
	if err != nil {
		return apiError(c, err, "تعذر تحميل العملاء")
	}
	counts, err := services.DocumentCountByClient(db.DB)
	if err != nil {
		return apiError(c, err, "تعذر تحميل العملاء")
	}

	rows := make([]clientRow, len(clients))
	for i, cl := range clients {
		rows[i] = clientRow{Client: cl, DocumentCount: counts[cl.ID]}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"clients": rows})
}

// GetClientHandler returns one client
func GetClientHandler(c echo.Context) error {
	client, err := services.GetClient(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل العميل")
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClientHandler adds a client
func CreateClientHandler(c echo.Context) error {
	var in services.ClientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	client, err := services.CreateClient(db.DB, in)
	if err != nil {
		return apiError(c, err, "تعذر حفظ العميل")
	}
	return c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler replaces a client's fields
func UpdateClientHandler(c echo.Context) error {
	var in services.ClientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "طلب غير صالح")
	}
	client, err := services.UpdateClient(db.DB, c.Param("id"), in)
	if err != nil {
		return apiError(c, err, "تعذر تحديث العميل")
	}
	return c.JSON(http.StatusOK, client)
}

// DeleteClientHandler removes a client
func DeleteClientHandler(c echo.Context) error {
	if err := services.DeleteClient(db.DB, c.Param("id")); err != nil {
		return apiError(c, err, "تعذر حذف العميل")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetClientDocumentsHandler lists the documents owned by a client
func GetClientDocumentsHandler(c echo.Context) error {
	docs, err := services.ListClientDocuments(db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err, "تعذر تحميل المستندات")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"documents": docs})
}
