package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"law_desk_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportContext(entity, query string) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(http.MethodGet, "/api/export/"+entity+"/xlsx"+query, nil)
	c.SetParamNames("entity")
	c.SetParamValues(entity)
	return c, rec
}

func TestExportCatalogHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/api/export", nil)
	require.NoError(t, ExportCatalogHandler(c))

	var catalogs []services.ExportCatalog
	decode(t, rec, &catalogs)
	require.Len(t, catalogs, len(services.ExportEntities))
	assert.Equal(t, "clients", catalogs[0].Entity)
}

func TestExportXLSXHandler(t *testing.T) {
	app := setupTestApp(t)
	createTestClient(t, app.DB, "Client X")

	c, rec := exportContext("clients", "?fields=full_name,phone")
	require.NoError(t, ExportXLSXHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "clients-2026-03-10.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(services.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"الاسم الكامل", "رقم الهاتف"}, rows[0])
	assert.Equal(t, []string{"Client X", "0600000000"}, rows[1])
}

func TestExportXLSXHandler_Errors(t *testing.T) {
	setupTestApp(t)

	c, _ := exportContext("nope", "")
	requireHTTPError(t, ExportXLSXHandler(c), http.StatusNotFound)

	c, rec := exportContext("clients", "?fields=full_name,salary")
	require.NoError(t, ExportXLSXHandler(c))
	requireFieldErrors(t, rec, "fields")
}

func TestExportPrintHandler(t *testing.T) {
	app := setupTestApp(t)
	createTestClient(t, app.DB, "Client P")

	c, rec := exportContext("clients", "")
	require.NoError(t, ExportPrintHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "<title>تقرير العملاء</title>")
	assert.Contains(t, html, "<td>Client P</td>")
	assert.Contains(t, html, "10 مارس 2026")
}
