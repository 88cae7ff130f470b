package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func officeProfileFixture() settings.OfficeProfile {
	return settings.OfficeProfile{
		Name:  "مكتب الأستاذ",
		Email: "contact@office.ma",
		Phone: "0522000000",
	}
}

func TestPreferencesHandlers(t *testing.T) {
	setupTestApp(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/settings/preferences", nil)
	require.NoError(t, GetPreferencesHandler(c))
	var prefs settings.Preferences
	decode(t, rec, &prefs)
	assert.Equal(t, settings.DefaultPreferences(), prefs)

	c, rec = jsonRequest(t, http.MethodPut, "/api/settings/preferences", map[string]interface{}{
		"sound_enabled": false, "days_before": 3, "permission": settings.PermissionDenied,
	})
	require.NoError(t, UpdatePreferencesHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &prefs)
	assert.Equal(t, settings.Preferences{SoundEnabled: false, DaysBefore: 3, Permission: settings.PermissionDenied}, prefs)

	c, rec = jsonRequest(t, http.MethodPut, "/api/settings/preferences", map[string]interface{}{
		"days_before": 30, "permission": "maybe",
	})
	require.NoError(t, UpdatePreferencesHandler(c))
	requireFieldErrors(t, rec, "days_before", "permission")
}

func TestUpdatePreferencesHandler_PartialUpdate(t *testing.T) {
	setupTestApp(t)
	put := func(payload map[string]interface{}) settings.Preferences {
		t.Helper()
		c, rec := jsonRequest(t, http.MethodPut, "/api/settings/preferences", payload)
		require.NoError(t, UpdatePreferencesHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var prefs settings.Preferences
		decode(t, rec, &prefs)
		return prefs
	}

	prefs := put(map[string]interface{}{"sound_enabled": true, "days_before": 2})
	assert.Equal(t, settings.Preferences{SoundEnabled: true, DaysBefore: 2, Permission: settings.PermissionGranted}, prefs)

	put(map[string]interface{}{"sound_enabled": false, "permission": settings.PermissionDenied})
	prefs = put(map[string]interface{}{"days_before": 5})
	assert.Equal(t, settings.Preferences{SoundEnabled: false, DaysBefore: 5, Permission: settings.PermissionDenied}, prefs)

	prefs = put(map[string]interface{}{"permission": ""})
	assert.Equal(t, settings.PermissionDenied, prefs.Permission)

	c, rec := jsonRequest(t, http.MethodPut, "/api/settings/preferences", map[string]interface{}{"days_before": services.NotificationWindowDays + 1})
	require.NoError(t, UpdatePreferencesHandler(c))
	requireFieldErrors(t, rec, "days_before")

	stored, err := deps.Settings.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stored.DaysBefore)
}

func TestOfficeHandlers(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.Settings.SaveOfficeProfile(ctx, settings.OfficeProfile{Name: "قديم", Logo: "/api/files/office/logo.png"}))

	t.Run("name is required", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPut, "/api/settings/office", map[string]string{"email": "x"})
		require.NoError(t, UpdateOfficeHandler(c))
		requireFieldErrors(t, rec, "name", "email")
	})

	t.Run("update keeps the logo", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPut, "/api/settings/office", officeProfileFixture())
		require.NoError(t, UpdateOfficeHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		office, err := app.Settings.OfficeProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "مكتب الأستاذ", office.Name)
		assert.Equal(t, "/api/files/office/logo.png", office.Logo)

		_, c, rec = setupEcho(http.MethodGet, "/api/settings/office", nil)
		require.NoError(t, GetOfficeHandler(c))
		assert.Contains(t, rec.Body.String(), "contact@office.ma")
	})
}

// pngHeader is enough of a PNG for content sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartRequest(t *testing.T, path, field, filename string, content []byte) echo.Context {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, c, _ := setupEcho(http.MethodPost, path, bytes.NewReader(body.Bytes()))
	c.Request().Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return c
}

func TestUploadOfficeLogoHandler(t *testing.T) {
	app := setupTestApp(t)

	t.Run("png", func(t *testing.T) {
		c := multipartRequest(t, "/api/settings/office/logo", "logo", "logo.png", pngHeader)
		require.NoError(t, UploadOfficeLogoHandler(c))
		assert.Equal(t, http.StatusOK, c.Response().Status)

		office, err := app.Settings.OfficeProfile(context.Background())
		require.NoError(t, err)
		assert.Contains(t, office.Logo, "office/logo_")
	})

	t.Run("not an image", func(t *testing.T) {
		c := multipartRequest(t, "/api/settings/office/logo", "logo", "logo.png", []byte("plain text"))
		require.NoError(t, UploadOfficeLogoHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, c.Response().Status)
	})
}

func TestDownloadFileHandler(t *testing.T) {
	setupTestApp(t)
	_, err := services.Storage.Put(context.Background(), "documents/d1/a.txt", strings.NewReader("hello"), "text/plain", 5)
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/files/documents/d1/a.txt", nil)
	c.SetParamNames("*")
	c.SetParamValues("documents/d1/a.txt")
	require.NoError(t, DownloadFileHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")

	_, c, _ = setupEcho(http.MethodGet, "/api/files/../app.db", nil)
	c.SetParamNames("*")
	c.SetParamValues("../app.db")
	requireHTTPError(t, DownloadFileHandler(c), http.StatusBadRequest)

	_, c, _ = setupEcho(http.MethodGet, "/api/files/documents/d1/missing.txt", nil)
	c.SetParamNames("*")
	c.SetParamValues("documents/d1/missing.txt")
	requireHTTPError(t, DownloadFileHandler(c), http.StatusNotFound)
}
