package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"law_desk_app_go/config"
	"law_desk_app_go/db"
	"law_desk_app_go/models"
	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	officeZone = time.FixedZone("office", 3600)
	testNow    = time.Date(2026, 3, 10, 10, 0, 0, 0, officeZone)
)

const testPassword = "Office-Pass-2026"

type testApp struct {
	DB       *gorm.DB
	Settings *settings.Store
	Feed     *services.FeedAlerter
}

// setupTestApp points db.DB, db.TemplateDB, storage and the handler deps at
// fresh in-memory stores with the clock fixed at testNow
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000"
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(
		&models.Client{},
		&models.Case{},
		&models.Document{},
		&models.CalendarEvent{},
		&models.Invoice{},
		&models.Template{},
		&models.User{},
		&models.Session{},
	))
	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	db.DB = testDB
	db.TemplateDB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())

	store, err := settings.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	feed := services.NewFeedAlerter(10)
	dispatcher := services.NewAlertDispatcher(store, feed)
	svc := services.NewNotificationService(testDB, store, dispatcher, officeZone)
	svc.Now = func() time.Time { return testNow }

	Init(Deps{
		Config:        &config.Config{Environment: "test"},
		Settings:      store,
		Notifications: svc,
		Feed:          feed,
		Monitor:       services.NewSecurityMonitor(feed),
	})
	t.Cleanup(func() { Init(Deps{}) })

	return &testApp{DB: testDB, Settings: store, Feed: feed}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// jsonRequest builds a context carrying payload as a JSON body
func jsonRequest(t *testing.T, method, path string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	_, c, rec := setupEcho(method, path, strings.NewReader(string(raw)))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// requireHTTPError asserts err is an echo error with the given status
func requireHTTPError(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	assert.Equal(t, status, he.Code)
}

// requireFieldErrors asserts a 422 naming every field
func requireFieldErrors(t *testing.T, rec *httptest.ResponseRecorder, fields ...string) {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &body)
	assert.NotEmpty(t, body.Error)
	for _, f := range fields {
		assert.Contains(t, body.Fields, f)
	}
}

func createTestClient(t *testing.T, database *gorm.DB, name string) *models.Client {
	t.Helper()
	c := &models.Client{FullName: name, Phone: "0600000000"}
	require.NoError(t, database.Create(c).Error)
	return c
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
