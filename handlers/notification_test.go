package handlers

import (
	"net/http"
	"testing"

	"law_desk_app_go/models"
	"law_desk_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationsBody struct {
	Notifications []models.Notification `json:"notifications"`
	Count         int                   `json:"count"`
	SnoozePresets []int                 `json:"snooze_presets"`
}

func TestNotificationHandlers(t *testing.T) {
	app := setupTestApp(t)
	client := createTestClient(t, app.DB, "Client N")
	hearing := &models.Case{
		CaseNumber: "CASE-0001", Title: "قضية عاجلة", CaseType: "مدني", ClientID: client.ID,
		NextHearingDate: datePtr(2026, 3, 10),
	}
	require.NoError(t, app.DB.Create(hearing).Error)
	require.NoError(t, app.DB.Create(&models.Invoice{
		InvoiceNumber: "INV-0001", Amount: 1200, Status: models.InvoiceStatusPending,
		IssueDate: *datePtr(2026, 3, 1), DueDate: *datePtr(2026, 3, 14),
	}).Error)

	id := "case-hearing-" + hearing.ID

	t.Run("list runs the daily dispatch", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/notifications", nil)
		require.NoError(t, GetNotificationsHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var body notificationsBody
		decode(t, rec, &body)
		require.Equal(t, 2, body.Count)
		assert.Equal(t, id, body.Notifications[0].ID)
		assert.Equal(t, models.PriorityHigh, body.Notifications[0].Priority)
		assert.Equal(t, "invoice-", body.Notifications[1].ID[:8])
		assert.Equal(t, services.SnoozePresets, body.SnoozePresets)

		_, c, rec = setupEcho(http.MethodGet, "/api/alerts", nil)
		require.NoError(t, GetAlertsHandler(c))
		var alerts []services.Alert
		decode(t, rec, &alerts)
		require.Len(t, alerts, 1)
		assert.Equal(t, services.AlertTitle, alerts[0].Title)
		assert.Equal(t, id, alerts[0].Tag)

		// a second read the same day raises nothing new
		_, c, _ = setupEcho(http.MethodGet, "/api/notifications", nil)
		require.NoError(t, GetNotificationsHandler(c))
		_, c, rec = setupEcho(http.MethodGet, "/api/alerts", nil)
		require.NoError(t, GetAlertsHandler(c))
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("snooze hides the entry", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPost, "/api/notifications/"+id+"/snooze", map[string]int{"minutes": 60})
		require.NoError(t, SnoozeNotificationHandler(withID(c, id)))
		require.Equal(t, http.StatusOK, rec.Code)

		_, c, rec = setupEcho(http.MethodGet, "/api/notifications", nil)
		require.NoError(t, GetNotificationsHandler(c))
		var body notificationsBody
		decode(t, rec, &body)
		require.Equal(t, 1, body.Count)
		assert.NotEqual(t, id, body.Notifications[0].ID)
	})

	t.Run("snooze needs positive minutes", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPost, "/api/notifications/"+id+"/snooze", map[string]int{"minutes": 0})
		require.NoError(t, SnoozeNotificationHandler(withID(c, id)))
		requireFieldErrors(t, rec, "minutes")
	})
}

func TestDashboardHandler(t *testing.T) {
	app := setupTestApp(t)
	client := createTestClient(t, app.DB, "Client D")
	require.NoError(t, app.DB.Create(&models.Case{
		CaseNumber: "CASE-0001", Title: "جلسة غداً", CaseType: "أسري", ClientID: client.ID,
		NextHearingDate: datePtr(2026, 3, 11),
	}).Error)
	require.NoError(t, app.DB.Create(&models.Invoice{
		InvoiceNumber: "INV-0001", Amount: 2500, Status: models.InvoiceStatusPaid,
		IssueDate: *datePtr(2026, 3, 2), DueDate: *datePtr(2026, 3, 20),
	}).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/dashboard", nil)
	require.NoError(t, DashboardHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body services.Dashboard
	decode(t, rec, &body)
	assert.Equal(t, int64(1), body.Stats.TotalClients)
	assert.Equal(t, int64(1), body.Stats.ActiveCases)
	assert.Equal(t, 2500.0, body.Stats.TotalRevenue)
	assert.Len(t, body.RecentCases, 1)
	assert.Len(t, body.UpcomingHearings, 1)
	assert.Len(t, body.Chart, 12)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "جلسة قضية - متبقي غداً", body.Notifications[0].Message)
}
