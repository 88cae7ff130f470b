package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"law_desk_app_go/models"
	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:jobs_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Case{}, &models.CalendarEvent{}, &models.Invoice{}, &models.User{}, &models.Session{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupJobsSettings(t *testing.T) *settings.Store {
	t.Helper()
	store, err := settings.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStartScheduler(t *testing.T) {
	loc := time.FixedZone("Africa/Casablanca", 3600)
	c, err := StartScheduler(Deps{Location: loc})
	require.NoError(t, err)

	assert.Len(t, c.Entries(), 3)
	assert.Equal(t, loc, c.Location())

	<-c.Stop().Done()
}

func TestStartScheduler_BadSpec(t *testing.T) {
	_, err := StartScheduler(Deps{AlertSpec: "every morning"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert dispatch")
}

func TestDispatchAlerts(t *testing.T) {
	db := setupJobsTestDB(t)
	store := setupJobsSettings(t)
	loc := time.FixedZone("Africa/Casablanca", 3600)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)

	client := &models.Client{FullName: "Youssef Amrani", Phone: "0600000000"}
	require.NoError(t, db.Create(client).Error)
	hearing := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Case{
		ClientID:        client.ID,
		CaseNumber:      "CASE-0001",
		Title:           "نزاع تجاري",
		CaseType:        "تجارية",
		NextHearingDate: &hearing,
	}).Error)

	feed := services.NewFeedAlerter(10)
	svc := services.NewNotificationService(db, store, services.NewAlertDispatcher(store, feed), loc)
	svc.Now = func() time.Time { return now }

	ctx := context.Background()
	DispatchAlerts(ctx, svc)

	alerts := feed.Drain()
	require.Len(t, alerts, 1)
	assert.Equal(t, services.AlertTitle, alerts[0].Title)
	assert.Equal(t, "case-hearing-", alerts[0].Tag[:len("case-hearing-")])

	last, err := store.LastNotificationDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", last)

	// second pass the same day raises nothing
	DispatchAlerts(ctx, svc)
	assert.Empty(t, feed.Drain())

	DispatchAlerts(ctx, nil)
}

func TestPurgeSnoozes(t *testing.T) {
	store := setupJobsSettings(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SetSnoozes(ctx, map[string]time.Time{
		"event-1":   now.Add(-time.Minute),
		"invoice-2": now.Add(time.Hour),
	}))

	PurgeSnoozes(ctx, store, now)

	snoozes, err := store.Snoozes(ctx, now)
	require.NoError(t, err)
	assert.Len(t, snoozes, 1)
	assert.Contains(t, snoozes, "invoice-2")
}

func TestJobsAlongsideUserActions(t *testing.T) {
	db := setupJobsTestDB(t)
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	loc := time.FixedZone("Africa/Casablanca", 3600)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	ctx := context.Background()

	client := &models.Client{FullName: "Youssef Amrani", Phone: "0600000000"}
	require.NoError(t, db.Create(client).Error)
	hearing := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Case{
		ClientID:        client.ID,
		CaseNumber:      "CASE-0001",
		Title:           "نزاع تجاري",
		CaseType:        "تجارية",
		NextHearingDate: &hearing,
	}).Error)
	require.NoError(t, store.SetSnoozes(ctx, map[string]time.Time{"event-old": now.Add(-time.Minute)}))

	feed := services.NewFeedAlerter(100)
	svc := services.NewNotificationService(db, store, services.NewAlertDispatcher(store, feed), loc)
	svc.Now = func() time.Time { return now }

	const users = 20
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(4)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Snooze(ctx, fmt.Sprintf("invoice-%d", i), 15)
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			PurgeSnoozes(ctx, store, now)
		}()
		go func() {
			defer wg.Done()
			DispatchAlerts(ctx, svc)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Current(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snoozes, err := store.Snoozes(ctx, now)
	require.NoError(t, err)
	assert.Len(t, snoozes, users)
	assert.NotContains(t, snoozes, "event-old")

	// the daily pass ran once however many callers raced for it
	assert.Len(t, feed.Drain(), 1)
}

func TestCleanupSessions(t *testing.T) {
	db := setupJobsTestDB(t)
	require.NoError(t, db.Create(&models.Session{ID: "old", UserID: "u", Token: "old", ExpiresAt: time.Now().Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Session{ID: "new", UserID: "u", Token: "new", ExpiresAt: time.Now().Add(time.Hour)}).Error)

	CleanupSessions(context.Background(), db)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
