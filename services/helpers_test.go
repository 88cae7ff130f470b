package services

import (
	"testing"
	"time"

	"law_desk_app_go/models"
	"law_desk_app_go/services/settings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to connect database")
	require.NoError(t, db.AutoMigrate(
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
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupTestSettings(t *testing.T) *settings.Store {
	t.Helper()
	store, err := settings.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func stringPtr(s string) *string {
	return &s
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func createTestClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()
	c := &models.Client{FullName: name, Phone: "0600000000"}
	require.NoError(t, db.Create(c).Error)
	return c
}
