// Package app opens every store and service the server and the admin CLI
// share, in the order they depend on each other.
package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"law_desk_app_go/config"
	"law_desk_app_go/db"
	"law_desk_app_go/models"
	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"
)

// App holds the opened stores and the notification pipeline
type App struct {
	Config        *config.Config
	Location      *time.Location
	Settings      *settings.Store
	Feed          *services.FeedAlerter
	Dispatcher    *services.AlertDispatcher
	Notifications *services.NotificationService
	Monitor       *services.SecurityMonitor
}

// Models lives in the document store
var Models = []interface{}{
	&models.User{},
	&models.Session{},
	&models.Client{},
	&models.Case{},
	&models.Document{},
	&models.CalendarEvent{},
	&models.Invoice{},
}

// Open connects both databases, runs migrations, opens the settings store
// and storage, and wires the alerters
func Open(cfg *config.Config) (*App, error) {
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models...); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.InitializeTemplateStore(cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.AutoMigrateTemplates(&models.Template{}); err != nil {
		db.Close()
		return nil, err
	}

	store, err := settings.Open(cfg.SettingsDBPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	if cfg.AlertLookaheadDays >= 0 {
		store.Defaults.DaysBefore = cfg.AlertLookaheadDays
	}
	log.Printf("Settings store opened (path: %s)", cfg.SettingsDBPath)

	services.InitializeStorage(cfg)

	feed := services.NewFeedAlerter(100)
	alerters := []services.Alerter{feed, services.LogAlerter{}}
	securityAlerters := []services.Alerter{feed}
	if to := recipients(cfg.AlertEmailTo); len(to) > 0 {
		email := &services.EmailAlerter{Config: cfg, To: to}
		alerters = append(alerters, email)
		securityAlerters = append(securityAlerters, email)
	}
	dispatcher := services.NewAlertDispatcher(store, alerters...)

	loc := cfg.Location()
	return &App{
		Config:        cfg,
		Location:      loc,
		Settings:      store,
		Feed:          feed,
		Dispatcher:    dispatcher,
		Notifications: services.NewNotificationService(db.DB, store, dispatcher, loc),
		Monitor:       services.NewSecurityMonitor(securityAlerters...),
	}, nil
}

// Close closes the settings store and both databases
func (a *App) Close() error {
	if err := a.Settings.Close(); err != nil {
		log.Printf("[WARNING] Failed to close settings store: %v", err)
	}
	return db.Close()
}

// recipients splits a comma separated address list
func recipients(raw string) []string {
	var out []string
	for _, addr := range strings.Split(raw, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
