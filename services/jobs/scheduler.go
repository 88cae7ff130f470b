package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	// DefaultAlertSpec runs the alert pass every morning
	DefaultAlertSpec = "0 8 * * *"
	// SnoozePurgeSpec matches how often the dashboard re-checks its list
	SnoozePurgeSpec = "@every 30s"
	// SessionCleanupSpec drops expired logins
	SessionCleanupSpec = "@hourly"

	jobTimeout = 2 * time.Minute
)

// Deps are the services the background jobs run against
type Deps struct {
	DB            *gorm.DB
	Settings      *settings.Store
	Notifications *services.NotificationService
	Location      *time.Location
	AlertSpec     string
}

// StartScheduler registers the background jobs and starts the scheduler in
// the office time zone. Callers stop it with Stop().
func StartScheduler(deps Deps) (*cron.Cron, error) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	spec := deps.AlertSpec
	if spec == "" {
		spec = DefaultAlertSpec
	}

	c := cron.New(cron.WithLocation(loc))

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context)
	}{
		{"alert dispatch", spec, func(ctx context.Context) { DispatchAlerts(ctx, deps.Notifications) }},
		{"snooze purge", SnoozePurgeSpec, func(ctx context.Context) { PurgeSnoozes(ctx, deps.Settings, time.Now().In(loc)) }},
		{"session cleanup", SessionCleanupSpec, func(ctx context.Context) { CleanupSessions(ctx, deps.DB) }},
	}

	for _, j := range jobs {
		j := j
		if _, err := c.AddFunc(j.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			j.run(ctx)
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule %s (%q): %w", j.name, j.spec, err)
		}
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (%s, alerts at %q)", loc, spec)
	return c, nil
}

// DispatchAlerts runs one pass of the deadline list, which raises the day's
// alerts if they have not gone out yet
func DispatchAlerts(ctx context.Context, svc *services.NotificationService) {
	if svc == nil {
		return
	}
	list, err := svc.Current(ctx)
	if err != nil {
		log.Printf("[JOB] Alert dispatch failed: %v", err)
		return
	}
	log.Printf("[JOB] Alert pass checked %d notifications", len(list))
}

// PurgeSnoozes drops snoozes that have run out
func PurgeSnoozes(ctx context.Context, store *settings.Store, now time.Time) {
	if store == nil {
		return
	}
	n, err := store.PurgeExpiredSnoozes(ctx, now)
	if err != nil {
		log.Printf("[JOB] Snooze purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[JOB] Purged %d expired snoozes", n)
	}
}

// CleanupSessions deletes expired sessions
func CleanupSessions(ctx context.Context, db *gorm.DB) {
	if db == nil {
		return
	}
	n, err := services.CleanupExpiredSessions(db.WithContext(ctx))
	if err != nil {
		log.Printf("[JOB] Session cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[JOB] Cleaned up %d expired sessions", n)
	}
}
