package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"law_desk_app_go/config"
	"law_desk_app_go/models"
	"law_desk_app_go/services/settings"
)

// AlertTitle is the heading of every urgent case alert
const AlertTitle = "تنبيه قضية مهمة"

// Alert is a native notification raised for an urgent case hearing
type Alert struct {
	Title              string    `json:"title"`
	Body               string    `json:"body"`
	Tag                string    `json:"tag"`
	Icon               string    `json:"icon"`
	Badge              string    `json:"badge"`
	RequireInteraction bool      `json:"require_interaction"`
	Silent             bool      `json:"silent"`
	CreatedAt          time.Time `json:"created_at"`
}

// Alerter delivers an alert somewhere the office will see it
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}

// AlertSettings is the part of the settings store the dispatcher needs
type AlertSettings interface {
	Preferences(ctx context.Context) (settings.Preferences, error)
	LastNotificationDate(ctx context.Context) (string, error)
	SetLastNotificationDate(ctx context.Context, day time.Time) error
}

// AlertDispatcher raises alerts for high priority case hearings at most once
// per calendar day
type AlertDispatcher struct {
	Settings AlertSettings
	Alerters []Alerter

	mu sync.Mutex
}

func NewAlertDispatcher(store AlertSettings, alerters ...Alerter) *AlertDispatcher {
	return &AlertDispatcher{Settings: store, Alerters: alerters}
}

// Dispatch raises one alert per urgent case hearing within the configured
// lookahead and records today as dispatched. It returns the number of alerts raised.
func (d *AlertDispatcher) Dispatch(ctx context.Context, list []models.Notification, now time.Time) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prefs, err := d.Settings.Preferences(ctx)
	if err != nil {
		return 0, err
	}
	if prefs.Permission != settings.PermissionGranted {
		return 0, nil
	}

	var urgent []models.Notification
	for _, n := range list {
		if n.Type == models.NotificationTypeCase && n.Priority == models.PriorityHigh {
			urgent = append(urgent, n)
		}
	}
	if len(urgent) == 0 {
		return 0, nil
	}

	last, err := d.Settings.LastNotificationDate(ctx)
	if err != nil {
		return 0, err
	}
	if last == now.Format("2006-01-02") {
		return 0, nil
	}

	sent := 0
	for _, n := range urgent {
		if DayDiff(now, n.DueAt) > prefs.DaysBefore {
			continue
		}
		alert := Alert{
			Title:              AlertTitle,
			Body:               fmt.Sprintf("%s\n%s\nالموعد: %s", n.Title, n.Message, n.Date),
			Tag:                n.ID,
			Icon:               "/favicon.ico",
			Badge:              "/favicon.ico",
			RequireInteraction: true,
			Silent:             !prefs.SoundEnabled,
			CreatedAt:          now,
		}
		for _, a := range d.Alerters {
			if err := a.Send(ctx, alert); err != nil {
				log.Printf("[ALERT] Failed to deliver %s via %T: %v", alert.Tag, a, err)
			}
		}
		sent++
	}

	if err := d.Settings.SetLastNotificationDate(ctx, now); err != nil {
		return sent, err
	}
	log.Printf("[ALERT] Dispatched %d urgent case alert(s)", sent)
	return sent, nil
}

// FeedAlerter queues alerts until the browser collects them
type FeedAlerter struct {
	mu    sync.Mutex
	queue []Alert
	max   int
}

// NewFeedAlerter keeps at most max undelivered alerts, dropping the oldest
func NewFeedAlerter(max int) *FeedAlerter {
	if max <= 0 {
		max = 100
	}
	return &FeedAlerter{max: max}
}

func (f *FeedAlerter) Send(_ context.Context, alert Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, alert)
	if len(f.queue) > f.max {
		f.queue = f.queue[len(f.queue)-f.max:]
	}
	return nil
}

// Drain returns and clears the queued alerts
func (f *FeedAlerter) Drain() []Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queue
	f.queue = nil
	if out == nil {
		out = []Alert{}
	}
	return out
}

// EmailAlerter forwards alerts by email through Resend
type EmailAlerter struct {
	Config *config.Config
	To     []string
}

func (e *EmailAlerter) Send(_ context.Context, alert Alert) error {
	if len(e.To) == 0 {
		return nil
	}
	return SendEmail(e.Config, BuildAlertEmail(e.To, alert))
}

// LogAlerter writes alerts to the server log
type LogAlerter struct{}

func (LogAlerter) Send(_ context.Context, alert Alert) error {
	log.Printf("[ALERT] %s | %s", alert.Title, strings.ReplaceAll(alert.Body, "\n", " | "))
	return nil
}
