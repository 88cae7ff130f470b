package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"law_desk_app_go/models"
	"law_desk_app_go/services/settings"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"
)

// NotificationWindowDays is how far ahead deadlines are surfaced
const NotificationWindowDays = models.NotificationWindowDays

// Snooze presets offered by the notification panel, in minutes
var SnoozePresets = []int{15, 60, 1440}

// BuildNotifications derives the deadline list from calendar events, case
// hearings and pending invoices. now must carry the office time zone.
// The result is ordered high, medium, low; ties keep generation order
// (events, then cases, then invoices).
func BuildNotifications(events []models.CalendarEvent, cases []models.Case, invoices []models.Invoice, now time.Time) []models.Notification {
	list := make([]models.Notification, 0)

	horizon := now.AddDate(0, 0, NotificationWindowDays)
	for i := range events {
		if n, ok := eventNotification(&events[i], now, horizon); ok {
			list = append(list, n)
		}
	}
	for i := range cases {
		if n, ok := hearingNotification(&cases[i], now); ok {
			list = append(list, n)
		}
	}
	for i := range invoices {
		if n, ok := invoiceNotification(&invoices[i], now); ok {
			list = append(list, n)
		}
	}

	sort.SliceStable(list, func(a, b int) bool {
		return models.PriorityRank(list[a].Priority) < models.PriorityRank(list[b].Priority)
	})
	return list
}

func eventNotification(e *models.CalendarEvent, now, horizon time.Time) (models.Notification, bool) {
	start := e.StartsAt(now.Location())
	if !start.After(now) || start.After(horizon) {
		return models.Notification{}, false
	}

	hours := int(start.Sub(now).Hours())
	days := hours / 24

	var priority, remaining string
	switch {
	case hours < 2:
		priority, remaining = models.PriorityHigh, "أقل من ساعتين"
	case hours < 24:
		priority, remaining = models.PriorityHigh, fmt.Sprintf("%d ساعة", hours)
	case days == 1:
		priority = models.PriorityHigh
		if rem := hours % 24; rem > 0 {
			remaining = fmt.Sprintf("يوم و %d ساعة", rem)
		} else {
			remaining = "يوم واحد"
		}
	case days <= 3:
		priority, remaining = models.PriorityMedium, fmt.Sprintf("%d أيام", days)
	default:
		priority, remaining = models.PriorityLow, fmt.Sprintf("%d أيام", days)
	}

	return models.Notification{
		ID:       "event-" + e.ID,
		Type:     models.NotificationTypeEvent,
		Title:    e.Title,
		Message:  fmt.Sprintf("موعد %s - متبقي %s", e.EventType, remaining),
		Date:     FormatDateDMY(start),
		Priority: priority,
		DueAt:    start,
	}, true
}

func hearingNotification(c *models.Case, now time.Time) (models.Notification, bool) {
	if c.NextHearingDate == nil || c.NextHearingDate.IsZero() {
		return models.Notification{}, false
	}
	d := DayDiff(now, *c.NextHearingDate)
	if d < 0 || d > NotificationWindowDays {
		return models.Notification{}, false
	}

	var priority, remaining string
	switch {
	case d == 0:
		priority, remaining = models.PriorityHigh, "اليوم"
	case d == 1:
		priority, remaining = models.PriorityHigh, "غداً"
	case d <= 3:
		priority, remaining = models.PriorityMedium, fmt.Sprintf("%d أيام", d)
	default:
		priority, remaining = models.PriorityLow, fmt.Sprintf("%d أيام", d)
	}

	return models.Notification{
		ID:       "case-hearing-" + c.ID,
		Type:     models.NotificationTypeCase,
		Title:    c.Title,
		Message:  "جلسة قضية - متبقي " + remaining,
		Date:     FormatDateDMY(*c.NextHearingDate),
		Priority: priority,
		DueAt:    localDate(*c.NextHearingDate, now.Location()),
	}, true
}

func invoiceNotification(inv *models.Invoice, now time.Time) (models.Notification, bool) {
	if !inv.IsPending() || inv.DueDate.IsZero() {
		return models.Notification{}, false
	}
	d := DayDiff(now, inv.DueDate)
	if d < 0 || d > NotificationWindowDays {
		return models.Notification{}, false
	}

	var priority, remaining string
	switch {
	case d <= 1:
		priority, remaining = models.PriorityHigh, "اليوم أو غداً"
	case d <= 3:
		priority, remaining = models.PriorityHigh, fmt.Sprintf("%d أيام", d)
	default:
		priority, remaining = models.PriorityMedium, fmt.Sprintf("%d أيام", d)
	}

	return models.Notification{
		ID:       "invoice-" + inv.ID,
		Type:     models.NotificationTypeInvoice,
		Title:    "فاتورة رقم " + inv.InvoiceNumber,
		Message:  fmt.Sprintf("مبلغ %s د.م - متبقي %s", FormatAmount(inv.Amount), remaining),
		Date:     FormatDateDMY(inv.DueDate),
		Priority: priority,
		DueAt:    localDate(inv.DueDate, now.Location()),
	}, true
}

// FormatAmount renders an amount with thousands separators and at most three decimals
func FormatAmount(amount float64) string {
	return humanize.Commaf(math.Round(amount*1000) / 1000)
}

// localDate moves a date-only value to midnight in loc without shifting the day
func localDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FilterSnoozed drops notifications whose snooze ends after now
func FilterSnoozed(list []models.Notification, snoozes map[string]time.Time, now time.Time) []models.Notification {
	out := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if until, ok := snoozes[n.ID]; ok && until.After(now) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NotificationService loads the records behind the deadline list and applies
// the office's snoozes and alert preferences.
type NotificationService struct {
	DB         *gorm.DB
	Settings   *settings.Store
	Dispatcher *AlertDispatcher
	Location   *time.Location

	// Now is replaceable in tests
	Now func() time.Time
}

func NewNotificationService(db *gorm.DB, store *settings.Store, dispatcher *AlertDispatcher, loc *time.Location) *NotificationService {
	if loc == nil {
		loc = time.Local
	}
	return &NotificationService{DB: db, Settings: store, Dispatcher: dispatcher, Location: loc, Now: time.Now}
}

func (s *NotificationService) now() time.Time {
	return s.Now().In(s.Location)
}

// List returns the current deadline list with snoozed entries removed
func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	now := s.now()
	events, cases, invoices, err := s.loadSources(ctx, now)
	if err != nil {
		return nil, err
	}

	list := BuildNotifications(events, cases, invoices, now)

	snoozes, err := s.Settings.Snoozes(ctx, now)
	if err != nil {
		return nil, err
	}
	return FilterSnoozed(list, snoozes, now), nil
}

// Current is List followed by the once-a-day alert dispatch. Dispatch
// failures are logged; the list is still returned.
func (s *NotificationService) Current(ctx context.Context) ([]models.Notification, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Dispatcher != nil {
		if _, err := s.Dispatcher.Dispatch(ctx, list, s.now()); err != nil {
			log.Printf("[ALERT] Dispatch failed: %v", err)
		}
	}
	return list, nil
}

// Snooze hides notification id for the given number of minutes and returns
// when it will reappear
func (s *NotificationService) Snooze(ctx context.Context, id string, minutes int) (time.Time, error) {
	verr := &ValidationError{}
	if id == "" {
		verr.Add("id", "معرف التنبيه مطلوب")
	}
	if minutes <= 0 {
		verr.Add("minutes", "مدة التأجيل يجب أن تكون أكبر من صفر")
	}
	if err := verr.Err(); err != nil {
		return time.Time{}, err
	}

	until := s.now().Add(time.Duration(minutes) * time.Minute)
	if err := s.Settings.Snooze(ctx, id, until); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

// loadSources reads only the rows that can fall inside the notification window
func (s *NotificationService) loadSources(ctx context.Context, now time.Time) ([]models.CalendarEvent, []models.Case, []models.Invoice, error) {
	from := localDate(now.AddDate(0, 0, -1), time.UTC)
	to := localDate(now.AddDate(0, 0, NotificationWindowDays+1), time.UTC)
	tx := s.DB.WithContext(ctx)

	var events []models.CalendarEvent
	if err := tx.Where("event_date BETWEEN ? AND ?", from, to).Find(&events).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load events: %w", err)
	}

	var cases []models.Case
	if err := tx.Where("next_hearing_date IS NOT NULL AND next_hearing_date BETWEEN ? AND ?", from, to).Find(&cases).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load cases: %w", err)
	}

	var invoices []models.Invoice
	if err := tx.Where("status IN ? AND due_date BETWEEN ? AND ?", models.PendingInvoiceStatuses(), from, to).Find(&invoices).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	return events, cases, invoices, nil
}
