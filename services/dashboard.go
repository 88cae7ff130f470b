package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"law_desk_app_go/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ArabicMonths holds month names indexed by time.Month - 1
var ArabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

const (
	dashboardRecentCases  = 4
	dashboardHearingDays  = 30
	dashboardHearingLimit = 5
	dashboardEventLimit   = 3
	dashboardChartMonths  = 12
)

// DashboardStats holds the headline numbers
type DashboardStats struct {
	TotalClients   int64   `json:"total_clients"`
	ActiveCases    int64   `json:"active_cases"`
	TotalDocuments int64   `json:"total_documents"`
	TotalRevenue   float64 `json:"total_revenue"`
	RevenueLabel   string  `json:"revenue_label"`
}

// MonthPoint is one bar of the dashboard chart
type MonthPoint struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Cases   int     `json:"cases"`
	Revenue float64 `json:"revenue"`
}

// Dashboard is everything the home screen shows
type Dashboard struct {
	Stats            DashboardStats         `json:"stats"`
	RecentCases      []models.Case          `json:"recent_cases"`
	UpcomingHearings []models.Case          `json:"upcoming_hearings"`
	UpcomingEvents   []models.CalendarEvent `json:"upcoming_events"`
	Chart            []MonthPoint           `json:"chart"`
	Notifications    []models.Notification  `json:"notifications"`
}

// LoadDashboard reads the stores in parallel and assembles the dashboard.
// now carries the office time zone. Notifications are left to the caller.
func LoadDashboard(ctx context.Context, db *gorm.DB, now time.Time) (*Dashboard, error) {
	var (
		clients   int64
		documents int64
		cases     []models.Case
		invoices  []models.Invoice
		events    []models.CalendarEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Client{}).Count(&clients).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Document{}).Count(&documents).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Preload("Client").Find(&cases).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Find(&invoices).Error
	})
	g.Go(func() error {
		var err error
		events, err = UpcomingEvents(db.WithContext(gctx), now, dashboardEventLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	d := &Dashboard{
		RecentCases:      recentCases(cases, dashboardRecentCases),
		UpcomingHearings: upcomingHearings(cases, now, dashboardHearingDays, dashboardHearingLimit),
		UpcomingEvents:   events,
		Chart:            monthlyChart(cases, invoices, now, dashboardChartMonths),
		Notifications:    []models.Notification{},
	}
	d.Stats.TotalClients = clients
	d.Stats.TotalDocuments = documents
	for i := range cases {
		if cases[i].IsActive() {
			d.Stats.ActiveCases++
		}
	}
	for _, inv := range invoices {
		d.Stats.TotalRevenue += inv.Amount
	}
	d.Stats.RevenueLabel = FormatAmount(d.Stats.TotalRevenue) + " د.م"

	return d, nil
}

// caseCreated is when a case entered the system: its record time, else its filing date
func caseCreated(c *models.Case) time.Time {
	if !c.CreatedAt.IsZero() {
		return c.CreatedAt
	}
	if c.FiledDate != nil {
		return *c.FiledDate
	}
	return time.Time{}
}

func recentCases(cases []models.Case, limit int) []models.Case {
	out := make([]models.Case, len(cases))
	copy(out, cases)
	sort.SliceStable(out, func(i, j int) bool {
		return caseCreated(&out[i]).After(caseCreated(&out[j]))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// upcomingHearings keeps cases heard between today and today+days, soonest first
func upcomingHearings(cases []models.Case, now time.Time, days, limit int) []models.Case {
	out := []models.Case{}
	for _, c := range cases {
		if c.NextHearingDate == nil {
			continue
		}
		d := DayDiff(now, *c.NextHearingDate)
		if d < 0 || d > days {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextHearingDate.Before(*out[j].NextHearingDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sameMonth compares t's own calendar month with year/month
func sameMonth(t time.Time, year int, month time.Month) bool {
	return !t.IsZero() && t.Year() == year && t.Month() == month
}

// monthlyChart builds the trailing series ending with now's month
func monthlyChart(cases []models.Case, invoices []models.Invoice, now time.Time, months int) []MonthPoint {
	out := make([]MonthPoint, 0, months)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i, 0)
		p := MonthPoint{Month: ArabicMonths[m.Month()-1], Year: m.Year()}
		for j := range cases {
			created := caseCreated(&cases[j])
			if !created.IsZero() {
				created = created.In(now.Location())
			}
			if sameMonth(created, m.Year(), m.Month()) {
				p.Cases++
			}
		}
		for _, inv := range invoices {
			if sameMonth(inv.IssueDate, m.Year(), m.Month()) {
				p.Revenue += inv.Amount
			}
		}
		out = append(out, p)
	}
	return out
}
