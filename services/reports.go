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

// UnspecifiedLabel names a distribution slice with no value
const UnspecifiedLabel = "غير محدد"

// MonthlyCount compares one month of two years
type MonthlyCount struct {
	Month        string `json:"month"`
	CurrentYear  int    `json:"current_year"`
	PreviousYear int    `json:"previous_year"`
}

// MonthlyAmount compares one month of revenue across two years
type MonthlyAmount struct {
	Month        string  `json:"month"`
	CurrentYear  float64 `json:"current_year"`
	PreviousYear float64 `json:"previous_year"`
}

// Slice is one wedge of a distribution chart
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// YearStats summarizes one year
type YearStats struct {
	TotalCases     int     `json:"total_cases"`
	ActiveCases    int     `json:"active_cases"`
	ClosedCases    int     `json:"closed_cases"`
	TotalClients   int     `json:"total_clients"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalDocuments int64   `json:"total_documents"`
}

// Growth is the percent change from the comparison year
type Growth struct {
	Cases     float64 `json:"cases"`
	Clients   float64 `json:"clients"`
	Revenue   float64 `json:"revenue"`
	Documents float64 `json:"documents"`
}

// Report is the yearly statistics screen
type Report struct {
	Year               int             `json:"year"`
	CompareYear        int             `json:"compare_year,omitempty"`
	Cases              []MonthlyCount  `json:"cases"`
	Clients            []MonthlyCount  `json:"clients"`
	Revenue            []MonthlyAmount `json:"revenue"`
	StatusDistribution []Slice         `json:"status_distribution"`
	TypeDistribution   []Slice         `json:"type_distribution"`
	Stats              YearStats       `json:"stats"`
	CompareStats       *YearStats      `json:"compare_stats,omitempty"`
	Growth             *Growth         `json:"growth,omitempty"`
}

// LoadReport reads every case, client and invoice plus the document count
// and builds the report for year. compareYear 0 means no comparison.
func LoadReport(ctx context.Context, db *gorm.DB, year, compareYear int, loc *time.Location) (*Report, error) {
	var (
		cases     []models.Case
		clients   []models.Client
		invoices  []models.Invoice
		documents int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Find(&cases).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Find(&clients).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Find(&invoices).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Document{}).Count(&documents).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	r := BuildReport(cases, clients, invoices, documents, year, compareYear, loc)
	return &r, nil
}

// caseOpened is the date a case counts toward, read as a calendar date
func caseOpened(c *models.Case, loc *time.Location) time.Time {
	opened := c.OpenedOn()
	if c.FiledDate == nil {
		return opened.In(loc)
	}
	return opened
}

// BuildReport computes the report from already loaded records.
// The "previous year" series is compareYear when set, else year-1.
func BuildReport(cases []models.Case, clients []models.Client, invoices []models.Invoice, documents int64, year, compareYear int, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	prev := year - 1
	if compareYear > 0 {
		prev = compareYear
	}

	r := Report{
		Year:        year,
		CompareYear: compareYear,
		Cases:       make([]MonthlyCount, 12),
		Clients:     make([]MonthlyCount, 12),
		Revenue:     make([]MonthlyAmount, 12),
	}
	for i, name := range ArabicMonths {
		r.Cases[i].Month = name
		r.Clients[i].Month = name
		r.Revenue[i].Month = name
	}

	cur := YearStats{TotalDocuments: documents}
	var base YearStats

	for i := range cases {
		opened := caseOpened(&cases[i], loc)
		switch opened.Year() {
		case year:
			r.Cases[opened.Month()-1].CurrentYear++
			cur.TotalCases++
			if cases[i].IsActive() {
				cur.ActiveCases++
			}
			if cases[i].IsClosed() {
				cur.ClosedCases++
			}
		case prev:
			r.Cases[opened.Month()-1].PreviousYear++
			base.TotalCases++
		}
	}

	for _, c := range clients {
		created := c.CreatedAt.In(loc)
		switch created.Year() {
		case year:
			r.Clients[created.Month()-1].CurrentYear++
			cur.TotalClients++
		case prev:
			r.Clients[created.Month()-1].PreviousYear++
			base.TotalClients++
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		if !inv.IsPaid() {
			continue
		}
		switch inv.IssueDate.Year() {
		case year:
			r.Revenue[inv.IssueDate.Month()-1].CurrentYear += inv.Amount
			cur.TotalRevenue += inv.Amount
		case prev:
			r.Revenue[inv.IssueDate.Month()-1].PreviousYear += inv.Amount
			base.TotalRevenue += inv.Amount
		}
	}

	r.StatusDistribution = distribution(cases, func(c *models.Case) string { return c.Status })
	r.TypeDistribution = distribution(cases, func(c *models.Case) string { return c.CaseType })
	r.Stats = cur

	if compareYear > 0 {
		r.CompareStats = &base
		r.Growth = &Growth{
			Cases:   growth(float64(cur.TotalCases), float64(base.TotalCases)),
			Clients: growth(float64(cur.TotalClients), float64(base.TotalClients)),
			Revenue: growth(cur.TotalRevenue, base.TotalRevenue),
		}
	}
	return r
}

// growth is the percent change from base, 0 when there is no base
func growth(current, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return (current - base) / base * 100
}

// distribution counts cases per key, largest first, ties in first-seen order
func distribution(cases []models.Case, key func(*models.Case) string) []Slice {
	counts := map[string]int{}
	order := []string{}
	for i := range cases {
		k := key(&cases[i])
		if k == "" {
			k = UnspecifiedLabel
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]Slice, len(order))
	for i, k := range order {
		out[i] = Slice{Name: k, Value: counts[k]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
