package printview

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"law_desk_app_go/services"

	"github.com/a-h/templ"
)

// ReportTitle heads the yearly statistics print
func ReportTitle(year int) string {
	return "تقرير إحصائي - " + strconv.Itoa(year)
}

// Report prints the yearly statistics: headline numbers, growth against the
// comparison year when there is one, and the monthly table
func Report(r *services.Report, printedOn time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`)
		h.text(ReportTitle(r.Year))
		h.raw(`</h1><div class="date">تاريخ الطباعة: `)
		h.text(PrintDate(printedOn))
		h.raw(`</div><section class="stats">`)

		stats := []struct {
			label  string
			value  string
			growth *float64
		}{
			{"إجمالي القضايا", strconv.Itoa(r.Stats.TotalCases), nil},
			{"القضايا النشطة", strconv.Itoa(r.Stats.ActiveCases), nil},
			{"القضايا المغلقة", strconv.Itoa(r.Stats.ClosedCases), nil},
			{"العملاء الجدد", strconv.Itoa(r.Stats.TotalClients), nil},
			{"الإيرادات", services.FormatAmount(r.Stats.TotalRevenue) + " د.م", nil},
			{"المستندات", strconv.FormatInt(r.Stats.TotalDocuments, 10), nil},
		}
		if r.Growth != nil {
			stats[0].growth = &r.Growth.Cases
			stats[3].growth = &r.Growth.Clients
			stats[4].growth = &r.Growth.Revenue
		}
		for _, s := range stats {
			h.raw(`<div class="stat"><div>`)
			h.text(s.label)
			h.raw(`</div><div class="value">`)
			h.text(s.value)
			h.raw(`</div>`)
			if s.growth != nil {
				class := "up"
				if *s.growth < 0 {
					class = "down"
				}
				h.rawf(`<div class="%s">`, class)
				h.text(FormatGrowth(*s.growth) + " مقارنة بـ " + strconv.Itoa(r.CompareYear))
				h.raw(`</div>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)

		h.raw(`<table><thead><tr><th>الشهر</th><th>القضايا</th><th>العملاء</th><th>الإيرادات</th></tr></thead><tbody>`)
		for i := range r.Cases {
			h.raw(`<tr><td>`)
			h.text(r.Cases[i].Month)
			h.rawf(`</td><td>%d</td><td>%d</td><td>`, r.Cases[i].CurrentYear, r.Clients[i].CurrentYear)
			h.text(services.FormatAmount(r.Revenue[i].CurrentYear))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		for _, dist := range []struct {
			title  string
			slices []services.Slice
		}{
			{"توزيع القضايا حسب الحالة", r.StatusDistribution},
			{"توزيع القضايا حسب النوع", r.TypeDistribution},
		} {
			if len(dist.slices) == 0 {
				continue
			}
			h.raw(`<h3>`)
			h.text(dist.title)
			h.raw(`</h3><table><tbody>`)
			for _, s := range dist.slices {
				h.raw(`<tr><td>`)
				h.text(s.Name)
				h.rawf(`</td><td>%d</td></tr>`, s.Value)
			}
			h.raw(`</tbody></table>`)
		}
		return h.err
	})
}

// FormatGrowth renders a percentage with its sign and one decimal
func FormatGrowth(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}
