// Package printview renders the printable RTL pages behind the print and PDF
// endpoints.
package printview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"law_desk_app_go/services"
	"law_desk_app_go/services/settings"

	"github.com/a-h/templ"
)

// DefaultOfficeName is printed when the office has not saved a profile
const DefaultOfficeName = "مكتب المحاماة"

const pageStyles = `
* { font-family: 'Cairo', 'Amiri', sans-serif; box-sizing: border-box; }
body { direction: rtl; margin: 0; padding: 20px; color: #1e293b; }
.office { display: flex; align-items: center; gap: 16px; border-bottom: 2px solid #c9a227; padding-bottom: 12px; margin-bottom: 16px; }
.office img { max-height: 64px; }
.office h2 { margin: 0; font-size: 20px; }
.office p { margin: 2px 0; font-size: 12px; color: #64748b; }
h1 { color: #1e293b; margin-bottom: 6px; }
.date { color: #64748b; margin-bottom: 20px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th { background: #1e293b; color: #fff; padding: 12px; text-align: right; border: 1px solid #ddd; }
td { border: 1px solid #ddd; padding: 12px; text-align: right; }
tr:nth-child(even) td { background: #f8fafc; }
.stats { display: grid; grid-template-columns: repeat(3, 1fr); gap: 12px; }
.stat { border: 1px solid #e2e8f0; border-radius: 8px; padding: 12px; }
.stat .value { font-size: 22px; font-weight: 700; }
.up { color: #16a34a; } .down { color: #dc2626; }
@media print { body { padding: 0; } }
`

// htmlWriter stops writing after the first error
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...interface{}) {
	h.raw(fmt.Sprintf(format, args...))
}

// PrintDate renders t as "10 مارس 2026" with Western digits
func PrintDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), services.ArabicMonths[t.Month()-1], t.Year())
}

// Document wraps parts in a full RTL HTML document
func Document(title string, parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html dir="rtl" lang="ar"><head><meta charset="UTF-8"><title>`)
		h.text(title)
		h.raw(`</title><link href="https://fonts.googleapis.com/css2?family=Cairo:wght@400;600;700&display=swap" rel="stylesheet"><style>`)
		h.raw(pageStyles)
		h.raw(`</style></head><body>`)
		if h.err != nil {
			return h.err
		}
		for _, part := range parts {
			if err := part.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

// Page is a Document headed by the office profile
func Page(title string, office settings.OfficeProfile, body templ.Component) templ.Component {
	return Document(title, officeHeader(office), body)
}

func officeHeader(office settings.OfficeProfile) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		name := office.Name
		if name == "" {
			name = DefaultOfficeName
		}
		h.raw(`<header class="office">`)
		if office.Logo != "" {
			h.raw(`<img src="`)
			h.text(office.Logo)
			h.raw(`" alt="">`)
		}
		h.raw(`<div><h2>`)
		h.text(name)
		h.raw(`</h2>`)
		for _, line := range []string{office.Address, office.Phone, office.Email, office.Website} {
			if line == "" {
				continue
			}
			h.raw(`<p>`)
			h.text(line)
			h.raw(`</p>`)
		}
		h.raw(`</div></header>`)
		return h.err
	})
}

// Render renders c to a string, for feeding the PDF generator
func Render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
