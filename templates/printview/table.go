package printview

import (
	"context"
	"io"
	"time"

	"law_desk_app_go/services"

	"github.com/a-h/templ"
)

// Table prints an export as a titled RTL table
func Table(table *services.ExportTable, printedOn time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`)
		h.text(table.Title)
		h.raw(`</h1><div class="date">تاريخ الطباعة: `)
		h.text(PrintDate(printedOn))
		h.raw(`</div><table><thead><tr>`)
		for _, label := range table.Headers() {
			h.raw(`<th>`)
			h.text(label)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range table.Rows {
			h.raw(`<tr>`)
			for _, v := range row {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}
