package printview

import (
	"context"
	"io"
	"strconv"

	"law_desk_app_go/models"

	"github.com/a-h/templ"
)

// PaperWidth is the on-screen page width of a template at 96dpi
func PaperWidth(t *models.Template) string {
	width := 794 // A4: 210mm
	if t.PageSize == models.PageSizeLetter || t.PageSize == models.PageSizeLegal {
		width = 816 // 8.5in
	}
	if t.PageOrientation == models.OrientationLandscape {
		switch t.PageSize {
		case models.PageSizeLetter:
			width = 1056
		case models.PageSizeLegal:
			width = 1344
		default:
			width = 1123
		}
	}
	return strconv.Itoa(width) + "px"
}

// TemplateDocument prints a template's stored HTML. The HTML was sanitized
// when the template was saved.
func TemplateDocument(t *models.Template) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<article class="template" style="width: `)
		h.raw(PaperWidth(t))
		h.raw(`; max-width: 100%; margin: 0 auto;">`)
		if h.err != nil {
			return h.err
		}
		if err := templ.Raw(t.HTML()).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</article>`)
		return h.err
	})
}

// TemplatePage is the printable document of a template, without the office header
func TemplatePage(t *models.Template) templ.Component {
	return Document(t.Title, TemplateDocument(t))
}
