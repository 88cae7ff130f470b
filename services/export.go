package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"law_desk_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportSheetName is the single worksheet of every export
const ExportSheetName = "البيانات"

const exportColumnWidth = 20

// ExportField is one selectable column of an export
type ExportField struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

// ExportCatalog describes what can be exported for one entity
type ExportCatalog struct {
	Entity string        `json:"entity"`
	Title  string        `json:"title"`
	Fields []ExportField `json:"fields"`
}

var exportCatalogs = map[string]ExportCatalog{
	"clients": {
		Entity: "clients",
		Title:  "تقرير العملاء",
		Fields: []ExportField{
			{"full_name", "الاسم الكامل", true},
			{"phone", "رقم الهاتف", true},
			{"email", "البريد الإلكتروني", true},
			{"national_id", "رقم الهوية", false},
			{"address", "العنوان", false},
			{"notes", "ملاحظات", false},
			{"created_at", "تاريخ الإضافة", false},
		},
	},
	"cases": {
		Entity: "cases",
		Title:  "تقرير القضايا",
		Fields: []ExportField{
			{"case_number", "رقم القضية", true},
			{"title", "عنوان القضية", true},
			{"case_type", "نوع القضية", true},
			{"status", "الحالة", true},
			{"priority", "الأولوية", false},
			{"client_name", "اسم العميل", false},
			{"court_name", "اسم المحكمة", false},
			{"filed_date", "تاريخ الرفع", true},
			{"next_hearing_date", "موعد الجلسة القادمة", false},
			{"description", "الوصف", false},
		},
	},
	"invoices": {
		Entity: "invoices",
		Title:  "تقرير الفواتير",
		Fields: []ExportField{
			{"invoice_number", "رقم الفاتورة", true},
			{"client_name", "اسم العميل", true},
			{"amount", "المبلغ", true},
			{"status", "الحالة", true},
			{"issue_date", "تاريخ الإصدار", true},
			{"due_date", "تاريخ الاستحقاق", true},
		},
	},
	"events": {
		Entity: "events",
		Title:  "تقرير المواعيد",
		Fields: []ExportField{
			{"title", "العنوان", true},
			{"event_type", "نوع الموعد", true},
			{"event_date", "التاريخ", true},
			{"event_time", "الوقت", true},
			{"location", "المكان", false},
			{"attendees", "الحضور", false},
			{"description", "الوصف", false},
		},
	},
	"documents": {
		Entity: "documents",
		Title:  "تقرير المستندات",
		Fields: []ExportField{
			{"title", "عنوان المستند", true},
			{"category", "التصنيف", true},
			{"type", "النوع", true},
			{"client_name", "اسم العميل", true},
			{"file_count", "عدد الملفات", false},
			{"created_at", "تاريخ الإضافة", false},
		},
	},
}

// ExportEntities lists exportable entities in menu order
var ExportEntities = []string{"clients", "cases", "invoices", "events", "documents"}

// GetExportCatalog returns the catalog for entity
func GetExportCatalog(entity string) (ExportCatalog, error) {
	c, ok := exportCatalogs[entity]
	if !ok {
		return ExportCatalog{}, ErrNotFound
	}
	return c, nil
}

// Select resolves requested keys to fields in catalog order.
// No keys means the default selection.
func (c ExportCatalog) Select(keys []string) ([]ExportField, error) {
	want := map[string]bool{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			want[k] = true
		}
	}

	var out []ExportField
	for _, f := range c.Fields {
		if (len(want) == 0 && f.Default) || want[f.Key] {
			out = append(out, f)
			delete(want, f.Key)
		}
	}

	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for k := range want {
			unknown = append(unknown, k)
		}
		verr := &ValidationError{}
		verr.Add("fields", "حقول غير معروفة: "+strings.Join(unknown, ", "))
		return nil, verr
	}
	if len(out) == 0 {
		verr := &ValidationError{}
		verr.Add("fields", "الرجاء اختيار حقل واحد على الأقل")
		return nil, verr
	}
	return out, nil
}

// ExportTable is a loaded, formatted export ready for a sheet or a print view
type ExportTable struct {
	Title   string
	Columns []ExportField
	Rows    [][]string
}

// Headers returns the column labels
func (t *ExportTable) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// LoadExportTable reads every record of entity and formats the selected fields.
// Timestamps are shown in loc; date-only columns keep their calendar date.
func LoadExportTable(ctx context.Context, db *gorm.DB, entity string, keys []string, loc *time.Location) (*ExportTable, error) {
	catalog, err := GetExportCatalog(entity)
	if err != nil {
		return nil, err
	}
	columns, err := catalog.Select(keys)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	records, err := exportRecords(db.WithContext(ctx), entity, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s for export: %w", entity, err)
	}

	table := &ExportTable{Title: catalog.Title, Columns: columns, Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			v := strings.TrimSpace(rec[col.Key])
			if v == "" {
				v = "-"
			}
			row[i] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func exportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return FormatDateDMY(*t)
}

func exportAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exportRecords flattens each record of entity to field key → display value
func exportRecords(db *gorm.DB, entity string, loc *time.Location) ([]map[string]string, error) {
	var out []map[string]string
	switch entity {
	case "clients":
		var clients []models.Client
		if err := db.Order("created_at DESC").Find(&clients).Error; err != nil {
			return nil, err
		}
		for _, c := range clients {
			created := c.CreatedAt.In(loc)
			out = append(out, map[string]string{
				"full_name":   c.FullName,
				"phone":       c.Phone,
				"email":       deref(c.Email),
				"national_id": deref(c.NationalID),
				"address":     deref(c.Address),
				"notes":       deref(c.Notes),
				"created_at":  exportDate(&created),
			})
		}
	case "cases":
		var cases []models.Case
		if err := db.Preload("Client").Order("created_at DESC").Find(&cases).Error; err != nil {
			return nil, err
		}
		for _, c := range cases {
			clientName := ""
			if c.Client != nil {
				clientName = c.Client.FullName
			}
			out = append(out, map[string]string{
				"case_number":       c.CaseNumber,
				"title":             c.Title,
				"case_type":         c.CaseType,
				"status":            c.Status,
				"priority":          c.Priority,
				"client_name":       clientName,
				"court_name":        deref(c.CourtName),
				"filed_date":        exportDate(c.FiledDate),
				"next_hearing_date": exportDate(c.NextHearingDate),
				"description":       deref(c.Description),
			})
		}
	case "invoices":
		var invoices []models.Invoice
		if err := db.Preload("Client").Order("issue_date DESC").Find(&invoices).Error; err != nil {
			return nil, err
		}
		for i := range invoices {
			inv := &invoices[i]
			out = append(out, map[string]string{
				"invoice_number": inv.InvoiceNumber,
				"client_name":    inv.ClientName(),
				"amount":         exportAmount(inv.Amount),
				"status":         inv.Status,
				"issue_date":     exportDate(&inv.IssueDate),
				"due_date":       exportDate(&inv.DueDate),
			})
		}
	case "events":
		var events []models.CalendarEvent
		if err := db.Order("event_date ASC, event_time ASC").Find(&events).Error; err != nil {
			return nil, err
		}
		for i := range events {
			e := &events[i]
			out = append(out, map[string]string{
				"title":       e.Title,
				"event_type":  e.EventType,
				"event_date":  exportDate(&e.EventDate),
				"event_time":  e.EventTime,
				"location":    deref(e.Location),
				"attendees":   deref(e.Attendees),
				"description": deref(e.Description),
			})
		}
	case "documents":
		var docs []models.Document
		if err := db.Preload("Client").Order("created_at DESC").Find(&docs).Error; err != nil {
			return nil, err
		}
		for _, d := range docs {
			clientName := ""
			if d.Client != nil {
				clientName = d.Client.FullName
			}
			created := d.CreatedAt.In(loc)
			out = append(out, map[string]string{
				"title":       d.Title,
				"category":    d.Category,
				"type":        d.Type,
				"client_name": clientName,
				"file_count":  strconv.Itoa(len(d.FileURLs)),
				"created_at":  exportDate(&created),
			})
		}
	default:
		return nil, ErrNotFound
	}
	return out, nil
}

// ExportXLSX writes table to a single-sheet workbook
func ExportXLSX(table *ExportTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	rtl := true
	if err := f.SetSheetView(ExportSheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, fmt.Errorf("failed to set sheet direction: %w", err)
	}

	for i, header := range table.Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ExportSheetName, cell, header)
	}
	for r, row := range table.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(ExportSheetName, cell, v)
		}
	}

	if n := len(table.Columns); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		f.SetColWidth(ExportSheetName, "A", last, exportColumnWidth)
		headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		lastHeader, _ := excelize.CoordinatesToCellName(n, 1)
		f.SetCellStyle(ExportSheetName, "A1", lastHeader, headerStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ExportFilename is "<entity>-YYYY-MM-DD.<ext>"
func ExportFilename(entity string, now time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", entity, now.Format("2006-01-02"), ext)
}
