package services

import (
	"fmt"
	"strconv"
	"time"

	"law_desk_app_go/models"
	"law_desk_app_go/services/settings"

	"gorm.io/gorm"
)

// VariableCategory represents a group of template variables
type VariableCategory struct {
	Name      string     `json:"name"`
	Variables []Variable `json:"variables"`
}

// Variable represents a single template variable
type Variable struct {
	Key     string `json:"key"` // e.g., "client.name"
	Label   string `json:"label"`
	Example string `json:"example"`
}

// TemplateData holds all data for template variable substitution
type TemplateData struct {
	Client ClientData `json:"client"`
	Case   CaseData   `json:"case"`
	Office OfficeData `json:"office"`
	Today  DateData   `json:"today"`
}

// ClientData holds client-related template data
type ClientData struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
}

// CaseData holds case-related template data
type CaseData struct {
	Number      string `json:"number"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Court       string `json:"court"`
	FiledDate   string `json:"filed_date"`
	NextHearing string `json:"next_hearing"`
}

// OfficeData holds the office profile fields
type OfficeData struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// DateData holds current date template data
type DateData struct {
	Date     string `json:"date"`      // dd/mm/yyyy
	DateLong string `json:"date_long"` // 10 مارس 2026
	Year     string `json:"year"`
}

// GetVariableDictionary returns all available template variables organized by category
func GetVariableDictionary() []VariableCategory {
	return []VariableCategory{
		{
			Name: "العميل",
			Variables: []Variable{
				{Key: "client.name", Label: "اسم العميل", Example: "محمد العلمي"},
				{Key: "client.phone", Label: "هاتف العميل", Example: "0612345678"},
				{Key: "client.email", Label: "بريد العميل", Example: "client@example.ma"},
				{Key: "client.national_id", Label: "رقم البطاقة الوطنية", Example: "AB123456"},
				{Key: "client.address", Label: "عنوان العميل", Example: "الدار البيضاء"},
			},
		},
		{
			Name: "القضية",
			Variables: []Variable{
				{Key: "case.number", Label: "رقم القضية", Example: "2026/001"},
				{Key: "case.title", Label: "عنوان القضية", Example: "نزاع تجاري"},
				{Key: "case.type", Label: "نوع القضية", Example: "تجاري"},
				{Key: "case.status", Label: "حالة القضية", Example: "نشطة"},
				{Key: "case.court", Label: "المحكمة", Example: "المحكمة التجارية بالرباط"},
				{Key: "case.filed_date", Label: "تاريخ الرفع", Example: "15/01/2026"},
				{Key: "case.next_hearing", Label: "الجلسة القادمة", Example: "20/03/2026"},
			},
		},
		{
			Name: "المكتب",
			Variables: []Variable{
				{Key: "office.name", Label: "اسم المكتب", Example: "مكتب المحاماة"},
				{Key: "office.address", Label: "عنوان المكتب", Example: "شارع محمد الخامس"},
				{Key: "office.phone", Label: "هاتف المكتب", Example: "0522000000"},
				{Key: "office.email", Label: "بريد المكتب", Example: "contact@office.ma"},
			},
		},
		{
			Name: "التاريخ",
			Variables: []Variable{
				{Key: "today.date", Label: "تاريخ اليوم", Example: "10/03/2026"},
				{Key: "today.date_long", Label: "تاريخ اليوم (مفصل)", Example: "10 مارس 2026"},
				{Key: "today.year", Label: "السنة الحالية", Example: "2026"},
			},
		},
	}
}

// ArabicLongDate formats t as "<day> <month name> <year>"
func ArabicLongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), ArabicMonths[t.Month()-1], t.Year())
}

func dmyOrEmpty(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return FormatDateDMY(*t)
}

// BuildTemplateData collects the values for one print. client and caseRecord may be nil.
func BuildTemplateData(client *models.Client, caseRecord *models.Case, office settings.OfficeProfile, now time.Time) TemplateData {
	data := TemplateData{
		Office: OfficeData{
			Name:    office.Name,
			Address: office.Address,
			Phone:   office.Phone,
			Email:   office.Email,
		},
		Today: DateData{
			Date:     FormatDateDMY(now),
			DateLong: ArabicLongDate(now),
			Year:     strconv.Itoa(now.Year()),
		},
	}

	if caseRecord != nil {
		data.Case = CaseData{
			Number:      caseRecord.CaseNumber,
			Title:       caseRecord.Title,
			Type:        caseRecord.CaseType,
			Status:      caseRecord.Status,
			Court:       deref(caseRecord.CourtName),
			FiledDate:   dmyOrEmpty(caseRecord.FiledDate),
			NextHearing: dmyOrEmpty(caseRecord.NextHearingDate),
		}
		if client == nil {
			client = caseRecord.Client
		}
	}

	if client != nil {
		data.Client = ClientData{
			Name:       client.FullName,
			Phone:      client.Phone,
			Email:      deref(client.Email),
			NationalID: deref(client.NationalID),
			Address:    deref(client.Address),
		}
	}
	return data
}

// LoadTemplateData reads the client and case to merge. Empty ids are skipped;
// a case brings its own client when clientID is empty.
func LoadTemplateData(db *gorm.DB, clientID, caseID string, office settings.OfficeProfile, now time.Time) (TemplateData, error) {
	var (
		client     *models.Client
		caseRecord *models.Case
		err        error
	)
	if caseID != "" {
		if caseRecord, err = GetCase(db, caseID); err != nil {
			return TemplateData{}, err
		}
	}
	if clientID != "" {
		if client, err = GetClient(db, clientID); err != nil {
			return TemplateData{}, err
		}
	}
	return BuildTemplateData(client, caseRecord, office, now), nil
}
