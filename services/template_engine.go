package services

import (
	"html"
	"regexp"
	"strings"

	"law_desk_app_go/models"
)

// variableRegex matches {{variable.path}} patterns
var variableRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// RenderTemplate replaces {{variable}} placeholders in template HTML with
// escaped values from data. Unknown or empty variables are left as written
// so the office sees what still needs filling in.
func RenderTemplate(content string, data TemplateData) string {
	return variableRegex.ReplaceAllStringFunc(content, func(match string) string {
		key := variableRegex.FindStringSubmatch(match)[1]
		value := getValueByKey(key, data)
		if value == "" {
			return match
		}
		return html.EscapeString(value)
	})
}

// MergeTemplate returns a copy of t with its placeholders filled in
func MergeTemplate(t *models.Template, data TemplateData) *models.Template {
	merged := *t
	merged.SetHTML(RenderTemplate(t.HTML(), data))
	return &merged
}

// getValueByKey retrieves a value from TemplateData using a dot-notation key
func getValueByKey(key string, data TemplateData) string {
	category, field, ok := strings.Cut(key, ".")
	if !ok {
		return ""
	}

	switch category {
	case "client":
		return getClientValue(field, data.Client)
	case "case":
		return getCaseValue(field, data.Case)
	case "office":
		return getOfficeValue(field, data.Office)
	case "today":
		return getTodayValue(field, data.Today)
	default:
		return ""
	}
}

func getClientValue(field string, client ClientData) string {
	switch field {
	case "name":
		return client.Name
	case "phone":
		return client.Phone
	case "email":
		return client.Email
	case "national_id":
		return client.NationalID
	case "address":
		return client.Address
	default:
		return ""
	}
}

func getCaseValue(field string, caseData CaseData) string {
	switch field {
	case "number":
		return caseData.Number
	case "title":
		return caseData.Title
	case "type":
		return caseData.Type
	case "status":
		return caseData.Status
	case "court":
		return caseData.Court
	case "filed_date":
		return caseData.FiledDate
	case "next_hearing":
		return caseData.NextHearing
	default:
		return ""
	}
}

func getOfficeValue(field string, office OfficeData) string {
	switch field {
	case "name":
		return office.Name
	case "address":
		return office.Address
	case "phone":
		return office.Phone
	case "email":
		return office.Email
	default:
		return ""
	}
}

func getTodayValue(field string, today DateData) string {
	switch field {
	case "date":
		return today.Date
	case "date_long":
		return today.DateLong
	case "year":
		return today.Year
	default:
		return ""
	}
}
