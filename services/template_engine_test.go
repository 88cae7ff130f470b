package services

import (
	"testing"
	"time"

	"law_desk_app_go/models"
	"law_desk_app_go/services/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	data := TemplateData{
		Client: ClientData{Name: "محمد العلمي", Address: "<b>Rabat</b>"},
		Case:   CaseData{Number: "2026/001", Title: "نزاع تجاري"},
		Office: OfficeData{Name: "مكتب الأمل"},
		Today:  DateData{Date: "10/03/2026"},
	}

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"single variable", "<p>السيد {{client.name}}</p>", "<p>السيد محمد العلمي</p>"},
		{"multiple variables", "{{case.number}}: {{case.title}}", "2026/001: نزاع تجاري"},
		{"whitespace inside braces", "{{  office.name  }}", "مكتب الأمل"},
		{"values are escaped", "{{client.address}}", "&lt;b&gt;Rabat&lt;/b&gt;"},
		{"empty value keeps placeholder", "{{client.phone}}", "{{client.phone}}"},
		{"unknown category keeps placeholder", "{{lawyer.name}}", "{{lawyer.name}}"},
		{"no category", "{{today}}", "{{today}}"},
		{"malformed tag", "{client.name}", "{client.name}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderTemplate(tt.content, data))
		})
	}
}

func TestGetVariableDictionary_KeysResolve(t *testing.T) {
	office := settings.OfficeProfile{Name: "n", Address: "a", Phone: "p", Email: "e"}
	filed := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := &models.Case{
		CaseNumber: "1", Title: "t", CaseType: "ty", Status: "s",
		CourtName: stringPtr("c"), FiledDate: &filed, NextHearingDate: &filed,
		Client: &models.Client{FullName: "x", Phone: "p", Email: stringPtr("e"), NationalID: stringPtr("i"), Address: stringPtr("a")},
	}
	data := BuildTemplateData(nil, c, office, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	for _, cat := range GetVariableDictionary() {
		for _, v := range cat.Variables {
			assert.NotEmpty(t, getValueByKey(v.Key, data), v.Key)
		}
	}
}

func TestBuildTemplateData(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	hearing := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	caseRecord := &models.Case{
		CaseNumber:      "2026/001",
		Title:           "نزاع تجاري",
		NextHearingDate: &hearing,
		Client:          &models.Client{FullName: "عميل القضية"},
	}

	data := BuildTemplateData(nil, caseRecord, settings.OfficeProfile{Name: "مكتب الأمل"}, now)
	assert.Equal(t, "عميل القضية", data.Client.Name)
	assert.Equal(t, "20/03/2026", data.Case.NextHearing)
	assert.Empty(t, data.Case.FiledDate)
	assert.Equal(t, "10 مارس 2026", data.Today.DateLong)
	assert.Equal(t, "2026", data.Today.Year)

	// an explicit client wins over the case's
	data = BuildTemplateData(&models.Client{FullName: "عميل آخر"}, caseRecord, settings.OfficeProfile{}, now)
	assert.Equal(t, "عميل آخر", data.Client.Name)
}

func TestLoadTemplateData(t *testing.T) {
	db := setupTestDB(t)
	client := createTestClient(t, db, "سلمى الإدريسي")
	c, err := CreateCase(db, CaseInput{
		ClientID: client.ID, CaseNumber: "2026/007", Title: "قضية", CaseType: "مدني",
	})
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	data, err := LoadTemplateData(db, "", c.ID, settings.OfficeProfile{}, now)
	require.NoError(t, err)
	assert.Equal(t, "2026/007", data.Case.Number)
	assert.Equal(t, "سلمى الإدريسي", data.Client.Name)

	_, err = LoadTemplateData(db, "missing", "", settings.OfficeProfile{}, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeTemplate(t *testing.T) {
	tpl := &models.Template{Title: "توكيل"}
	tpl.SetHTML("<p>{{client.name}}</p>")

	merged := MergeTemplate(tpl, TemplateData{Client: ClientData{Name: "كريم"}})
	assert.Equal(t, "<p>كريم</p>", merged.HTML())
	assert.Equal(t, "<p>{{client.name}}</p>", tpl.HTML())
	assert.Equal(t, "توكيل", merged.Title)
}
