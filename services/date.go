package services

import (
	"fmt"
	"strings"
	"time"
)

// DisplayDateLayout is how dates are shown in notifications, exports and print views
const DisplayDateLayout = "02/01/2006"

var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, ToEnglishDigits(strings.TrimSpace(dateStr)))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// ParseOptionalDate is ParseDate for nullable columns; "" yields nil.
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	t, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDateDMY renders t as dd/mm/yyyy with Western digits
func FormatDateDMY(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// ToEnglishDigits replaces Arabic-Indic and Persian digits with ASCII ones
func ToEnglishDigits(s string) string {
	return arabicDigits.Replace(s)
}

// DayDiff returns the number of calendar days from `from` to `to`. Each side
// contributes its own year/month/day; clock time and zone are ignored, so a
// date-only column read back as UTC midnight compares against the office's today.
func DayDiff(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// StartOfDay returns midnight of t's date in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
