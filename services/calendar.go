package services

import (
	"fmt"
	"strings"
	"time"

	"law_desk_app_go/models"

	"gorm.io/gorm"
)

// DefaultEventDuration is used for the ICS end time; events only store a start
const DefaultEventDuration = time.Hour

// EventInput is the create/update payload for a calendar event
type EventInput struct {
	Title       string `json:"title" form:"title"`
	EventType   string `json:"event_type" form:"event_type"`
	EventDate   string `json:"event_date" form:"event_date"` // YYYY-MM-DD
	EventTime   string `json:"event_time" form:"event_time"` // HH:MM
	Location    string `json:"location" form:"location"`
	Attendees   string `json:"attendees" form:"attendees"`
	Description string `json:"description" form:"description"`
}

// Validate checks required fields and the date/time formats
func (in *EventInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "عنوان الموعد مطلوب")
	}
	if strings.TrimSpace(in.EventType) == "" {
		verr.Add("event_type", "نوع الموعد مطلوب")
	}
	if strings.TrimSpace(in.EventDate) == "" {
		verr.Add("event_date", "التاريخ مطلوب")
	} else if _, err := ParseDate(in.EventDate); err != nil {
		verr.Add("event_date", "تاريخ غير صالح")
	}
	if strings.TrimSpace(in.EventTime) == "" {
		verr.Add("event_time", "الوقت مطلوب")
	} else if _, err := time.Parse("15:04", ToEnglishDigits(strings.TrimSpace(in.EventTime))); err != nil {
		verr.Add("event_time", "وقت غير صالح")
	}
	return verr.Err()
}

func (in *EventInput) apply(e *models.CalendarEvent) {
	e.Title = strings.TrimSpace(in.Title)
	e.EventType = strings.TrimSpace(in.EventType)
	e.EventDate, _ = ParseDate(in.EventDate)
	e.EventTime = ToEnglishDigits(strings.TrimSpace(in.EventTime))
	e.Location = optional(in.Location)
	e.Attendees = optional(in.Attendees)
	e.Description = optional(in.Description)
}

// ListEvents returns events in chronological order
func ListEvents(db *gorm.DB, filter ListFilter) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := db.Scopes(
		searchScope(filter.Search, "title", "event_type", "location", "description", "attendees"),
		limitScope(filter.Limit),
	).Order("event_date ASC, event_time ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpcomingEvents returns up to limit events on or after today's date
func UpcomingEvents(db *gorm.DB, today time.Time, limit int) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := db.Where("event_date >= ?", localDate(today, time.UTC)).
		Order("event_date ASC, event_time ASC").
		Scopes(limitScope(limit)).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return events, nil
}

// GetEvent fetches one calendar event
func GetEvent(db *gorm.DB, id string) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "event")
	}
	return &e, nil
}

// CreateEvent validates and stores a new calendar event
func CreateEvent(db *gorm.DB, in EventInput) (*models.CalendarEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e := &models.CalendarEvent{}
	in.apply(e)
	if err := db.Create(e).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

// UpdateEvent replaces every editable field of a calendar event
func UpdateEvent(db *gorm.DB, id string, in EventInput) (*models.CalendarEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e, err := GetEvent(db, id)
	if err != nil {
		return nil, err
	}
	in.apply(e)
	if err := db.Save(e).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return e, nil
}

// DeleteEvent removes a calendar event
func DeleteEvent(db *gorm.DB, id string) error {
	if err := deleteByID(db, &models.CalendarEvent{}, id); err != nil {
		if err == ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// icsEscape escapes text values per RFC 5545
func icsEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(s)
}

// GenerateEventICS renders a calendar event as an iCalendar file so it can be
// added to a phone or desktop calendar
func GenerateEventICS(e *models.CalendarEvent, officeName, officeEmail string, loc *time.Location) ([]byte, error) {
	dateFormat := "20060102T150405Z"
	start := e.StartsAt(loc)
	dtStamp := time.Now().UTC().Format(dateFormat)
	dtStart := start.UTC().Format(dateFormat)
	dtEnd := start.Add(DefaultEventDuration).UTC().Format(dateFormat)

	description := e.EventType
	if e.Attendees != nil && *e.Attendees != "" {
		description += "\nالحضور: " + *e.Attendees
	}
	if e.Description != nil && *e.Description != "" {
		description += "\n\n" + *e.Description
	}

	if officeName == "" {
		officeName = "LawDesk"
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//LawDesk//Calendar//AR",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + e.ID,
		"DTSTAMP:" + dtStamp,
		"DTSTART:" + dtStart,
		"DTEND:" + dtEnd,
		"SUMMARY:" + icsEscape(e.Title),
		"DESCRIPTION:" + icsEscape(description),
	}
	if e.Location != nil && *e.Location != "" {
		lines = append(lines, "LOCATION:"+icsEscape(*e.Location))
	}
	if officeEmail != "" {
		lines = append(lines, fmt.Sprintf("ORGANIZER;CN=\"%s\":mailto:%s", officeName, officeEmail))
	}
	lines = append(lines, "STATUS:CONFIRMED", "END:VEVENT", "END:VCALENDAR")

	return []byte(strings.Join(lines, "\r\n")), nil
}
