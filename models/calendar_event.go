package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Calendar event types offered by the event form
const (
	EventTypeHearing      = "جلسة"
	EventTypeMeeting      = "اجتماع"
	EventTypeConsultation = "استشارة"
	EventTypeTask         = "مهمة"
	EventTypeOther        = "أخرى"
)

// CalendarEvent is a dated appointment on the office calendar
type CalendarEvent struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string    `gorm:"not null" json:"title"`
	EventType   string    `gorm:"not null" json:"event_type"`
	EventDate   time.Time `gorm:"type:date;not null;index" json:"event_date"`
	EventTime   string    `gorm:"size:5;not null;default:'00:00'" json:"event_time"` // HH:MM, office time
	Location    *string   `json:"location,omitempty"`
	Attendees   *string   `json:"attendees,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CalendarEvent model
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// StartsAt combines the event date and HH:MM time in loc.
// A missing or malformed time component counts as 0.
func (e *CalendarEvent) StartsAt(loc *time.Location) time.Time {
	hours, minutes := 0, 0
	parts := strings.SplitN(e.EventTime, ":", 2)
	if h, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		hours = h
	}
	if len(parts) == 2 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minutes = m
		}
	}
	y, mo, d := e.EventDate.Date()
	return time.Date(y, mo, d, hours, minutes, 0, 0, loc)
}
