package models

import (
	"time"
)

// Notification types
const (
	NotificationTypeEvent   = "event"
	NotificationTypeCase    = "case"
	NotificationTypeInvoice = "invoice"
)

// NotificationWindowDays is how many days ahead deadlines are surfaced
const NotificationWindowDays = 7

// Notification priorities, most urgent first
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification is an upcoming deadline derived from events, case hearings and
// pending invoices. It is recomputed on every read and never persisted.
type Notification struct {
	ID       string    `json:"id"` // "<source>-<record id>", also the snooze key
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Date     string    `json:"date"` // dd/mm/yyyy
	Priority string    `json:"priority"`
	DueAt    time.Time `json:"due_at"`
}

// PriorityRank orders priorities for sorting: high 0, medium 1, low 2.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
