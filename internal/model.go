package internal

import "time"

// SleepRecord is a page in the external sleep database. It is never stored locally.
type SleepRecord struct {
	ID         string     `json:"id"`
	SleepTime  *time.Time `json:"sleep_time,omitempty"`
	Date       string     `json:"date,omitempty"` // YYYY-MM-DD of SleepTime
	WakeTime   *time.Time `json:"wake_time,omitempty"`
	HoursSlept *float64   `json:"hours_slept,omitempty"`
}

// Open reports whether the record is still waiting for a wake event.
func (r SleepRecord) Open() bool {
	return r.SleepTime != nil && r.WakeTime == nil
}

type EventKind string

const (
	EventSleep EventKind = "sleep"
	EventWake  EventKind = "wake"
)

type EventStatus string

const (
	StatusOK     EventStatus = "ok"
	StatusFailed EventStatus = "failed"
)

// RelayEvent is one journal entry describing a trigger the relay handled.
type RelayEvent struct {
	ID         string      `json:"id"`
	Kind       EventKind   `json:"kind"`
	PageID     string      `json:"page_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	HoursSlept *float64    `json:"hours_slept,omitempty"`
	Status     EventStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}
