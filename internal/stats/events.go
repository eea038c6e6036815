package stats

import (
	"time"

	"idoljournal/internal/logger"
)

const dateLayout = "2006-01-02"

// EventStatus tells whether a countdown target has passed.
type EventStatus string

const (
	StatusUpcoming  EventStatus = "Upcoming"
	StatusCompleted EventStatus = "Completed"
)

// Event is a countdown entry with a calendar date in "YYYY-MM-DD" form.
type Event struct {
	ID    int64
	Title string
	Date  string
}

// Countdown is an event resolved against a reference time.
type Countdown struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Date     string      `json:"date"`
	DaysLeft int         `json:"days_left"`
	Status   EventStatus `json:"status"`
}

// ParseDate reads a "YYYY-MM-DD" date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

// StatusFor classifies a days-left value.
func StatusFor(daysLeft int) EventStatus {
	if daysLeft < 0 {
		return StatusCompleted
	}
	return StatusUpcoming
}

// Countdowns resolves every event against now, keeping input order. Dates are
// read in now's location; events with malformed dates are logged and dropped.
func Countdowns(events []Event, now time.Time) []Countdown {
	out := make([]Countdown, 0, len(events))
	for _, e := range events {
		target, err := ParseDate(e.Date, now.Location())
		if err != nil {
			logger.Get().Warnw("skipping countdown event with malformed date",
				"event_id", e.ID,
				"date", e.Date,
				"error", err,
			)
			continue
		}
		days := DaysUntil(target, now)
		out = append(out, Countdown{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date,
			DaysLeft: days,
			Status:   StatusFor(days),
		})
	}
	return out
}

// EventsInYear keeps the events dated in year. Malformed dates are dropped.
func EventsInYear(events []Event, year int) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		target, err := ParseDate(e.Date, time.UTC)
		if err != nil {
			logger.Get().Warnw("skipping countdown event with malformed date",
				"event_id", e.ID,
				"date", e.Date,
			)
			continue
		}
		if target.Year() == year {
			out = append(out, e)
		}
	}
	return out
}
