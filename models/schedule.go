package models

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
)

var startTimeLayouts = []string{"15:04", "15:04:05"}

// Schedule is either Scheduled or Unscheduled.
type Schedule interface {
	isSchedule()
}

// Scheduled is a half-open interval [Start, End).
type Scheduled struct {
	Start time.Time
	End   time.Time
}

// Unscheduled marks an item without a complete date, start time and duration.
type Unscheduled struct{}

func (Scheduled) isSchedule()   {}
func (Unscheduled) isSchedule() {}

// Overlaps reports whether two intervals share any instant. Touching
// intervals (one ends exactly when the other starts) do not overlap.
func (s Scheduled) Overlaps(other Scheduled) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// NewSchedule builds a Schedule from the loosely typed fields the backend
// returns. All times are placed on a single UTC timeline.
func NewSchedule(date, startTime string, durationMinutes int) Schedule {
	if date == "" || startTime == "" || durationMinutes <= 0 {
		return Unscheduled{}
	}
	day, err := ParseDate(date)
	if err != nil {
		return Unscheduled{}
	}
	clock, err := parseStartTime(startTime)
	if err != nil {
		return Unscheduled{}
	}
	start := day.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second)
	return Scheduled{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// ParseDate accepts a calendar date ("2024-06-01") or an ISO timestamp whose
// first ten characters are one ("2024-06-01T00:00:00.000Z").
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

// NormalizeDate returns value as "YYYY-MM-DD", or an error if it is not a date.
func NormalizeDate(value string) (string, error) {
	day, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return day.Format(dateLayout), nil
}

func parseStartTime(value string) (time.Time, error) {
	var err error
	for _, layout := range startTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
