package transit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	hoursPerDay    = 24
	minutesPerDay  = minutesPerHour * hoursPerDay
)

// TimeOfDay is a wall-clock-like time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NoTime is returned by lookups that found no matching schedule entry.
var NoTime = TimeOfDay{Hour: -1, Minute: -1}

// NewTimeOfDay validates hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return NoTime, fmt.Errorf("invalid time of day %d:%d", hour, minute)
	}
	return t, nil
}

// ParseTimeOfDay accepts "HH:MM" and "HH MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ':' || r == ' '
	})
	if len(fields) != 2 {
		return NoTime, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	hour, err := strconv.Atoi(fields[0])
	if err != nil {
		return NoTime, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(fields[1])
	if err != nil {
		return NoTime, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return NewTimeOfDay(hour, minute)
}

// Valid reports whether t is within 00:00..23:59.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < hoursPerDay && t.Minute >= 0 && t.Minute < minutesPerHour
}

// Advance returns t moved forward by minutes, wrapping on a 24 hour cycle
// with no day carry. Negative deltas move backwards with the same wraparound.
func (t TimeOfDay) Advance(minutes int) TimeOfDay {
	total := (t.Hour*minutesPerHour + t.Minute + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return TimeOfDay{Hour: total / minutesPerHour, Minute: total % minutesPerHour}
}

// On places t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	if !t.Valid() {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
