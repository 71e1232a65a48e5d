package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeString represents a wall-clock time of day in "HH:MM" format.
// It is the storage and wire representation for staff schedule windows,
// which carry no date component of their own.
type TimeString string

// NewTimeString creates a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// IsZero returns true if the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks that the value is a well-formed "HH:MM" time.
func (t TimeString) Validate() error {
	_, _, err := t.HourMinute()
	return err
}

// HourMinute splits the value into hour and minute components.
// Malformed values return an error instead of panicking; blocked-schedule
// rows with bad data are skipped by callers, not fatal.
func (t TimeString) HourMinute() (int, int, error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time string format: %q", string(t))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in time string: %q", string(t))
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time string: %q", string(t))
	}

	return hour, minute, nil
}

// OnDate materializes the clock time on the calendar date of ref,
// interpreted in loc. Used to turn an "HH:MM" schedule window into a
// concrete timestamp on the candidate appointment's day.
func (t TimeString) OnDate(ref time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := t.HourMinute()
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := ref.In(loc).Date()
	return time.Date(year, month, day, hour, minute, 0, 0, loc), nil
}

// AddMinutes returns the time shifted forward by the given number of minutes.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	hour, minute, err := t.HourMinute()
	if err != nil {
		return "", err
	}
	total := hour*60 + minute + minutes
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore compares two time strings lexicographically, which is correct
// for zero-padded "HH:MM" values.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter is the inverse comparison.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Value implements driver.Valuer for database writes.
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner for database reads.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = TimeString(v)
	case []byte:
		*t = TimeString(v)
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
	return nil
}
