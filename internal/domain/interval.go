package domain

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap, so
// back-to-back appointments never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// LocalDateParts derives the weekday name ("Monday") and the ISO calendar
// date ("2006-01-02") of ts in the business timezone. All schedule matching
// uses these values, never the server or client timezone.
func LocalDateParts(ts time.Time, loc *time.Location) (dayName string, dateISO string) {
	local := ts.In(loc)
	return local.Weekday().String(), local.Format(DateFormat)
}
