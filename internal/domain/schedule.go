package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// StaffSchedule represents one staff availability window.
// Rows with IsBlocked = true are administrator-defined unavailability:
// the staff member cannot be booked while the window is in effect.
type StaffSchedule struct {
	ID        int64
	StaffID   int64
	DayOfWeek string // Monday, Tuesday, etc.
	StartTime types.TimeString
	EndTime   types.TimeString

	// StartDate/EndDate ограничивают период действия окна (YYYY-MM-DD).
	// EndDate == nil означает бессрочное окно.
	StartDate string
	EndDate   *string

	IsBlocked bool
}

// IsSingleDay reports whether the window applies to exactly one calendar
// date. A block with StartDate == EndDate (both set) is valid only on that
// date, even though other weeks contain the same weekday.
func (s *StaffSchedule) IsSingleDay() bool {
	return s.EndDate != nil && *s.EndDate == s.StartDate
}

// CoversDate reports whether the window is in effect on the given
// YYYY-MM-DD date. The weekday match is checked separately by the caller.
// Lexicographic comparison is correct for ISO dates.
func (s *StaffSchedule) CoversDate(dateISO string) bool {
	if s.IsSingleDay() {
		return s.StartDate == dateISO
	}
	if s.StartDate > dateISO {
		return false
	}
	if s.EndDate != nil && *s.EndDate < dateISO {
		return false
	}
	return true
}
