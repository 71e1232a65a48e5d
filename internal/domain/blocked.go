package domain

import "time"

// BlockedResult is the outcome of a blocked-schedule check.
// Schedule carries the first window that blocked the candidate, for
// diagnostics. Skipped lists rows with malformed HH:MM values: they are a
// data-quality problem to be logged by the caller, never a reason to abort
// the admission decision.
type BlockedResult struct {
	Blocked  bool
	Schedule *StaffSchedule
	Skipped  []*StaffSchedule
}

// CheckBlockedSchedules decides whether the candidate interval
// [start, end) intersects any administrator-defined block for the staff
// member. Matching happens in the business timezone:
//
//  1. Only rows with IsBlocked set and the candidate's weekday are considered.
//  2. Single-day blocks (StartDate == EndDate) apply on that exact date only.
//     Recurring blocks apply on every matching weekday between StartDate and
//     EndDate inclusive, or indefinitely when EndDate is nil.
//  3. The block's HH:MM window is materialized on the candidate's calendar
//     date and tested with the half-open overlap predicate.
//
// Returns on the first blocking window found.
func CheckBlockedSchedules(schedules []*StaffSchedule, start, end time.Time, loc *time.Location) BlockedResult {
	dayName, dateISO := LocalDateParts(start, loc)

	var result BlockedResult
	for _, schedule := range schedules {
		if !schedule.IsBlocked {
			continue
		}
		if schedule.DayOfWeek != dayName {
			continue
		}
		if !schedule.CoversDate(dateISO) {
			continue
		}

		blockStart, startErr := schedule.StartTime.OnDate(start, loc)
		blockEnd, endErr := schedule.EndTime.OnDate(start, loc)
		if startErr != nil || endErr != nil {
			result.Skipped = append(result.Skipped, schedule)
			continue
		}

		if Overlaps(start, end, blockStart, blockEnd) {
			result.Blocked = true
			result.Schedule = schedule
			return result
		}
	}

	return result
}
