package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2026-03-02 - понедельник
func blockedSchedule(day, startDate string, endDate *string, start, end types.TimeString) *StaffSchedule {
	return &StaffSchedule{
		ID:        1,
		StaffID:   5,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		StartDate: startDate,
		EndDate:   endDate,
		IsBlocked: true,
	}
}

func TestCheckBlockedSchedules_SingleDayBlock(t *testing.T) {
	// Блокировка на один день действует только на эту дату
	schedule := blockedSchedule("Monday", "2026-03-02", ptr.Ptr("2026-03-02"), "09:00", "12:00")

	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		ts(10, 0), ts(11, 0), time.UTC)
	assert.True(t, res.Blocked)
	assert.Equal(t, schedule, res.Schedule)

	// Следующий понедельник - тот же день недели, но другая дата
	nextMonday := ts(10, 0).AddDate(0, 0, 7)
	res = CheckBlockedSchedules([]*StaffSchedule{schedule},
		nextMonday, nextMonday.Add(time.Hour), time.UTC)
	assert.False(t, res.Blocked)
}

func TestCheckBlockedSchedules_RecurringBlockWithinRange(t *testing.T) {
	schedule := blockedSchedule("Monday", "2026-03-02", ptr.Ptr("2026-03-31"), "09:00", "12:00")

	// Понедельники внутри периода заблокированы
	for week := 0; week < 4; week++ {
		start := ts(10, 0).AddDate(0, 0, 7*week)
		res := CheckBlockedSchedules([]*StaffSchedule{schedule},
			start, start.Add(time.Hour), time.UTC)
		assert.True(t, res.Blocked, "week %d must be blocked", week)
	}

	// Понедельник после конца периода свободен
	afterEnd := ts(10, 0).AddDate(0, 0, 35)
	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		afterEnd, afterEnd.Add(time.Hour), time.UTC)
	assert.False(t, res.Blocked)
}

func TestCheckBlockedSchedules_IndefiniteBlock(t *testing.T) {
	schedule := blockedSchedule("Monday", "2026-03-02", nil, "09:00", "12:00")

	farFuture := ts(10, 0).AddDate(1, 0, 0)
	// 2027-03-02 не понедельник; ищем понедельник через год
	for farFuture.Weekday() != time.Monday {
		farFuture = farFuture.AddDate(0, 0, 1)
	}

	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		farFuture, farFuture.Add(time.Hour), time.UTC)
	assert.True(t, res.Blocked)
}

func TestCheckBlockedSchedules_WeekdayMismatch(t *testing.T) {
	schedule := blockedSchedule("Tuesday", "2026-03-01", nil, "09:00", "12:00")

	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		ts(10, 0), ts(11, 0), time.UTC)
	assert.False(t, res.Blocked)
}

func TestCheckBlockedSchedules_NoTimeOverlap(t *testing.T) {
	schedule := blockedSchedule("Monday", "2026-03-02", nil, "09:00", "10:00")

	// Касание границ блокировки не считается пересечением
	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		ts(10, 0), ts(11, 0), time.UTC)
	assert.False(t, res.Blocked)
}

func TestCheckBlockedSchedules_MalformedRowsSkipped(t *testing.T) {
	malformed := blockedSchedule("Monday", "2026-03-02", nil, "9am", "noon")
	valid := blockedSchedule("Monday", "2026-03-02", nil, "10:00", "12:00")
	valid.ID = 2

	res := CheckBlockedSchedules([]*StaffSchedule{malformed, valid},
		ts(10, 30), ts(11, 0), time.UTC)

	// Некорректная строка пропущена и учтена в Skipped, корректная сработала
	assert.True(t, res.Blocked)
	assert.Equal(t, int64(2), res.Schedule.ID)
	assert.Len(t, res.Skipped, 1)
	assert.Equal(t, int64(1), res.Skipped[0].ID)
}

func TestCheckBlockedSchedules_IgnoresWorkingWindows(t *testing.T) {
	working := blockedSchedule("Monday", "2026-03-02", nil, "09:00", "18:00")
	working.IsBlocked = false

	res := CheckBlockedSchedules([]*StaffSchedule{working},
		ts(10, 0), ts(11, 0), time.UTC)
	assert.False(t, res.Blocked)
}

func TestCheckBlockedSchedules_BusinessTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)

	// Блокировка понедельника 09:00-12:00 по времени бизнеса
	schedule := blockedSchedule("Monday", "2026-03-02", nil, "09:00", "12:00")

	// 16:00 UTC = 10:00 в Чикаго - попадает в блокировку
	start := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	res := CheckBlockedSchedules([]*StaffSchedule{schedule},
		start, start.Add(time.Hour), chicago)
	assert.True(t, res.Blocked)

	// 10:00 UTC = 04:00 в Чикаго - вне блокировки
	early := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	res = CheckBlockedSchedules([]*StaffSchedule{schedule},
		early, early.Add(time.Hour), chicago)
	assert.False(t, res.Blocked)
}
