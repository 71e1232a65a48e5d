package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHourMinute(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		hour    int
		minute  int
		wantErr bool
	}{
		{name: "valid morning", value: "09:30", hour: 9, minute: 30},
		{name: "midnight", value: "00:00", hour: 0, minute: 0},
		{name: "last minute of day", value: "23:59", hour: 23, minute: 59},
		{name: "missing colon", value: "0930", wantErr: true},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "not numeric", value: "9am", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := tt.value.HourMinute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestOnDate(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)

	// Ссылочная метка в UTC; дата берётся по таймзоне бизнеса
	ref := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	got, err := TimeString("09:30").OnDate(ref, chicago)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, chicago), got)

	_, err = TimeString("noon").OnDate(ref, chicago)
	assert.Error(t, err)
}

func TestAddMinutes(t *testing.T) {
	got, err := TimeString("09:30").AddMinutes(45)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	// Переход через полночь
	got, err = TimeString("23:30").AddMinutes(60)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), got)

	got, err = TimeString("00:30").AddMinutes(-60)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("23:30"), got)
}

func TestCompare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestScan(t *testing.T) {
	var ts TimeString

	assert.NoError(t, ts.Scan("12:45"))
	assert.Equal(t, TimeString("12:45"), ts)

	assert.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	assert.NoError(t, ts.Scan(time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:05"), ts)

	assert.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
