package domain

// Default values
const (
	DefaultRoomCapacity = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultBusinessTimezone таймзона бизнеса по умолчанию
// Используется, если в конфигурации не задана другая
const DefaultBusinessTimezone = "America/Chicago"

// InactiveStatuses список статусов, не участвующих в проверке конфликтов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
}

// MaxNotesLength предельная длина заметки к записи
const MaxNotesLength = 500
