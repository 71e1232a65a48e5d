package notify

import "time"

// Имена очередей событий записей
const (
	QueueAppointmentConfirmed   = "appointment.confirmed"
	QueueAppointmentCancelled   = "appointment.cancelled"
	QueueAppointmentRescheduled = "appointment.rescheduled"
)

// AppointmentEvent событие изменения записи для сервиса уведомлений
type AppointmentEvent struct {
	AppointmentID    int64     `json:"appointment_id"`
	ClientID         int64     `json:"client_id"`
	StaffID          int64     `json:"staff_id"`
	ServiceID        int64     `json:"service_id"`
	LocationID       *int64    `json:"location_id,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	RecurringGroupID *string   `json:"recurring_group_id,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
