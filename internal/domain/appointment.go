package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// PaymentStatus represents the payment state of an appointment
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// BookingMethod tracks how an appointment was created.
// It is provenance only and never participates in conflict decisions.
type BookingMethod string

const (
	BookingMethodStaff  BookingMethod = "staff"
	BookingMethodWidget BookingMethod = "widget"
)

// Appointment represents one scheduled service occurrence
type Appointment struct {
	ID         int64
	ClientID   int64
	StaffID    int64
	ServiceID  int64
	LocationID *int64 // nil = не привязана к конкретной локации
	StartTime  time.Time
	EndTime    time.Time

	Status        AppointmentStatus
	PaymentStatus PaymentStatus
	TotalAmount   *float64
	Notes         *string

	BookingMethod BookingMethod
	CreatedBy     *int64

	// RecurringGroupID связывает все записи одной повторяющейся серии
	RecurringGroupID *string

	CreatedAt time.Time
}

// IsActive returns true if the appointment participates in conflict checks.
// Cancelled and completed appointments never block new bookings.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusCompleted
}

// InGroup returns true if the appointment belongs to the given recurring group
func (a *Appointment) InGroup(groupID string) bool {
	return a.RecurringGroupID != nil && *a.RecurringGroupID == groupID
}

// CancelledAppointment is the archived snapshot of a cancelled appointment.
// Cancellation moves the row out of the active appointments table entirely.
type CancelledAppointment struct {
	ID                    int64
	OriginalAppointmentID int64
	ClientID              int64
	StaffID               int64
	ServiceID             int64
	LocationID            *int64
	StartTime             time.Time
	EndTime               time.Time
	TotalAmount           *float64
	Notes                 *string
	CancellationReason    string
	CancelledBy           *int64
	CancelledByRole       string
	PaymentStatus         PaymentStatus
	OriginalCreatedAt     time.Time
	CancelledAt           time.Time
}

// ValidStatus проверяет, что статус входит в допустимый набор
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}
