package admit_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request входные данные для создания записи
type Request struct {
	ClientID   int64
	StaffID    int64
	ServiceID  int64
	LocationID *int64
	StartTime  time.Time
	EndTime    time.Time

	Status        string // пустая строка = confirmed
	TotalAmount   *float64
	Notes         *string
	BookingMethod string // пустая строка = staff
	CreatedBy     *int64

	AddOnServiceIDs []int64

	// RecurringGroupID выставляется при создании записи в составе серии
	RecurringGroupID *string

	// SuppressNotify отключает публикацию события подтверждения:
	// для серии уведомление отправляется только по первой записи
	SuppressNotify bool
}

// Response созданная запись
type Response struct {
	ID               int64     `json:"id"`
	ClientID         int64     `json:"client_id"`
	StaffID          int64     `json:"staff_id"`
	ServiceID        int64     `json:"service_id"`
	LocationID       *int64    `json:"location_id,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	TotalAmount      *float64  `json:"total_amount,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	BookingMethod    string    `json:"booking_method"`
	CreatedBy        *int64    `json:"created_by,omitempty"`
	RecurringGroupID *string   `json:"recurring_group_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toResponse(apt *domain.Appointment) *Response {
	return &Response{
		ID:               apt.ID,
		ClientID:         apt.ClientID,
		StaffID:          apt.StaffID,
		ServiceID:        apt.ServiceID,
		LocationID:       apt.LocationID,
		StartTime:        apt.StartTime,
		EndTime:          apt.EndTime,
		Status:           string(apt.Status),
		PaymentStatus:    string(apt.PaymentStatus),
		TotalAmount:      apt.TotalAmount,
		Notes:            apt.Notes,
		BookingMethod:    string(apt.BookingMethod),
		CreatedBy:        apt.CreatedBy,
		RecurringGroupID: apt.RecurringGroupID,
		CreatedAt:        apt.CreatedAt,
	}
}
