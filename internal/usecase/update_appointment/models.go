package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request частичное обновление записи. Поля-указатели со значением nil
// остаются без изменений. Отвязка от локации выполняется через
// ClearLocation, так как nil в LocationID означает "не менять".
type Request struct {
	ID int64

	StaffID       *int64
	ServiceID     *int64
	LocationID    *int64
	ClearLocation bool
	StartTime     *time.Time
	EndTime       *time.Time
	Status        *string
	PaymentStatus *string
	TotalAmount   *float64
	Notes         *string

	// ClearRecurringGroup отвязывает запись от серии вместе с применением
	// остальных полей патча
	ClearRecurringGroup bool

	// AddOnServiceIDs nil = не трогать; пустой срез = очистить
	AddOnServiceIDs *[]int64
}

// Response обновлённая запись
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
