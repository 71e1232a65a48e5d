package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentResponse представление записи для API
type AppointmentResponse struct {
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

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	Reason      string `json:"reason"`
	CancelledBy *int64 `json:"cancelled_by,omitempty"`
	Role        string `json:"role,omitempty"`
}

// FromDomainAppointment конвертирует доменную модель в API представление
func FromDomainAppointment(apt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
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

// FromDomainAppointmentList конвертирует список доменных моделей
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	list := make([]*AppointmentResponse, 0, len(appointments))
	for _, apt := range appointments {
		list = append(list, FromDomainAppointment(apt))
	}
	return &AppointmentListResponse{
		Appointments: list,
		Total:        len(list),
	}
}
