package create_appointment

import (
	"time"

	admitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID        int64     `json:"client_id"`
	StaffID         int64     `json:"staff_id"`
	ServiceID       int64     `json:"service_id"`
	LocationID      *int64    `json:"location_id,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status,omitempty"`
	TotalAmount     *float64  `json:"total_amount,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	BookingMethod   string    `json:"booking_method,omitempty"`
	AddOnServiceIDs []int64   `json:"add_on_service_ids,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(createdBy *int64) *admitAppointment.Request {
	return &admitAppointment.Request{
		ClientID:        r.ClientID,
		StaffID:         r.StaffID,
		ServiceID:       r.ServiceID,
		LocationID:      r.LocationID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Status:          r.Status,
		TotalAmount:     r.TotalAmount,
		Notes:           r.Notes,
		BookingMethod:   r.BookingMethod,
		CreatedBy:       createdBy,
		AddOnServiceIDs: r.AddOnServiceIDs,
	}
}
