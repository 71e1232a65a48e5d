package update_appointment

import (
	"time"

	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model частичного обновления.
// Отсутствующие поля не меняются; clear_location=true отвязывает запись
// от локации.
type UpdateAppointmentRequest struct {
	StaffID         *int64     `json:"staff_id,omitempty"`
	ServiceID       *int64     `json:"service_id,omitempty"`
	LocationID      *int64     `json:"location_id,omitempty"`
	ClearLocation   bool       `json:"clear_location,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          *string    `json:"status,omitempty"`
	PaymentStatus   *string    `json:"payment_status,omitempty"`
	TotalAmount     *float64   `json:"total_amount,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	AddOnServiceIDs *[]int64   `json:"add_on_service_ids,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(id int64) *updateAppointment.Request {
	return &updateAppointment.Request{
		ID:              id,
		StaffID:         r.StaffID,
		ServiceID:       r.ServiceID,
		LocationID:      r.LocationID,
		ClearLocation:   r.ClearLocation,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		TotalAmount:     r.TotalAmount,
		Notes:           r.Notes,
		AddOnServiceIDs: r.AddOnServiceIDs,
	}
}
