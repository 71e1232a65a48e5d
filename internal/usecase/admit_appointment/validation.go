package admit_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет базовую корректность входных данных
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: client_id must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if req.LocationID != nil && *req.LocationID <= 0 {
		return fmt.Errorf("%w: location_id must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidInput)
	}
	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	if req.Status != "" && !domain.ValidStatus(domain.AppointmentStatus(req.Status)) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if req.BookingMethod != "" &&
		req.BookingMethod != string(domain.BookingMethodStaff) &&
		req.BookingMethod != string(domain.BookingMethodWidget) {
		return fmt.Errorf("%w: unknown booking method %q", ErrInvalidInput, req.BookingMethod)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	for _, id := range req.AddOnServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: add-on service ids must be positive", ErrInvalidInput)
		}
	}
	return nil
}

// buildAppointment собирает доменную модель из запроса с дефолтами
func buildAppointment(req *Request) *domain.Appointment {
	status := domain.StatusConfirmed
	if req.Status != "" {
		status = domain.AppointmentStatus(req.Status)
	}

	method := domain.BookingMethodStaff
	if req.BookingMethod != "" {
		method = domain.BookingMethod(req.BookingMethod)
	}

	return &domain.Appointment{
		ClientID:         req.ClientID,
		StaffID:          req.StaffID,
		ServiceID:        req.ServiceID,
		LocationID:       req.LocationID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Status:           status,
		PaymentStatus:    domain.PaymentUnpaid,
		TotalAmount:      req.TotalAmount,
		Notes:            req.Notes,
		BookingMethod:    method,
		CreatedBy:        req.CreatedBy,
		RecurringGroupID: req.RecurringGroupID,
	}
}
