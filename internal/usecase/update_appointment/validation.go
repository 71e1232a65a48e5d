package update_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет базовую корректность входных данных
func validateRequest(req *Request) error {
	if req.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if req.LocationID != nil && *req.LocationID <= 0 {
		return fmt.Errorf("%w: location_id must be positive", ErrInvalidInput)
	}
	if req.LocationID != nil && req.ClearLocation {
		return fmt.Errorf("%w: location_id and clear_location are mutually exclusive", ErrInvalidInput)
	}
	if req.Status != nil && !domain.ValidStatus(domain.AppointmentStatus(*req.Status)) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.AddOnServiceIDs != nil {
		for _, id := range *req.AddOnServiceIDs {
			if id <= 0 {
				return fmt.Errorf("%w: add-on service ids must be positive", ErrInvalidInput)
			}
		}
	}
	return nil
}

// applyPatch накладывает изменения на копию существующей записи.
// Возвращает эффективное состояние и признак изменения полей,
// влияющих на проверки допуска.
func applyPatch(existing *domain.Appointment, req *Request) (effective domain.Appointment, recheck bool) {
	effective = *existing

	if req.StaffID != nil && *req.StaffID != effective.StaffID {
		effective.StaffID = *req.StaffID
		recheck = true
	}
	if req.ServiceID != nil && *req.ServiceID != effective.ServiceID {
		effective.ServiceID = *req.ServiceID
		recheck = true
	}
	if req.LocationID != nil {
		effective.LocationID = req.LocationID
		recheck = true
	}
	if req.ClearLocation {
		effective.LocationID = nil
		recheck = true
	}
	if req.StartTime != nil && !req.StartTime.Equal(effective.StartTime) {
		effective.StartTime = *req.StartTime
		recheck = true
	}
	if req.EndTime != nil && !req.EndTime.Equal(effective.EndTime) {
		effective.EndTime = *req.EndTime
		recheck = true
	}
	if req.Status != nil {
		// Перевод из неактивного статуса в активный возвращает запись
		// в конкурс за время - проверки допуска обязательны
		newStatus := domain.AppointmentStatus(*req.Status)
		if !existing.IsActive() && newStatus != domain.StatusCancelled && newStatus != domain.StatusCompleted {
			recheck = true
		}
		effective.Status = newStatus
	}
	if req.PaymentStatus != nil {
		effective.PaymentStatus = domain.PaymentStatus(*req.PaymentStatus)
	}
	if req.TotalAmount != nil {
		effective.TotalAmount = req.TotalAmount
	}
	if req.Notes != nil {
		effective.Notes = req.Notes
	}
	if req.ClearRecurringGroup {
		// Принадлежность к серии не участвует в проверках допуска
		effective.RecurringGroupID = nil
	}

	return effective, recheck
}
