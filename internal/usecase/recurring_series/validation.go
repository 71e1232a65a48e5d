package recurring_series

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateCreateRequest проверяет базовую корректность входных данных серии
func validateCreateRequest(req *CreateRequest) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: client_id must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if len(req.Intervals) == 0 {
		return fmt.Errorf("%w: intervals are required", ErrInvalidInput)
	}
	if len(req.Intervals) > MaxOccurrences {
		return fmt.Errorf("%w: at most %d intervals per series", ErrInvalidInput, MaxOccurrences)
	}
	for i, interval := range req.Intervals {
		if interval.StartTime.IsZero() || interval.EndTime.IsZero() {
			return fmt.Errorf("%w: interval %d: start_time and end_time are required", ErrInvalidInput, i)
		}
		if !interval.StartTime.Before(interval.EndTime) {
			return fmt.Errorf("%w: interval %d: start_time must be before end_time", ErrInvalidInput, i)
		}
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// occurrenceNotes формирует заметку записи с номером в серии
func occurrenceNotes(base *string, i, total int) *string {
	suffix := fmt.Sprintf("(occurrence %d/%d)", i+1, total)
	if base == nil || *base == "" {
		return &suffix
	}
	combined := *base + " " + suffix
	return &combined
}
