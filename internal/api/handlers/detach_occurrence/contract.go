package detach_occurrence

import (
	"context"

	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

type RecurringSeriesUseCase interface {
	DetachOccurrence(ctx context.Context, req *recurringSeries.DetachRequest) (*updateAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
