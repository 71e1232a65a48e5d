package create_recurring_series

import (
	"context"

	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
)

type RecurringSeriesUseCase interface {
	CreateSeries(ctx context.Context, req *recurringSeries.CreateRequest) (*recurringSeries.CreateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
