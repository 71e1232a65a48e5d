package cancel_future_occurrences

import (
	"context"

	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
)

type RecurringSeriesUseCase interface {
	CancelFutureOccurrences(ctx context.Context, req *recurringSeries.CancelFutureRequest) (*recurringSeries.CancelFutureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
