package force_create_appointment

import (
	"context"

	admitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
)

type ForceCreateUseCase interface {
	ExecuteForced(ctx context.Context, req *admitAppointment.Request) (*admitAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
