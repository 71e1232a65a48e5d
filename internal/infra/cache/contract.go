package cache

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс декорируемого репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetAllActive(ctx context.Context) ([]*domain.Appointment, error)
	GetByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error)
	GetByGroup(ctx context.Context, groupID string) ([]*domain.Appointment, error)
	Update(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	MoveToCancelled(ctx context.Context, id int64, reason string, cancelledBy *int64, cancelledByRole string) error
	SetAddOns(ctx context.Context, appointmentID int64, addOnServiceIDs []int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
