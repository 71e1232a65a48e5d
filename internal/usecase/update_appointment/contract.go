package update_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetAllActive(ctx context.Context) ([]*domain.Appointment, error)
	Update(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	SetAddOns(ctx context.Context, appointmentID int64, addOnServiceIDs []int64) error
}

// ScheduleRepository интерфейс репозитория расписаний сотрудников
type ScheduleRepository interface {
	GetByStaffID(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetServices(ctx context.Context) ([]*domain.Service, error)
}

// RoomCatalog интерфейс каталога кабинетов (необязательная зависимость)
type RoomCatalog interface {
	GetRooms(ctx context.Context) ([]*domain.Room, error)
}

// NotifyPublisher интерфейс публикации событий для сервиса уведомлений
type NotifyPublisher interface {
	AppointmentRescheduled(ctx context.Context, event notify.AppointmentEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
