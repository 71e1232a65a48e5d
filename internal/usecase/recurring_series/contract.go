package recurring_series

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByGroup(ctx context.Context, groupID string) ([]*domain.Appointment, error)
	Update(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	MoveToCancelled(ctx context.Context, id int64, reason string, cancelledBy *int64, cancelledByRole string) error
}

// Admitter интерфейс создания одной записи с проверками допуска.
// Каждая запись серии проходит проверку в собственной сериализуемой
// транзакции: более поздние записи видят уже закоммиченные ранние.
type Admitter interface {
	Execute(ctx context.Context, req *admit_appointment.Request) (*admit_appointment.Response, error)
}

// Updater интерфейс обновления одной записи с повторной проверкой допуска
type Updater interface {
	Execute(ctx context.Context, req *update_appointment.Request) (*update_appointment.Response, error)
}

// NotifyPublisher интерфейс публикации событий для сервиса уведомлений
type NotifyPublisher interface {
	AppointmentCancelled(ctx context.Context, event notify.AppointmentEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
