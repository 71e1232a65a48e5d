package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error)
	GetByGroup(ctx context.Context, groupID string) ([]*domain.Appointment, error)
	MoveToCancelled(ctx context.Context, id int64, reason string, cancelledBy *int64, cancelledByRole string) error
	Delete(ctx context.Context, id int64) error
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
