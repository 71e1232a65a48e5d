package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для чтения, отмены и удаления записей
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       NotifyPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(apt), nil
}

// GetClientAppointments получает историю записей клиента
func (s *Service) GetClientAppointments(ctx context.Context, clientID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d", clientID)

	if clientID <= 0 {
		return nil, fmt.Errorf("%w: client id must be positive", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: fetched %d appointments for client=%d", len(appointments), clientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetGroup получает все записи повторяющейся серии
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetGroup: fetching recurring group %s", groupID)

	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("GetGroup: repository error for group %s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroup - repository error: %v", ErrInternal, err)
	}
	if len(appointments) == 0 {
		s.logger.Warn("GetGroup: group %s not found", groupID)
		return nil, ErrGroupNotFound
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись: снимок уходит в архив отменённых, оригинал
// удаляется. Перенос и удаление выполняются в одной транзакции.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d, reason=%q", id, req.Reason)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.appointmentRepo.MoveToCancelled(txCtx, id, req.Reason, req.CancelledBy, req.Role)
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - failed to move appointment: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)

	// Событие отмены - после коммита, сбой проглатывается
	s.notifyCancelled(ctx, apt, req.Reason)

	return nil
}

// Delete удаляет запись без переноса в архив отменённых.
// Административная операция для ошибочно созданных записей.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d", id)

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

// notifyCancelled публикует событие отмены; ошибки проглатываются
func (s *Service) notifyCancelled(ctx context.Context, apt *domain.Appointment, reason string) {
	if s.publisher == nil {
		return
	}
	event := notify.AppointmentEvent{
		AppointmentID:    apt.ID,
		ClientID:         apt.ClientID,
		StaffID:          apt.StaffID,
		ServiceID:        apt.ServiceID,
		LocationID:       apt.LocationID,
		StartTime:        apt.StartTime,
		EndTime:          apt.EndTime,
		RecurringGroupID: apt.RecurringGroupID,
		Reason:           reason,
		OccurredAt:       s.timeProvider.Now(),
	}
	if err := s.publisher.AppointmentCancelled(ctx, event); err != nil {
		s.logger.Warn("Cancel: failed to publish cancel event for id=%d: %v", apt.ID, err)
	}
}
