package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
)

// UseCase use case для обновления записи.
// Если изменение затрагивает время, сотрудника, услугу или локацию,
// эффективное состояние проходит те же проверки допуска, что и новая
// запись - с исключением собственного id, чтобы запись не конфликтовала
// сама с собой.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	serviceCatalog  ServiceCatalog
	roomCatalog     RoomCatalog // nil = проверки вместимости кабинетов отключены
	publisher       NotifyPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	businessLoc     *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	serviceCatalog ServiceCatalog,
	roomCatalog RoomCatalog,
	publisher NotifyPublisher,
	txManager TransactionManager,
	businessLoc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		serviceCatalog:  serviceCatalog,
		roomCatalog:     roomCatalog,
		publisher:       publisher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		businessLoc:     businessLoc,
		logger:          logger,
	}
}

// Execute выполняет обновление записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: id=%d", req.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	var rescheduled bool

	// 2. Чтение, проверки и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.appointmentRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("UpdateAppointment: appointment id=%d not found", req.ID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		effective, recheck := applyPatch(existing, req)
		if !effective.StartTime.Before(effective.EndTime) {
			return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
		}
		rescheduled = !effective.StartTime.Equal(existing.StartTime) ||
			!effective.EndTime.Equal(existing.EndTime)

		if recheck && effective.IsActive() {
			if err := uc.runAdmissionChecks(txCtx, &effective); err != nil {
				return err
			}
		}

		updated, err := uc.appointmentRepo.Update(txCtx, &effective)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to update appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%d", result.ID)

	// 3. Дополнительные услуги - сбой не откатывает обновление
	if req.AddOnServiceIDs != nil {
		if err := uc.appointmentRepo.SetAddOns(ctx, result.ID, *req.AddOnServiceIDs); err != nil {
			uc.logger.Warn("UpdateAppointment: failed to update add-ons for id=%d: %v", result.ID, err)
		}
	}

	// 4. Событие переноса - сбой не влияет на результат
	if rescheduled {
		uc.notifyRescheduled(ctx, result)
	}

	return toResponse(result), nil
}

// runAdmissionChecks выполняет проверки допуска для эффективного состояния
// записи. Порядок фиксирован: конфликт -> блокировка -> вместимость.
func (uc *UseCase) runAdmissionChecks(txCtx context.Context, effective *domain.Appointment) error {
	service, err := uc.serviceCatalog.GetServiceByID(txCtx, effective.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("UpdateAppointment: service id=%d not found", effective.ServiceID)
			return ErrServiceNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get service id=%d: %v", effective.ServiceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	candidate := domain.Candidate{
		ExcludeID:  &effective.ID,
		StaffID:    effective.StaffID,
		LocationID: effective.LocationID,
		RoomID:     service.RoomID,
		StartTime:  effective.StartTime,
		EndTime:    effective.EndTime,
	}

	existing, err := uc.appointmentRepo.GetAllActive(txCtx)
	if err != nil {
		uc.logger.Error("UpdateAppointment: failed to get active appointments: %v", err)
		return fmt.Errorf("%w: failed to get active appointments: %v", ErrInternal, err)
	}

	services, err := uc.serviceCatalog.GetServices(txCtx)
	if err != nil {
		uc.logger.Error("UpdateAppointment: failed to get services: %v", err)
		return fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	roomMap := domain.BuildRoomMap(services)

	conflicts := domain.FindConflicts(candidate, existing, roomMap)
	if len(conflicts) > 0 {
		uc.logger.Warn("UpdateAppointment: time conflict with appointment id=%d", conflicts[0].ID)
		return ErrTimeConflict
	}

	schedules, err := uc.scheduleRepo.GetByStaffID(txCtx, candidate.StaffID)
	if err != nil {
		uc.logger.Error("UpdateAppointment: failed to get staff schedules: %v", err)
		return fmt.Errorf("%w: failed to get staff schedules: %v", ErrInternal, err)
	}

	blocked := domain.CheckBlockedSchedules(schedules, candidate.StartTime, candidate.EndTime, uc.businessLoc)
	for _, skipped := range blocked.Skipped {
		uc.logger.Warn("UpdateAppointment: skipping malformed schedule id=%d (start=%s, end=%s)",
			skipped.ID, skipped.StartTime, skipped.EndTime)
	}
	if blocked.Blocked {
		uc.logger.Warn("UpdateAppointment: staff=%d is blocked by schedule id=%d",
			candidate.StaffID, blocked.Schedule.ID)
		return ErrStaffUnavailable
	}

	if uc.roomCatalog != nil && candidate.RoomID != nil {
		rooms, err := uc.roomCatalog.GetRooms(txCtx)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to get rooms: %v", err)
			return fmt.Errorf("%w: failed to get rooms: %v", ErrInternal, err)
		}

		occupied, atCapacity := domain.RoomAtCapacity(candidate, existing, roomMap, rooms)
		if atCapacity {
			uc.logger.Warn("UpdateAppointment: room id=%d at capacity (%d occupied)",
				*candidate.RoomID, occupied)
			return ErrRoomAtCapacity
		}
	}

	return nil
}

// notifyRescheduled публикует событие переноса; ошибки проглатываются
func (uc *UseCase) notifyRescheduled(ctx context.Context, apt *domain.Appointment) {
	if uc.publisher == nil {
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
		OccurredAt:       uc.timeProvider.Now(),
	}
	if err := uc.publisher.AppointmentRescheduled(ctx, event); err != nil {
		uc.logger.Warn("UpdateAppointment: failed to publish reschedule event for id=%d: %v", apt.ID, err)
	}
}
