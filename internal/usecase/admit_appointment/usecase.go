package admit_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
)

// UseCase use case для создания записи с полной проверкой допуска.
// Проверки выполняются в сериализуемой транзакции с блокировкой активного
// набора записей: два конкурирующих запроса на пересекающиеся интервалы
// не могут пройти проверку одновременно.
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

// Execute выполняет создание записи с проверками допуска.
// Порядок проверок фиксирован: конфликт времени -> блокировка расписания ->
// вместимость кабинета. При нескольких причинах отказа клиент всегда
// получает первую по этому порядку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AdmitAppointment: client=%d, staff=%d, service=%d, start=%s",
		req.ClientID, req.StaffID, req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AdmitAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу - её кабинет определяет требования кандидата
	service, err := uc.serviceCatalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("AdmitAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("AdmitAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	candidate := domain.Candidate{
		StaffID:    req.StaffID,
		LocationID: req.LocationID,
		RoomID:     service.RoomID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}

	var result *domain.Appointment

	// 3. Проверки и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.runAdmissionChecks(txCtx, candidate); err != nil {
			return err
		}

		created, err := uc.appointmentRepo.Create(txCtx, buildAppointment(req))
		if err != nil {
			uc.logger.Error("AdmitAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AdmitAppointment: successfully created appointment id=%d", result.ID)

	// 4. Дополнительные услуги - сбой не откатывает созданную запись
	uc.attachAddOns(ctx, result.ID, req.AddOnServiceIDs)

	// 5. Событие для сервиса уведомлений - сбой не влияет на результат
	if !req.SuppressNotify {
		uc.notifyConfirmed(ctx, result)
	}

	return toResponse(result), nil
}

// ExecuteForced создает запись в обход всех проверок допуска.
// Явный административный режим: каждое применение фиксируется в логе
// с указанием инициатора.
func (uc *UseCase) ExecuteForced(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AdmitAppointment: force-create validation failed: %v", err)
		return nil, err
	}

	actor := int64(0)
	if req.CreatedBy != nil {
		actor = *req.CreatedBy
	}
	uc.logger.Warn("AdmitAppointment: FORCE-CREATE bypassing admission checks: actor=%d, client=%d, staff=%d, start=%s",
		actor, req.ClientID, req.StaffID, req.StartTime.Format(time.RFC3339))

	var result *domain.Appointment
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.appointmentRepo.Create(txCtx, buildAppointment(req))
		if err != nil {
			uc.logger.Error("AdmitAppointment: force-create failed: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("AdmitAppointment: force-created appointment id=%d by actor=%d", result.ID, actor)

	uc.attachAddOns(ctx, result.ID, req.AddOnServiceIDs)
	uc.notifyConfirmed(ctx, result)

	return toResponse(result), nil
}

// runAdmissionChecks выполняет три проверки допуска в каноническом порядке.
// Должен вызываться внутри транзакции: выборка активного набора берет
// блокировку FOR UPDATE.
func (uc *UseCase) runAdmissionChecks(txCtx context.Context, candidate domain.Candidate) error {
	// Активный набор записей под блокировкой
	existing, err := uc.appointmentRepo.GetAllActive(txCtx)
	if err != nil {
		uc.logger.Error("AdmitAppointment: failed to get active appointments: %v", err)
		return fmt.Errorf("%w: failed to get active appointments: %v", ErrInternal, err)
	}

	services, err := uc.serviceCatalog.GetServices(txCtx)
	if err != nil {
		uc.logger.Error("AdmitAppointment: failed to get services: %v", err)
		return fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	roomMap := domain.BuildRoomMap(services)

	// Проверка 1: конфликт времени (сотрудник+локация или кабинет)
	conflicts := domain.FindConflicts(candidate, existing, roomMap)
	if len(conflicts) > 0 {
		uc.logger.Warn("AdmitAppointment: time conflict with appointment id=%d (staff=%d)",
			conflicts[0].ID, conflicts[0].StaffID)
		return ErrTimeConflict
	}

	// Проверка 2: блокировки расписания сотрудника
	schedules, err := uc.scheduleRepo.GetByStaffID(txCtx, candidate.StaffID)
	if err != nil {
		uc.logger.Error("AdmitAppointment: failed to get staff schedules: %v", err)
		return fmt.Errorf("%w: failed to get staff schedules: %v", ErrInternal, err)
	}

	blocked := domain.CheckBlockedSchedules(schedules, candidate.StartTime, candidate.EndTime, uc.businessLoc)
	for _, skipped := range blocked.Skipped {
		uc.logger.Warn("AdmitAppointment: skipping malformed schedule id=%d (start=%s, end=%s)",
			skipped.ID, skipped.StartTime, skipped.EndTime)
	}
	if blocked.Blocked {
		uc.logger.Warn("AdmitAppointment: staff=%d is blocked by schedule id=%d",
			candidate.StaffID, blocked.Schedule.ID)
		return ErrStaffUnavailable
	}

	// Проверка 3: вместимость кабинета (если каталог кабинетов подключен)
	if uc.roomCatalog != nil && candidate.RoomID != nil {
		rooms, err := uc.roomCatalog.GetRooms(txCtx)
		if err != nil {
			uc.logger.Error("AdmitAppointment: failed to get rooms: %v", err)
			return fmt.Errorf("%w: failed to get rooms: %v", ErrInternal, err)
		}

		occupied, atCapacity := domain.RoomAtCapacity(candidate, existing, roomMap, rooms)
		if atCapacity {
			uc.logger.Warn("AdmitAppointment: room id=%d at capacity (%d occupied)",
				*candidate.RoomID, occupied)
			return ErrRoomAtCapacity
		}
	}

	return nil
}

// attachAddOns привязывает дополнительные услуги; сбой логируется и не
// отменяет уже созданную запись
func (uc *UseCase) attachAddOns(ctx context.Context, appointmentID int64, addOnServiceIDs []int64) {
	if len(addOnServiceIDs) == 0 {
		return
	}
	if err := uc.appointmentRepo.SetAddOns(ctx, appointmentID, addOnServiceIDs); err != nil {
		uc.logger.Warn("AdmitAppointment: failed to attach add-ons to appointment id=%d: %v",
			appointmentID, err)
	}
}

// notifyConfirmed публикует событие подтверждения; ошибки проглатываются
func (uc *UseCase) notifyConfirmed(ctx context.Context, apt *domain.Appointment) {
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
	if err := uc.publisher.AppointmentConfirmed(ctx, event); err != nil {
		uc.logger.Warn("AdmitAppointment: failed to publish confirmation event for id=%d: %v", apt.ID, err)
	}
}
