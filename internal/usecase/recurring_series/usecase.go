package recurring_series

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case для управления повторяющимися сериями записей.
// Серия - это набор обычных записей, связанных общим recurring_group_id;
// каждая запись проходит проверки допуска независимо, в собственной
// сериализуемой транзакции.
type UseCase struct {
	appointmentRepo AppointmentRepository
	admitter        Admitter
	updater         Updater
	publisher       NotifyPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	admitter Admitter,
	updater Updater,
	publisher NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		admitter:        admitter,
		updater:         updater,
		publisher:       publisher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// CreateSeries создает серию записей. Записи проверяются последовательно;
// отказ одной не откатывает уже созданные и не останавливает последующие.
// Уведомление публикуется только по первой успешной записи серии.
func (uc *UseCase) CreateSeries(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		uc.logger.Warn("RecurringSeries: validation failed: %v", err)
		return nil, err
	}

	total := len(req.Intervals)
	groupID := "recurring_" + uuid.NewString()
	uc.logger.Info("RecurringSeries: creating series %s: client=%d, staff=%d, count=%d",
		groupID, req.ClientID, req.StaffID, total)

	resp := &CreateResponse{GroupID: groupID}
	notified := false

	for i, interval := range req.Intervals {
		admitReq := &admit_appointment.Request{
			ClientID:         req.ClientID,
			StaffID:          req.StaffID,
			ServiceID:        req.ServiceID,
			LocationID:       req.LocationID,
			StartTime:        interval.StartTime,
			EndTime:          interval.EndTime,
			TotalAmount:      req.TotalAmount,
			Notes:            occurrenceNotes(req.Notes, i, total),
			BookingMethod:    req.BookingMethod,
			CreatedBy:        req.CreatedBy,
			RecurringGroupID: ptr.Ptr(groupID),
			SuppressNotify:   notified,
		}

		created, err := uc.admitter.Execute(ctx, admitReq)
		if err != nil {
			reason := classifyAdmissionError(err)
			uc.logger.Warn("RecurringSeries: occurrence %d/%d rejected: %s",
				i+1, total, reason)
			resp.Failed = append(resp.Failed, FailedOccurrence{Index: i, Reason: reason})
			continue
		}

		notified = true
		resp.Created = append(resp.Created, created)
	}

	uc.logger.Info("RecurringSeries: series %s created: %d succeeded, %d failed",
		groupID, len(resp.Created), len(resp.Failed))
	return resp, nil
}

// UpdateFutureOccurrences применяет изменение ко всем будущим активным
// записям серии. Каждая запись проходит повторные проверки допуска;
// отказы собираются, успешные изменения не откатываются.
func (uc *UseCase) UpdateFutureOccurrences(ctx context.Context, req *UpdateFutureRequest) (*UpdateFutureResponse, error) {
	if req.GroupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	future, err := uc.futureOccurrences(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RecurringSeries: updating %d future occurrences of %s", len(future), req.GroupID)

	resp := &UpdateFutureResponse{}
	for _, apt := range future {
		updateReq := &update_appointment.Request{
			ID:            apt.ID,
			StaffID:       req.StaffID,
			ServiceID:     req.ServiceID,
			LocationID:    req.LocationID,
			ClearLocation: req.ClearLocation,
			Notes:         req.Notes,
			TotalAmount:   req.TotalAmount,
		}
		if req.StartTimeShift != nil {
			updateReq.StartTime = ptr.Ptr(apt.StartTime.Add(*req.StartTimeShift))
		}
		if req.EndTimeShift != nil {
			updateReq.EndTime = ptr.Ptr(apt.EndTime.Add(*req.EndTimeShift))
		}

		updated, err := uc.updater.Execute(ctx, updateReq)
		if err != nil {
			reason := classifyAdmissionError(err)
			uc.logger.Warn("RecurringSeries: update of appointment id=%d rejected: %s", apt.ID, reason)
			resp.Failed = append(resp.Failed, FailedAppointment{AppointmentID: apt.ID, Reason: reason})
			continue
		}
		resp.Updated = append(resp.Updated, updated)
	}

	uc.logger.Info("RecurringSeries: group %s updated: %d succeeded, %d failed",
		req.GroupID, len(resp.Updated), len(resp.Failed))
	return resp, nil
}

// CancelFutureOccurrences отменяет все будущие активные записи серии.
// Каждая запись переносится в архив отменённых в собственной транзакции;
// сбой одной записи собирается в отказы и не мешает остальным. Прошедшие
// записи серии не затрагиваются.
func (uc *UseCase) CancelFutureOccurrences(ctx context.Context, req *CancelFutureRequest) (*CancelFutureResponse, error) {
	if req.GroupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	future, err := uc.futureOccurrences(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RecurringSeries: cancelling %d future occurrences of %s", len(future), req.GroupID)

	resp := &CancelFutureResponse{}
	for _, apt := range future {
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			return uc.appointmentRepo.MoveToCancelled(txCtx, apt.ID, req.Reason, req.CancelledBy, req.Role)
		})
		if err != nil {
			uc.logger.Error("RecurringSeries: failed to cancel appointment id=%d: %v", apt.ID, err)
			resp.Failed = append(resp.Failed, FailedAppointment{AppointmentID: apt.ID, Reason: "internal_error"})
			continue
		}

		resp.CancelledIDs = append(resp.CancelledIDs, apt.ID)

		// Событие отмены - после коммита, сбои проглатываются
		uc.notifyCancelled(ctx, apt, req.Reason)
	}

	resp.CancelledCount = len(resp.CancelledIDs)
	uc.logger.Info("RecurringSeries: group %s: cancelled %d occurrences, %d failed",
		req.GroupID, resp.CancelledCount, len(resp.Failed))
	return resp, nil
}

// DetachOccurrence отвязывает одну запись от серии, применяя патч тем же
// обновлением. После отвязки запись живет самостоятельно: групповые
// изменения и отмены её не затрагивают. Если патч меняет время, сотрудника,
// услугу или локацию, обновление проходит повторные проверки допуска.
func (uc *UseCase) DetachOccurrence(ctx context.Context, req *DetachRequest) (*update_appointment.Response, error) {
	if req.GroupID == "" || req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: group id and appointment id are required", ErrInvalidInput)
	}

	apt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotInGroup
		}
		uc.logger.Error("RecurringSeries: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !apt.InGroup(req.GroupID) {
		uc.logger.Warn("RecurringSeries: appointment id=%d does not belong to group %s",
			req.AppointmentID, req.GroupID)
		return nil, ErrAppointmentNotInGroup
	}

	updateReq := &update_appointment.Request{
		ID:                  apt.ID,
		StaffID:             req.StaffID,
		ServiceID:           req.ServiceID,
		LocationID:          req.LocationID,
		ClearLocation:       req.ClearLocation,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Status:              req.Status,
		PaymentStatus:       req.PaymentStatus,
		TotalAmount:         req.TotalAmount,
		Notes:               req.Notes,
		AddOnServiceIDs:     req.AddOnServiceIDs,
		ClearRecurringGroup: true,
	}
	if updateReq.Notes == nil {
		updateReq.Notes = detachedNotes(apt.Notes)
	}

	updated, err := uc.updater.Execute(ctx, updateReq)
	if err != nil {
		uc.logger.Warn("RecurringSeries: failed to detach appointment id=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	uc.logger.Info("RecurringSeries: appointment id=%d detached from group %s", updated.ID, req.GroupID)
	return updated, nil
}

// futureOccurrences возвращает активные записи серии, начинающиеся в будущем
func (uc *UseCase) futureOccurrences(ctx context.Context, groupID string) ([]*domain.Appointment, error) {
	appointments, err := uc.appointmentRepo.GetByGroup(ctx, groupID)
	if err != nil {
		uc.logger.Error("RecurringSeries: failed to get group %s: %v", groupID, err)
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	if len(appointments) == 0 {
		return nil, ErrGroupNotFound
	}

	now := uc.timeProvider.Now()
	future := make([]*domain.Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if apt.IsActive() && apt.StartTime.After(now) {
			future = append(future, apt)
		}
	}
	return future, nil
}

// notifyCancelled публикует событие отмены; ошибки проглатываются
func (uc *UseCase) notifyCancelled(ctx context.Context, apt *domain.Appointment, reason string) {
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
		Reason:           reason,
		OccurredAt:       uc.timeProvider.Now(),
	}
	if err := uc.publisher.AppointmentCancelled(ctx, event); err != nil {
		uc.logger.Warn("RecurringSeries: failed to publish cancel event for id=%d: %v", apt.ID, err)
	}
}

// detachedNotes помечает заметку отвязанной записи
func detachedNotes(base *string) *string {
	suffix := "(detached from series)"
	if base == nil || *base == "" {
		return &suffix
	}
	combined := *base + " " + suffix
	return &combined
}

// classifyAdmissionError переводит ошибку проверки допуска в машиночитаемую
// причину отказа для ответа о частичном успехе
func classifyAdmissionError(err error) string {
	switch {
	case errors.Is(err, admit_appointment.ErrTimeConflict),
		errors.Is(err, update_appointment.ErrTimeConflict):
		return "time_conflict"
	case errors.Is(err, admit_appointment.ErrStaffUnavailable),
		errors.Is(err, update_appointment.ErrStaffUnavailable):
		return "staff_unavailable"
	case errors.Is(err, admit_appointment.ErrRoomAtCapacity),
		errors.Is(err, update_appointment.ErrRoomAtCapacity):
		return "room_at_capacity"
	case errors.Is(err, admit_appointment.ErrServiceNotFound),
		errors.Is(err, update_appointment.ErrServiceNotFound):
		return "service_not_found"
	case errors.Is(err, admit_appointment.ErrInvalidInput),
		errors.Is(err, update_appointment.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal_error"
	}
}
