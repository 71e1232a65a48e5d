package recurring_series

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// 2026-03-02 - понедельник
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

type fakeAdmitter struct {
	requests []*admit_appointment.Request
	rejectAt map[int]error // индекс вызова -> ошибка
	nextID   int64
}

func (a *fakeAdmitter) Execute(_ context.Context, req *admit_appointment.Request) (*admit_appointment.Response, error) {
	call := len(a.requests)
	a.requests = append(a.requests, req)
	if err, ok := a.rejectAt[call]; ok {
		return nil, err
	}
	a.nextID++
	return &admit_appointment.Response{
		ID:               a.nextID,
		ClientID:         req.ClientID,
		StaffID:          req.StaffID,
		ServiceID:        req.ServiceID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Notes:            req.Notes,
		RecurringGroupID: req.RecurringGroupID,
	}, nil
}

// fakeUpdater применяет патч к записи в repo, как это делает настоящий
// use case обновления
type fakeUpdater struct {
	repo     *fakeRepo
	requests []*update_appointment.Request
	rejectID map[int64]error
}

func (u *fakeUpdater) Execute(_ context.Context, req *update_appointment.Request) (*update_appointment.Response, error) {
	u.requests = append(u.requests, req)
	if err, ok := u.rejectID[req.ID]; ok {
		return nil, err
	}

	resp := &update_appointment.Response{ID: req.ID}
	if req.StartTime != nil {
		resp.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		resp.EndTime = *req.EndTime
	}
	resp.Notes = req.Notes

	if u.repo != nil {
		if apt, ok := u.repo.appointments[req.ID]; ok {
			if req.StaffID != nil {
				apt.StaffID = *req.StaffID
			}
			if req.StartTime != nil {
				apt.StartTime = *req.StartTime
			}
			if req.EndTime != nil {
				apt.EndTime = *req.EndTime
			}
			if req.Notes != nil {
				apt.Notes = req.Notes
			}
			if req.ClearRecurringGroup {
				apt.RecurringGroupID = nil
			}
			resp.Notes = apt.Notes
		}
	}
	return resp, nil
}

type fakeRepo struct {
	appointments map[int64]*domain.Appointment
	cancelled    []int64
	cancelErr    map[int64]error // id -> ошибка отмены
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeRepo {
	repo := &fakeRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, apt := range appointments {
		repo.appointments[apt.ID] = apt
	}
	return repo
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	return &copied, nil
}

func (r *fakeRepo) GetByGroup(_ context.Context, groupID string) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, apt := range r.appointments {
		if apt.InGroup(groupID) {
			result = append(result, apt)
		}
	}
	return result, nil
}

func (r *fakeRepo) Update(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	if _, ok := r.appointments[apt.ID]; !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	r.appointments[apt.ID] = &copied
	return apt, nil
}

func (r *fakeRepo) MoveToCancelled(_ context.Context, id int64, _ string, _ *int64, _ string) error {
	if err, ok := r.cancelErr[id]; ok {
		return err
	}
	apt, ok := r.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	apt.Status = domain.StatusCancelled
	r.cancelled = append(r.cancelled, id)
	return nil
}

type fakePublisher struct {
	cancelled []notify.AppointmentEvent
}

func (p *fakePublisher) AppointmentCancelled(_ context.Context, event notify.AppointmentEvent) error {
	p.cancelled = append(p.cancelled, event)
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  {}
func (l *nopLogger) Error(string, ...interface{}) {}

func newUseCase(repo *fakeRepo, admitter Admitter, updater Updater, publisher NotifyPublisher) *UseCase {
	uc := NewUseCase(repo, admitter, updater, publisher, &fakeTxManager{}, &nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: at(0, 0)}
	return uc
}

// weeklyIntervals генерирует часовые интервалы с шагом в неделю
func weeklyIntervals(count int) []OccurrenceInterval {
	intervals := make([]OccurrenceInterval, 0, count)
	for i := 0; i < count; i++ {
		intervals = append(intervals, OccurrenceInterval{
			StartTime: at(10, 0).AddDate(0, 0, 7*i),
			EndTime:   at(11, 0).AddDate(0, 0, 7*i),
		})
	}
	return intervals
}

func createRequest(count int) *CreateRequest {
	return &CreateRequest{
		ClientID:  100,
		StaffID:   5,
		ServiceID: 10,
		Intervals: weeklyIntervals(count),
	}
}

func groupAppointment(id int64, groupID string, start time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:               id,
		ClientID:         100,
		StaffID:          5,
		ServiceID:        10,
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Status:           domain.StatusConfirmed,
		RecurringGroupID: ptr.Ptr(groupID),
	}
}

func TestCreateSeries_AllSucceed(t *testing.T) {
	admitter := &fakeAdmitter{}
	uc := newUseCase(newFakeRepo(), admitter, &fakeUpdater{}, &fakePublisher{})

	req := createRequest(3)
	resp, err := uc.CreateSeries(context.Background(), req)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.GroupID, "recurring_"))
	assert.Len(t, resp.Created, 3)
	assert.Empty(t, resp.Failed)

	// Записи получают ровно переданные интервалы и общий group id
	for i, admitReq := range admitter.requests {
		assert.Equal(t, req.Intervals[i].StartTime, admitReq.StartTime)
		assert.Equal(t, req.Intervals[i].EndTime, admitReq.EndTime)
		assert.Equal(t, resp.GroupID, *admitReq.RecurringGroupID)
		assert.Contains(t, *admitReq.Notes, "(occurrence")
	}

	// Уведомление только по первой записи серии
	assert.False(t, admitter.requests[0].SuppressNotify)
	assert.True(t, admitter.requests[1].SuppressNotify)
	assert.True(t, admitter.requests[2].SuppressNotify)
}

func TestCreateSeries_UsesCallerIntervalsVerbatim(t *testing.T) {
	admitter := &fakeAdmitter{}
	uc := newUseCase(newFakeRepo(), admitter, &fakeUpdater{}, &fakePublisher{})

	// Нерегулярная сетка, которую никакая частота не породила бы:
	// второй интервал сдвинут на 10 дней и укорочен, третий несёт
	// другой часовой пояс
	chicago := time.FixedZone("CST", -6*60*60)
	req := createRequest(0)
	req.Intervals = []OccurrenceInterval{
		{StartTime: at(10, 0), EndTime: at(11, 0)},
		{StartTime: at(9, 30).AddDate(0, 0, 10), EndTime: at(10, 15).AddDate(0, 0, 10)},
		{StartTime: time.Date(2026, 4, 1, 10, 0, 0, 0, chicago), EndTime: time.Date(2026, 4, 1, 11, 0, 0, 0, chicago)},
	}

	resp, err := uc.CreateSeries(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, resp.Created, 3)

	// Интервалы не пересчитываются и не нормализуются
	for i, admitReq := range admitter.requests {
		assert.True(t, req.Intervals[i].StartTime.Equal(admitReq.StartTime))
		assert.True(t, req.Intervals[i].EndTime.Equal(admitReq.EndTime))
	}
}

func TestCreateSeries_PartialFailure(t *testing.T) {
	admitter := &fakeAdmitter{rejectAt: map[int]error{
		2: admit_appointment.ErrTimeConflict,
	}}
	uc := newUseCase(newFakeRepo(), admitter, &fakeUpdater{}, &fakePublisher{})

	resp, err := uc.CreateSeries(context.Background(), createRequest(4))
	assert.NoError(t, err)
	assert.Len(t, resp.Created, 3)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, 2, resp.Failed[0].Index)
	assert.Equal(t, "time_conflict", resp.Failed[0].Reason)

	// Отказ не останавливает последующие записи
	assert.Len(t, admitter.requests, 4)
}

func TestCreateSeries_AllFailStillReturnsResult(t *testing.T) {
	admitter := &fakeAdmitter{rejectAt: map[int]error{
		0: admit_appointment.ErrStaffUnavailable,
		1: admit_appointment.ErrStaffUnavailable,
	}}
	uc := newUseCase(newFakeRepo(), admitter, &fakeUpdater{}, &fakePublisher{})

	// Полный отказ - не ошибка вызова: клиент получает пустой created
	// и причину по каждому интервалу
	resp, err := uc.CreateSeries(context.Background(), createRequest(2))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.GroupID, "recurring_"))
	assert.Empty(t, resp.Created)
	assert.Len(t, resp.Failed, 2)
	assert.Equal(t, "staff_unavailable", resp.Failed[0].Reason)
	assert.Equal(t, "staff_unavailable", resp.Failed[1].Reason)
}

func TestCreateSeries_Validation(t *testing.T) {
	uc := newUseCase(newFakeRepo(), &fakeAdmitter{}, &fakeUpdater{}, &fakePublisher{})

	req := createRequest(3)
	req.Intervals = nil
	_, err := uc.CreateSeries(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.CreateSeries(context.Background(), createRequest(MaxOccurrences+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Вырожденный интервал внутри списка
	req = createRequest(3)
	req.Intervals[1].EndTime = req.Intervals[1].StartTime
	_, err = uc.CreateSeries(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateFutureOccurrences_ShiftsOnlyFuture(t *testing.T) {
	past := groupAppointment(1, "recurring_g1", at(10, 0).AddDate(0, 0, -7))
	repo := newFakeRepo(
		past,
		groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)),
		groupAppointment(3, "recurring_g1", at(10, 0).AddDate(0, 0, 14)),
	)
	updater := &fakeUpdater{}
	uc := newUseCase(repo, &fakeAdmitter{}, updater, &fakePublisher{})

	shift := 30 * time.Minute
	resp, err := uc.UpdateFutureOccurrences(context.Background(), &UpdateFutureRequest{
		GroupID:        "recurring_g1",
		StartTimeShift: &shift,
		EndTimeShift:   &shift,
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Updated, 2)
	assert.Empty(t, resp.Failed)

	// Прошедшая запись не затронута
	assert.Len(t, updater.requests, 2)
	for _, req := range updater.requests {
		assert.NotEqual(t, past.ID, req.ID)
		assert.Equal(t, int64(30), int64(req.StartTime.Sub(repo.appointments[req.ID].StartTime).Minutes()))
	}
}

func TestUpdateFutureOccurrences_PartialFailure(t *testing.T) {
	repo := newFakeRepo(
		groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)),
		groupAppointment(3, "recurring_g1", at(10, 0).AddDate(0, 0, 14)),
	)
	updater := &fakeUpdater{rejectID: map[int64]error{
		3: update_appointment.ErrTimeConflict,
	}}
	uc := newUseCase(repo, &fakeAdmitter{}, updater, &fakePublisher{})

	resp, err := uc.UpdateFutureOccurrences(context.Background(), &UpdateFutureRequest{
		GroupID: "recurring_g1",
		StaffID: ptr.Ptr(int64(6)),
	})
	assert.NoError(t, err)
	assert.Len(t, resp.Updated, 1)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, int64(3), resp.Failed[0].AppointmentID)
	assert.Equal(t, "time_conflict", resp.Failed[0].Reason)
}

func TestUpdateFutureOccurrences_GroupNotFound(t *testing.T) {
	uc := newUseCase(newFakeRepo(), &fakeAdmitter{}, &fakeUpdater{}, &fakePublisher{})

	_, err := uc.UpdateFutureOccurrences(context.Background(), &UpdateFutureRequest{
		GroupID: "recurring_missing",
	})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestCancelFutureOccurrences(t *testing.T) {
	past := groupAppointment(1, "recurring_g1", at(10, 0).AddDate(0, 0, -7))
	repo := newFakeRepo(
		past,
		groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)),
		groupAppointment(3, "recurring_g1", at(10, 0).AddDate(0, 0, 14)),
	)
	publisher := &fakePublisher{}
	uc := newUseCase(repo, &fakeAdmitter{}, &fakeUpdater{}, publisher)

	resp, err := uc.CancelFutureOccurrences(context.Background(), &CancelFutureRequest{
		GroupID: "recurring_g1",
		Reason:  "staff vacation",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.CancelledCount)
	assert.NotContains(t, resp.CancelledIDs, past.ID)
	assert.Empty(t, resp.Failed)
	assert.Len(t, publisher.cancelled, 2)
	assert.Equal(t, "staff vacation", publisher.cancelled[0].Reason)

	// Прошедшая запись осталась активной
	assert.Equal(t, domain.StatusConfirmed, repo.appointments[1].Status)
}

func TestCancelFutureOccurrences_PartialFailure(t *testing.T) {
	repo := newFakeRepo(
		groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)),
		groupAppointment(3, "recurring_g1", at(10, 0).AddDate(0, 0, 14)),
		groupAppointment(4, "recurring_g1", at(10, 0).AddDate(0, 0, 21)),
	)
	repo.cancelErr = map[int64]error{3: errors.New("storage unavailable")}
	publisher := &fakePublisher{}
	uc := newUseCase(repo, &fakeAdmitter{}, &fakeUpdater{}, publisher)

	// Сбой отмены одной записи не прерывает отмену остальных
	// и не превращает вызов в ошибку
	resp, err := uc.CancelFutureOccurrences(context.Background(), &CancelFutureRequest{
		GroupID: "recurring_g1",
		Reason:  "closed",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.CancelledCount)
	assert.ElementsMatch(t, []int64{2, 4}, resp.CancelledIDs)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, int64(3), resp.Failed[0].AppointmentID)

	// События публикуются только по реально отменённым записям
	assert.Len(t, publisher.cancelled, 2)
	assert.Equal(t, domain.StatusConfirmed, repo.appointments[3].Status)
}

func TestDetachOccurrence_Independence(t *testing.T) {
	repo := newFakeRepo(
		groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)),
		groupAppointment(3, "recurring_g1", at(10, 0).AddDate(0, 0, 14)),
	)
	updater := &fakeUpdater{repo: repo}
	uc := newUseCase(repo, &fakeAdmitter{}, updater, &fakePublisher{})

	resp, err := uc.DetachOccurrence(context.Background(), &DetachRequest{
		GroupID:       "recurring_g1",
		AppointmentID: 2,
	})
	assert.NoError(t, err)
	assert.Contains(t, *resp.Notes, "(detached from series)")
	assert.Nil(t, repo.appointments[2].RecurringGroupID)

	// Групповая отмена больше не затрагивает отвязанную запись
	cancelResp, err := uc.CancelFutureOccurrences(context.Background(), &CancelFutureRequest{
		GroupID: "recurring_g1",
		Reason:  "closed",
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{3}, cancelResp.CancelledIDs)
	assert.Equal(t, domain.StatusConfirmed, repo.appointments[2].Status)
}

func TestDetachOccurrence_AppliesPatchWithDetach(t *testing.T) {
	repo := newFakeRepo(groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)))
	updater := &fakeUpdater{repo: repo}
	uc := newUseCase(repo, &fakeAdmitter{}, updater, &fakePublisher{})

	newStart := at(14, 0).AddDate(0, 0, 7)
	newEnd := at(15, 0).AddDate(0, 0, 7)
	resp, err := uc.DetachOccurrence(context.Background(), &DetachRequest{
		GroupID:       "recurring_g1",
		AppointmentID: 2,
		StartTime:     &newStart,
		EndTime:       &newEnd,
		Notes:         ptr.Ptr("moved to afternoon"),
	})
	assert.NoError(t, err)
	assert.Equal(t, newStart, resp.StartTime)

	// Патч и отвязка уходят одним обновлением
	assert.Len(t, updater.requests, 1)
	assert.True(t, updater.requests[0].ClearRecurringGroup)
	assert.Equal(t, newStart, *updater.requests[0].StartTime)
	assert.Equal(t, "moved to afternoon", *updater.requests[0].Notes)

	assert.Nil(t, repo.appointments[2].RecurringGroupID)
	assert.Equal(t, newStart, repo.appointments[2].StartTime)
}

func TestDetachOccurrence_PatchRejectedKeepsGroup(t *testing.T) {
	repo := newFakeRepo(groupAppointment(2, "recurring_g1", at(10, 0).AddDate(0, 0, 7)))
	updater := &fakeUpdater{repo: repo, rejectID: map[int64]error{
		2: update_appointment.ErrTimeConflict,
	}}
	uc := newUseCase(repo, &fakeAdmitter{}, updater, &fakePublisher{})

	newStart := at(14, 0).AddDate(0, 0, 7)
	_, err := uc.DetachOccurrence(context.Background(), &DetachRequest{
		GroupID:       "recurring_g1",
		AppointmentID: 2,
		StartTime:     &newStart,
	})
	assert.ErrorIs(t, err, update_appointment.ErrTimeConflict)

	// Отвязка и патч атомарны: отказ проверок не отвязывает запись
	assert.NotNil(t, repo.appointments[2].RecurringGroupID)
}

func TestDetachOccurrence_NotInGroup(t *testing.T) {
	repo := newFakeRepo(
		groupAppointment(2, "recurring_g1", at(10, 0)),
	)
	uc := newUseCase(repo, &fakeAdmitter{}, &fakeUpdater{repo: repo}, &fakePublisher{})

	// Чужая серия
	_, err := uc.DetachOccurrence(context.Background(), &DetachRequest{
		GroupID:       "recurring_other",
		AppointmentID: 2,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotInGroup)

	// Несуществующая запись
	_, err = uc.DetachOccurrence(context.Background(), &DetachRequest{
		GroupID:       "recurring_g1",
		AppointmentID: 99,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotInGroup)
}
