package update_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// 2026-03-02 - понедельник
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	addOns       map[int64][]int64
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{
		appointments: make(map[int64]*domain.Appointment),
		addOns:       make(map[int64][]int64),
	}
	for _, apt := range appointments {
		repo.appointments[apt.ID] = apt
	}
	return repo
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	return &copied, nil
}

func (r *fakeAppointmentRepo) GetAllActive(_ context.Context) ([]*domain.Appointment, error) {
	var active []*domain.Appointment
	for _, apt := range r.appointments {
		if apt.IsActive() {
			active = append(active, apt)
		}
	}
	return active, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	if _, ok := r.appointments[apt.ID]; !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	r.appointments[apt.ID] = &copied
	return apt, nil
}

func (r *fakeAppointmentRepo) SetAddOns(_ context.Context, appointmentID int64, addOnServiceIDs []int64) error {
	r.addOns[appointmentID] = addOnServiceIDs
	return nil
}

type fakeScheduleRepo struct {
	schedules []*domain.StaffSchedule
}

func (r *fakeScheduleRepo) GetByStaffID(_ context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	result := make([]*domain.StaffSchedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		if s.StaffID == staffID {
			result = append(result, s)
		}
	}
	return result, nil
}

type fakeCatalog struct {
	services []*domain.Service
	rooms    []*domain.Room
}

func (c *fakeCatalog) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	for _, svc := range c.services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (c *fakeCatalog) GetServices(_ context.Context) ([]*domain.Service, error) {
	return c.services, nil
}

func (c *fakeCatalog) GetRooms(_ context.Context) ([]*domain.Room, error) {
	return c.rooms, nil
}

type fakePublisher struct {
	rescheduled []notify.AppointmentEvent
}

func (p *fakePublisher) AppointmentRescheduled(_ context.Context, event notify.AppointmentEvent) error {
	p.rescheduled = append(p.rescheduled, event)
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  {}
func (l *nopLogger) Error(string, ...interface{}) {}

func appointment(id, staffID int64, start, end time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		ClientID:      100,
		StaffID:       staffID,
		ServiceID:     20,
		LocationID:    ptr.Ptr(int64(1)),
		StartTime:     start,
		EndTime:       end,
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
		BookingMethod: domain.BookingMethodStaff,
	}
}

func newUseCase(repo *fakeAppointmentRepo, schedules *fakeScheduleRepo, publisher *fakePublisher) *UseCase {
	catalog := &fakeCatalog{
		services: []*domain.Service{
			{ID: 10, Name: "Massage", Duration: 60, RoomID: ptr.Ptr(int64(7))},
			{ID: 20, Name: "Haircut", Duration: 30},
		},
		rooms: []*domain.Room{
			{ID: 7, Name: "Massage Room", Capacity: 2},
		},
	}
	return NewUseCase(repo, schedules, catalog, catalog, publisher, &fakeTxManager{}, time.UTC, &nopLogger{})
}

func TestExecute_RescheduleWithinOwnSlot(t *testing.T) {
	repo := newFakeRepo(appointment(1, 5, at(10, 0), at(11, 0)))
	publisher := &fakePublisher{}
	uc := newUseCase(repo, &fakeScheduleRepo{}, publisher)

	// Сдвиг внутри собственного интервала: запись не конфликтует сама с собой
	resp, err := uc.Execute(context.Background(), &Request{
		ID:        1,
		StartTime: ptr.Ptr(at(10, 15)),
		EndTime:   ptr.Ptr(at(11, 15)),
	})
	assert.NoError(t, err)
	assert.Equal(t, at(10, 15), resp.StartTime)
	assert.Len(t, publisher.rescheduled, 1)
}

func TestExecute_RescheduleIntoOtherAppointment(t *testing.T) {
	repo := newFakeRepo(
		appointment(1, 5, at(10, 0), at(11, 0)),
		appointment(2, 5, at(12, 0), at(13, 0)),
	)
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ID:        1,
		StartTime: ptr.Ptr(at(12, 30)),
		EndTime:   ptr.Ptr(at(13, 30)),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)

	// Исходная запись не изменилась
	stored := repo.appointments[1]
	assert.Equal(t, at(10, 0), stored.StartTime)
}

func TestExecute_NotFound(t *testing.T) {
	uc := newUseCase(newFakeRepo(), &fakeScheduleRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{ID: 99, Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_NoRecheckForPaymentOnly(t *testing.T) {
	// Занятое расписание сделало бы любой повторный допуск невозможным
	schedules := &fakeScheduleRepo{schedules: []*domain.StaffSchedule{
		{
			ID:        1,
			StaffID:   5,
			DayOfWeek: "Monday",
			StartTime: "00:00",
			EndTime:   "23:59",
			StartDate: "2026-03-02",
			IsBlocked: true,
		},
	}}
	repo := newFakeRepo(appointment(1, 5, at(10, 0), at(11, 0)))
	publisher := &fakePublisher{}
	uc := newUseCase(repo, schedules, publisher)

	// Смена статуса оплаты не трогает календарь - проверки не выполняются
	resp, err := uc.Execute(context.Background(), &Request{
		ID:            1,
		PaymentStatus: ptr.Ptr(string(domain.PaymentPaid)),
	})
	assert.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Empty(t, publisher.rescheduled)
}

func TestExecute_StaffChangeTriggersRecheck(t *testing.T) {
	repo := newFakeRepo(
		appointment(1, 5, at(10, 0), at(11, 0)),
		appointment(2, 6, at(10, 0), at(11, 0)),
	)
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	// Перенос на сотрудника, занятого в это же время
	_, err := uc.Execute(context.Background(), &Request{
		ID:      1,
		StaffID: ptr.Ptr(int64(6)),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestExecute_ReactivationRequiresRecheck(t *testing.T) {
	cancelled := appointment(1, 5, at(10, 0), at(11, 0))
	cancelled.Status = domain.StatusCancelled

	repo := newFakeRepo(
		cancelled,
		appointment(2, 5, at(10, 0), at(11, 0)),
	)
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	// Слот уже занят другой записью: возврат в активный статус невозможен
	_, err := uc.Execute(context.Background(), &Request{
		ID:     1,
		Status: ptr.Ptr(string(domain.StatusConfirmed)),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestExecute_ClearLocationWidensConflictScope(t *testing.T) {
	repo := newFakeRepo(
		appointment(1, 5, at(10, 0), at(11, 0)),
		func() *domain.Appointment {
			apt := appointment(2, 5, at(10, 0), at(11, 0))
			apt.LocationID = ptr.Ptr(int64(2))
			return apt
		}(),
	)
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	// Без локации кандидат сопоставляется с записями сотрудника
	// во всех локациях
	_, err := uc.Execute(context.Background(), &Request{
		ID:            1,
		ClearLocation: true,
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestExecute_InvalidPatch(t *testing.T) {
	repo := newFakeRepo(appointment(1, 5, at(10, 0), at(11, 0)))
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	// Взаимоисключающие поля
	_, err := uc.Execute(context.Background(), &Request{
		ID:            1,
		LocationID:    ptr.Ptr(int64(2)),
		ClearLocation: true,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Эффективный интервал вырожден
	_, err = uc.Execute(context.Background(), &Request{
		ID:        1,
		StartTime: ptr.Ptr(at(11, 0)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UpdatesAddOns(t *testing.T) {
	repo := newFakeRepo(appointment(1, 5, at(10, 0), at(11, 0)))
	uc := newUseCase(repo, &fakeScheduleRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ID:              1,
		AddOnServiceIDs: ptr.Ptr([]int64{10}),
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{10}, repo.addOns[1])
}

func TestApplyPatch_RecheckMatrix(t *testing.T) {
	base := appointment(1, 5, at(10, 0), at(11, 0))

	tests := []struct {
		name    string
		req     *Request
		recheck bool
	}{
		{name: "notes only", req: &Request{ID: 1, Notes: ptr.Ptr("vip")}, recheck: false},
		{name: "same staff id", req: &Request{ID: 1, StaffID: ptr.Ptr(int64(5))}, recheck: false},
		{name: "new staff", req: &Request{ID: 1, StaffID: ptr.Ptr(int64(6))}, recheck: true},
		{name: "new service", req: &Request{ID: 1, ServiceID: ptr.Ptr(int64(10))}, recheck: true},
		{name: "same start time", req: &Request{ID: 1, StartTime: ptr.Ptr(at(10, 0))}, recheck: false},
		{name: "new end time", req: &Request{ID: 1, EndTime: ptr.Ptr(at(11, 30))}, recheck: true},
		{name: "cancel", req: &Request{ID: 1, Status: ptr.Ptr(string(domain.StatusCancelled))}, recheck: false},
		{name: "detach from series", req: &Request{ID: 1, ClearRecurringGroup: true}, recheck: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recheck := applyPatch(base, tt.req)
			assert.Equal(t, tt.recheck, recheck)
		})
	}
}

func TestApplyPatch_ClearRecurringGroup(t *testing.T) {
	base := appointment(1, 5, at(10, 0), at(11, 0))
	base.RecurringGroupID = ptr.Ptr("recurring_g1")

	// Отвязка от серии применяется вместе с остальным патчем
	effective, _ := applyPatch(base, &Request{
		ID:                  1,
		Notes:               ptr.Ptr("standalone"),
		ClearRecurringGroup: true,
	})
	assert.Nil(t, effective.RecurringGroupID)
	assert.Equal(t, "standalone", *effective.Notes)
}
