package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeRepo struct {
	appointments map[int64]*domain.Appointment
	cancelled    []int64
	deleted      []int64
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
	return apt, nil
}

func (r *fakeRepo) GetByClient(_ context.Context, clientID int64) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, apt := range r.appointments {
		if apt.ClientID == clientID {
			result = append(result, apt)
		}
	}
	return result, nil
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

func (r *fakeRepo) MoveToCancelled(_ context.Context, id int64, _ string, _ *int64, _ string) error {
	if _, ok := r.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	r.cancelled = append(r.cancelled, id)
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	r.deleted = append(r.deleted, id)
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

type nopLogger struct{}

func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  {}
func (l *nopLogger) Error(string, ...interface{}) {}

func testAppointment(id, clientID int64) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		ClientID:      clientID,
		StaffID:       5,
		ServiceID:     10,
		StartTime:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
		BookingMethod: domain.BookingMethodStaff,
	}
}

func newService(repo *fakeRepo, publisher *fakePublisher) *Service {
	return NewService(repo, publisher, &fakeTxManager{}, &nopLogger{})
}

func TestGetByID(t *testing.T) {
	svc := newService(newFakeRepo(testAppointment(1, 100)), &fakePublisher{})

	resp, err := svc.GetByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(100), resp.ClientID)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetClientAppointments(t *testing.T) {
	repo := newFakeRepo(
		testAppointment(1, 100),
		testAppointment(2, 100),
		testAppointment(3, 200),
	)
	svc := newService(repo, &fakePublisher{})

	resp, err := svc.GetClientAppointments(context.Background(), 100)
	assert.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = svc.GetClientAppointments(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetGroup(t *testing.T) {
	apt := testAppointment(1, 100)
	apt.RecurringGroupID = ptr.Ptr("recurring_g1")
	svc := newService(newFakeRepo(apt), &fakePublisher{})

	resp, err := svc.GetGroup(context.Background(), "recurring_g1")
	assert.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	_, err = svc.GetGroup(context.Background(), "recurring_missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = svc.GetGroup(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo(testAppointment(1, 100))
	publisher := &fakePublisher{}
	svc := newService(repo, publisher)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		Reason:      "client request",
		CancelledBy: ptr.Ptr(int64(42)),
		Role:        "staff",
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.cancelled)

	// Запись ушла из активной таблицы, событие опубликовано
	_, err = svc.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Len(t, publisher.cancelled, 1)
	assert.Equal(t, "client request", publisher.cancelled[0].Reason)
}

func TestCancel_NotFound(t *testing.T) {
	publisher := &fakePublisher{}
	svc := newService(newFakeRepo(), publisher)

	err := svc.Cancel(context.Background(), 99, &models.CancelAppointmentRequest{Reason: "x"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Empty(t, publisher.cancelled)
}

func TestCancel_PublisherFailureSwallowed(t *testing.T) {
	repo := newFakeRepo(testAppointment(1, 100))
	svc := NewService(repo, &failingPublisher{}, &fakeTxManager{}, &nopLogger{})

	// Сбой публикации не превращает успешную отмену в ошибку
	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{Reason: "x"})
	assert.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.cancelled)
}

type failingPublisher struct{}

func (p *failingPublisher) AppointmentCancelled(context.Context, notify.AppointmentEvent) error {
	return errors.New("broker unavailable")
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(testAppointment(1, 100))
	svc := newService(repo, &fakePublisher{})

	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrAppointmentNotFound)
}
