package recurring_series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
)

// Сквозные тесты серии с настоящим use case допуска: каждая следующая
// запись серии проверяется против уже созданных ранее.

type memCalendar struct {
	appointments []*domain.Appointment
	nextID       int64
}

func (c *memCalendar) Create(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	c.nextID++
	created := *apt
	created.ID = c.nextID
	c.appointments = append(c.appointments, &created)
	return &created, nil
}

func (c *memCalendar) GetAllActive(_ context.Context) ([]*domain.Appointment, error) {
	active := make([]*domain.Appointment, 0, len(c.appointments))
	for _, apt := range c.appointments {
		if apt.IsActive() {
			active = append(active, apt)
		}
	}
	return active, nil
}

func (c *memCalendar) SetAddOns(context.Context, int64, []int64) error {
	return nil
}

type memSchedules struct{}

func (memSchedules) GetByStaffID(context.Context, int64) ([]*domain.StaffSchedule, error) {
	return nil, nil
}

type memCatalog struct {
	services []*domain.Service
}

func (c *memCatalog) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	for _, svc := range c.services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (c *memCatalog) GetServices(_ context.Context) ([]*domain.Service, error) {
	return c.services, nil
}

type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newRealAdmitter(calendar *memCalendar) *admit_appointment.UseCase {
	catalog := &memCatalog{services: []*domain.Service{
		{ID: 20, Name: "Haircut", Duration: 30},
	}}
	return admit_appointment.NewUseCase(
		calendar, memSchedules{}, catalog, nil, nil, passTxManager{}, time.UTC, &nopLogger{})
}

func TestCreateSeries_FailsAgainstPreexistingAppointment(t *testing.T) {
	calendar := &memCalendar{}
	// Слот третьего интервала серии уже занят этим же сотрудником
	calendar.appointments = []*domain.Appointment{
		{
			ID:        99,
			ClientID:  200,
			StaffID:   5,
			ServiceID: 20,
			StartTime: at(10, 0).AddDate(0, 0, 14),
			EndTime:   at(11, 0).AddDate(0, 0, 14),
			Status:    domain.StatusConfirmed,
		},
	}
	calendar.nextID = 99

	uc := newUseCase(newFakeRepo(), newRealAdmitter(calendar), &fakeUpdater{}, &fakePublisher{})

	req := createRequest(5)
	req.ServiceID = 20

	resp, err := uc.CreateSeries(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, resp.Created, 4)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, 2, resp.Failed[0].Index)
	assert.Equal(t, "time_conflict", resp.Failed[0].Reason)
}

func TestCreateSeries_LaterIntervalSeesEarlierOne(t *testing.T) {
	calendar := &memCalendar{}
	uc := newUseCase(newFakeRepo(), newRealAdmitter(calendar), &fakeUpdater{}, &fakePublisher{})

	// Третий интервал пересекается с первым: запись, созданная из
	// первого интервала этой же серии, уже видна проверке конфликтов
	req := createRequest(5)
	req.ServiceID = 20
	req.Intervals[2] = OccurrenceInterval{
		StartTime: at(10, 30),
		EndTime:   at(11, 30),
	}

	resp, err := uc.CreateSeries(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, resp.Created, 4)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, 2, resp.Failed[0].Index)
	assert.Equal(t, "time_conflict", resp.Failed[0].Reason)
	assert.Len(t, calendar.appointments, 4)
}
