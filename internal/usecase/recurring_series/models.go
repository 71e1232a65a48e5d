package recurring_series

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

// MaxOccurrences предельное число записей в одной серии
const MaxOccurrences = 52

// OccurrenceInterval интервал одной записи серии
type OccurrenceInterval struct {
	StartTime time.Time
	EndTime   time.Time
}

// CreateRequest входные данные для создания повторяющейся серии.
// Интервалы записей задает вызывающая сторона - правила повторения
// (еженедельно, ежемесячно, с учетом переходов на летнее время) живут
// в UI, а не здесь. Записи создаются в порядке следования интервалов.
type CreateRequest struct {
	ClientID   int64
	StaffID    int64
	ServiceID  int64
	LocationID *int64

	Intervals []OccurrenceInterval

	TotalAmount   *float64
	Notes         *string
	BookingMethod string
	CreatedBy     *int64
}

// FailedOccurrence описывает запись серии, не прошедшую проверки допуска
type FailedOccurrence struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// CreateResponse результат создания серии: успешные записи и отказы.
// Частичный успех - нормальный исход; уже созданные записи не откатываются
// из-за отказов последующих.
type CreateResponse struct {
	GroupID string                        `json:"recurring_group_id"`
	Created []*admit_appointment.Response `json:"created"`
	Failed  []FailedOccurrence            `json:"failed,omitempty"`
}

// UpdateFutureRequest изменение всех будущих записей серии
type UpdateFutureRequest struct {
	GroupID string

	StaffID       *int64
	ServiceID     *int64
	LocationID    *int64
	ClearLocation bool
	Notes         *string
	TotalAmount   *float64

	// StartTimeShift/EndTimeShift сдвигают время каждой записи на указанную
	// длительность; nil = время не меняется
	StartTimeShift *time.Duration
	EndTimeShift   *time.Duration
}

// FailedAppointment описывает запись серии, которую не удалось изменить
// или отменить
type FailedAppointment struct {
	AppointmentID int64  `json:"appointment_id"`
	Reason        string `json:"reason"`
}

// UpdateFutureResponse результат группового изменения
type UpdateFutureResponse struct {
	Updated []*update_appointment.Response `json:"updated"`
	Failed  []FailedAppointment            `json:"failed,omitempty"`
}

// CancelFutureRequest отмена всех будущих записей серии
type CancelFutureRequest struct {
	GroupID     string
	Reason      string
	CancelledBy *int64
	Role        string
}

// CancelFutureResponse результат групповой отмены: успешно отмененные
// записи и отказы. Сбой отмены одной записи не мешает остальным.
type CancelFutureResponse struct {
	CancelledCount int                 `json:"cancelled_count"`
	CancelledIDs   []int64             `json:"cancelled_ids"`
	Failed         []FailedAppointment `json:"failed,omitempty"`
}

// DetachRequest отвязка одной записи от серии с применением патча.
// Поля патча опциональны: пустой патч просто делает запись независимой.
type DetachRequest struct {
	GroupID       string
	AppointmentID int64

	StaffID         *int64
	ServiceID       *int64
	LocationID      *int64
	ClearLocation   bool
	StartTime       *time.Time
	EndTime         *time.Time
	Status          *string
	PaymentStatus   *string
	TotalAmount     *float64
	Notes           *string
	AddOnServiceIDs *[]int64
}
