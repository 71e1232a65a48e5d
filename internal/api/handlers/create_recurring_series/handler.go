package create_recurring_series

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные серии"
)

// OccurrenceRequest интервал одной записи серии
type OccurrenceRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CreateSeriesRequest HTTP request model. Интервалы записей генерирует
// вызывающая сторона по выбранной частоте повторения.
type CreateSeriesRequest struct {
	ClientID              int64               `json:"client_id"`
	StaffID               int64               `json:"staff_id"`
	ServiceID             int64               `json:"service_id"`
	LocationID            *int64              `json:"location_id,omitempty"`
	RecurringAppointments []OccurrenceRequest `json:"recurring_appointments"`
	TotalAmount           *float64            `json:"total_amount,omitempty"`
	Notes                 *string             `json:"notes,omitempty"`
	BookingMethod         string              `json:"booking_method,omitempty"`
}

type Handler struct {
	useCase RecurringSeriesUseCase
	logger  Logger
}

func NewHandler(useCase RecurringSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var createdBy *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		createdBy = &userID
	}

	intervals := make([]recurringSeries.OccurrenceInterval, 0, len(req.RecurringAppointments))
	for _, occ := range req.RecurringAppointments {
		intervals = append(intervals, recurringSeries.OccurrenceInterval{
			StartTime: occ.StartTime,
			EndTime:   occ.EndTime,
		})
	}

	useCaseReq := &recurringSeries.CreateRequest{
		ClientID:      req.ClientID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		LocationID:    req.LocationID,
		Intervals:     intervals,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		BookingMethod: req.BookingMethod,
		CreatedBy:     createdBy,
	}

	result, err := h.useCase.CreateSeries(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, recurringSeries.ErrInvalidInput):
			h.logger.Warn("POST /appointments/recurring - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/recurring - Failed to create series: client_id=%d, error=%v",
				req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Частичный успех и даже полный отказ - тоже 201: клиент видит
	// отказы по каждому интервалу в поле failed
	h.logger.Info("POST /appointments/recurring - Series created: group=%s, created=%d, failed=%d",
		result.GroupID, len(result.Created), len(result.Failed))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
