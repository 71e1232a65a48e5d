package detach_occurrence

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidInput         = "некорректные данные записи"
	msgNotInGroup           = "запись не принадлежит серии"
	msgServiceNotFound      = "услуга не найдена"
	msgTimeConflict         = "время пересекается с существующей записью"
	msgStaffUnavailable     = "сотрудник недоступен в выбранное время"
	msgRoomAtCapacity       = "кабинет занят в выбранное время"
)

// DetachOccurrenceRequest HTTP request model. Все поля опциональны:
// пустое тело просто отвязывает запись от серии без других изменений.
type DetachOccurrenceRequest struct {
	StaffID         *int64     `json:"staff_id,omitempty"`
	ServiceID       *int64     `json:"service_id,omitempty"`
	LocationID      *int64     `json:"location_id,omitempty"`
	ClearLocation   bool       `json:"clear_location,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Status          *string    `json:"status,omitempty"`
	PaymentStatus   *string    `json:"payment_status,omitempty"`
	TotalAmount     *float64   `json:"total_amount,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	AddOnServiceIDs *[]int64   `json:"add_on_service_ids,omitempty"`
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

// Handle PUT /api/v1/appointments/recurring/{groupId}/single/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupId"]

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req DetachOccurrenceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.DetachOccurrence(r.Context(), &recurringSeries.DetachRequest{
		GroupID:         groupID,
		AppointmentID:   appointmentID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		LocationID:      req.LocationID,
		ClearLocation:   req.ClearLocation,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		TotalAmount:     req.TotalAmount,
		Notes:           req.Notes,
		AddOnServiceIDs: req.AddOnServiceIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, recurringSeries.ErrInvalidInput),
			errors.Is(err, updateAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Invalid input: group=%s, %v", groupID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, recurringSeries.ErrAppointmentNotInGroup):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Not in group: appointment_id=%d, group=%s",
				appointmentID, groupID)
			handlers.RespondNotFound(w, msgNotInGroup)

		case errors.Is(err, updateAppointment.ErrServiceNotFound):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Service not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateAppointment.ErrTimeConflict):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Time conflict: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

		case errors.Is(err, updateAppointment.ErrStaffUnavailable):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Staff unavailable: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgStaffUnavailable)

		case errors.Is(err, updateAppointment.ErrRoomAtCapacity):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/single/{id} - Room at capacity: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgRoomAtCapacity)

		default:
			h.logger.Error("PUT /appointments/recurring/{groupId}/single/{id} - Failed to detach: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/recurring/{groupId}/single/{id} - Detached appointment_id=%d from group=%s",
		appointmentID, groupID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
