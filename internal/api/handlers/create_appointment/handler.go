package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	admitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные записи"
	msgServiceNotFound    = "услуга не найдена"
	msgTimeConflict       = "время пересекается с существующей записью"
	msgStaffUnavailable   = "сотрудник недоступен в выбранное время"
	msgRoomAtCapacity     = "кабинет занят в выбранное время"
)

type Handler struct {
	useCase AdmitAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase AdmitAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Инициатор берется из контекста аутентификации
	var createdBy *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		createdBy = &userID
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(createdBy))
	if err != nil {
		switch {
		case errors.Is(err, admitAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, admitAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, admitAppointment.ErrTimeConflict):
			h.logger.Warn("POST /appointments - Time conflict: staff_id=%d, start=%s",
				req.StaffID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

		case errors.Is(err, admitAppointment.ErrStaffUnavailable):
			h.logger.Warn("POST /appointments - Staff unavailable: staff_id=%d, start=%s",
				req.StaffID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgStaffUnavailable)

		case errors.Is(err, admitAppointment.ErrRoomAtCapacity):
			h.logger.Warn("POST /appointments - Room at capacity: service_id=%d, start=%s",
				req.ServiceID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgRoomAtCapacity)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, error=%v",
				req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d",
		result.ID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
