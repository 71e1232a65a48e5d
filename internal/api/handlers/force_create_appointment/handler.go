package force_create_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	admitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/admit_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные записи"
	msgMissingUserID      = "отсутствует ID пользователя"
)

// ForceCreateRequest HTTP request model.
// Запись создается в обход проверок конфликтов; операция доступна только
// персоналу и фиксируется в логе с инициатором.
type ForceCreateRequest struct {
	ClientID        int64     `json:"client_id"`
	StaffID         int64     `json:"staff_id"`
	ServiceID       int64     `json:"service_id"`
	LocationID      *int64    `json:"location_id,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status,omitempty"`
	TotalAmount     *float64  `json:"total_amount,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	AddOnServiceIDs []int64   `json:"add_on_service_ids,omitempty"`
}

type Handler struct {
	useCase ForceCreateUseCase
	logger  Logger
}

func NewHandler(useCase ForceCreateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/force-create
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ForceCreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/force-create - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Для аудита обязателен аутентифицированный инициатор
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/force-create - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq := &admitAppointment.Request{
		ClientID:        req.ClientID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		LocationID:      req.LocationID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		TotalAmount:     req.TotalAmount,
		Notes:           req.Notes,
		BookingMethod:   "staff",
		CreatedBy:       &userID,
		AddOnServiceIDs: req.AddOnServiceIDs,
	}

	result, err := h.useCase.ExecuteForced(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, admitAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/force-create - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/force-create - Failed: client_id=%d, error=%v",
				req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/force-create - Appointment force-created: appointment_id=%d, actor=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
