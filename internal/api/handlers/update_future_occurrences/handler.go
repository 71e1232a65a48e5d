package update_future_occurrences

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные изменения"
	msgGroupNotFound      = "серия не найдена"
)

// UpdateFutureRequest HTTP request model группового изменения.
// Сдвиги времени задаются в минутах и применяются к каждой будущей записи.
type UpdateFutureRequest struct {
	StaffID           *int64   `json:"staff_id,omitempty"`
	ServiceID         *int64   `json:"service_id,omitempty"`
	LocationID        *int64   `json:"location_id,omitempty"`
	ClearLocation     bool     `json:"clear_location,omitempty"`
	Notes             *string  `json:"notes,omitempty"`
	TotalAmount       *float64 `json:"total_amount,omitempty"`
	StartShiftMinutes *int     `json:"start_shift_minutes,omitempty"`
	EndShiftMinutes   *int     `json:"end_shift_minutes,omitempty"`
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

// Handle PUT /api/v1/appointments/recurring/{groupId}/all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupId"]

	var req UpdateFutureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/recurring/{groupId}/all - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := &recurringSeries.UpdateFutureRequest{
		GroupID:       groupID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		LocationID:    req.LocationID,
		ClearLocation: req.ClearLocation,
		Notes:         req.Notes,
		TotalAmount:   req.TotalAmount,
	}
	if req.StartShiftMinutes != nil {
		shift := time.Duration(*req.StartShiftMinutes) * time.Minute
		useCaseReq.StartTimeShift = &shift
	}
	if req.EndShiftMinutes != nil {
		shift := time.Duration(*req.EndShiftMinutes) * time.Minute
		useCaseReq.EndTimeShift = &shift
	}

	result, err := h.useCase.UpdateFutureOccurrences(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, recurringSeries.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/all - Invalid input: group=%s, %v", groupID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, recurringSeries.ErrGroupNotFound):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/all - Group not found: group=%s", groupID)
			handlers.RespondNotFound(w, msgGroupNotFound)

		default:
			h.logger.Error("PUT /appointments/recurring/{groupId}/all - Failed to update group: group=%s, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/recurring/{groupId}/all - Group updated: group=%s, updated=%d, failed=%d",
		groupID, len(result.Updated), len(result.Failed))
	handlers.RespondJSON(w, http.StatusOK, result)
}
