package cancel_future_occurrences

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	recurringSeries "github.com/m04kA/SMC-AppointmentService/internal/usecase/recurring_series"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgGroupNotFound      = "серия не найдена"
)

// CancelFutureRequest HTTP request model
type CancelFutureRequest struct {
	Reason string `json:"reason"`
	Role   string `json:"role,omitempty"`
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

// Handle PUT /api/v1/appointments/recurring/{groupId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupId"]

	var req CancelFutureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/recurring/{groupId}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var cancelledBy *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		cancelledBy = &userID
	}

	useCaseReq := &recurringSeries.CancelFutureRequest{
		GroupID:     groupID,
		Reason:      req.Reason,
		CancelledBy: cancelledBy,
		Role:        req.Role,
	}

	result, err := h.useCase.CancelFutureOccurrences(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, recurringSeries.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/cancel - Invalid input: group=%s", groupID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, recurringSeries.ErrGroupNotFound):
			h.logger.Warn("PUT /appointments/recurring/{groupId}/cancel - Group not found: group=%s", groupID)
			handlers.RespondNotFound(w, msgGroupNotFound)

		default:
			h.logger.Error("PUT /appointments/recurring/{groupId}/cancel - Failed to cancel group: group=%s, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/recurring/{groupId}/cancel - Cancelled %d occurrences: group=%s",
		result.CancelledCount, groupID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
