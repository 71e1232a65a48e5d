package get_recurring_group

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidGroupID = "некорректный ID серии"
	msgGroupNotFound  = "серия не найдена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/recurring/{groupId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	groupID := vars["groupId"]
	if groupID == "" {
		h.logger.Warn("GET /appointments/recurring/{groupId} - Empty group ID")
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	list, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrGroupNotFound):
			h.logger.Warn("GET /appointments/recurring/{groupId} - Group not found: group=%s", groupID)
			handlers.RespondNotFound(w, msgGroupNotFound)

		default:
			h.logger.Error("GET /appointments/recurring/{groupId} - Failed to get group: group=%s, error=%v",
				groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/recurring/{groupId} - Retrieved %d appointments: group=%s",
		list.Total, groupID)
	handlers.RespondJSON(w, http.StatusOK, list)
}
