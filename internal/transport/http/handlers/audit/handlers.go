package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
	Log     *logrus.Logger
}

func NewHandler(service *audit.Service, log *logrus.Logger) *Handler {
	return &Handler{Service: service, Log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-events", h.handleListEvents)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	includeDetails := r.URL.Query().Get("includeDetails") == "true"
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
	}

	total, err := h.Service.Count(r.Context(), user.UserID, filter)
	if err != nil {
		h.Log.Warnf("audit count failed: %v", err)
	}

	events, err := h.Service.List(r.Context(), user.UserID, filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
