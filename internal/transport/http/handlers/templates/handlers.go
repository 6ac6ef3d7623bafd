package templateshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *orgs.Service
	Audit   *audit.Service
	Log     *logrus.Logger
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger) *Handler {
	return &Handler{
		DB:      db,
		Service: orgs.NewService(orgs.NewStore(db)),
		Audit:   audit.New(db),
		Log:     log,
	}
}

type templatePayload struct {
	Name                string   `json:"name"`
	EarningCategories   []string `json:"earningCategories"`
	DeductionCategories []string `json:"deductionCategories"`
}

func (p templatePayload) toInput() orgs.TemplateInput {
	return orgs.TemplateInput{
		Name:                p.Name,
		EarningCategories:   p.EarningCategories,
		DeductionCategories: p.DeductionCategories,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.handleListTemplates)
		r.Post("/", h.handleCreateTemplate)
		r.Get("/{templateID}", h.handleGetTemplate)
		r.Put("/{templateID}", h.handleUpdateTemplate)
		r.Delete("/{templateID}", h.handleDeleteTemplate)
	})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templates, err := h.Service.List(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "organization name is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	tpl, err := h.Service.Create(r.Context(), user.UserID, payload.toInput())
	if err != nil {
		h.failTemplateError(w, r, err, "failed to create template")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "template.create", "organization_template", tpl.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, tpl); err != nil {
		h.Log.Warnf("audit template.create failed: %v", err)
	}
	api.Created(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	tpl, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "templateID"))
	if err != nil {
		h.failTemplateError(w, r, err, "failed to load template")
		return
	}
	api.Success(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templateID := chi.URLParam(r, "templateID")
	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "organization name is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	before, err := h.Service.Get(r.Context(), user.UserID, templateID)
	if err != nil {
		h.failTemplateError(w, r, err, "failed to load template")
		return
	}

	tpl, err := h.Service.Update(r.Context(), user.UserID, templateID, payload.toInput())
	if err != nil {
		h.failTemplateError(w, r, err, "failed to update template")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "template.update", "organization_template", tpl.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, tpl); err != nil {
		h.Log.Warnf("audit template.update failed: %v", err)
	}
	api.Success(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templateID := chi.URLParam(r, "templateID")
	before, err := h.Service.Get(r.Context(), user.UserID, templateID)
	if err != nil {
		h.failTemplateError(w, r, err, "failed to load template")
		return
	}

	if err := h.Service.Delete(r.Context(), user.UserID, templateID); err != nil {
		h.failTemplateError(w, r, err, "failed to delete template")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "template.delete", "organization_template", templateID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, nil); err != nil {
		h.Log.Warnf("audit template.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": templateID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failTemplateError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, orgs.ErrTemplateNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "organization template not found", requestID)
	case errors.Is(err, orgs.ErrDuplicateTemplate):
		api.Fail(w, http.StatusConflict, "conflict", "a template already exists for that organization", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
