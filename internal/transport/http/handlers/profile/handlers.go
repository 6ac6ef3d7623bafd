package profilehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/profile"
	"paytrack/internal/domain/salary"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *profile.Service
	Audit   *audit.Service
	Log     *logrus.Logger
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger) *Handler {
	return &Handler{
		DB:      db,
		Service: profile.NewService(profile.NewStore(db)),
		Audit:   audit.New(db),
		Log:     log,
	}
}

type profilePayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

type employmentPayload struct {
	Organization string `json:"organization"`
	Designation  string `json:"designation"`
	StartMonth   int    `json:"startMonth"`
	StartYear    int    `json:"startYear"`
	EndMonth     int    `json:"endMonth"`
	EndYear      int    `json:"endYear"`
	IsCurrent    bool   `json:"isCurrent"`
}

func (p employmentPayload) toInput() profile.EmploymentInput {
	return profile.EmploymentInput{
		Organization: p.Organization,
		Designation:  p.Designation,
		StartMonth:   p.StartMonth,
		StartYear:    p.StartYear,
		EndMonth:     p.EndMonth,
		EndYear:      p.EndYear,
		IsCurrent:    p.IsCurrent,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.handleGetProfile)
		r.Put("/", h.handleUpsertProfile)
	})
	r.Route("/employment", func(r chi.Router) {
		r.Get("/", h.handleListEmployment)
		r.Post("/", h.handleCreateEmployment)
		r.Put("/{entryID}", h.handleUpdateEmployment)
		r.Delete("/{entryID}", h.handleDeleteEmployment)
	})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Service.Get(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Service.Upsert(r.Context(), user.UserID, profile.ProfileInput{
		FullName: payload.FullName,
		Email:    payload.Email,
		Currency: payload.Currency,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save profile", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.update", "profile", user.UserID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, prof); err != nil {
		h.Log.Warnf("audit profile.update failed: %v", err)
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Service.ListEmployment(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list employment history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.rejectInvalidEmployment(w, r, payload) {
		return
	}

	entry, err := h.Service.CreateEmployment(r.Context(), user.UserID, payload.toInput())
	if err != nil {
		h.failEmploymentError(w, r, err, "failed to create employment entry")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employment.create", "employment", entry.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, entry); err != nil {
		h.Log.Warnf("audit employment.create failed: %v", err)
	}
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entryID := chi.URLParam(r, "entryID")
	var payload employmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.rejectInvalidEmployment(w, r, payload) {
		return
	}

	entry, err := h.Service.UpdateEmployment(r.Context(), user.UserID, entryID, payload.toInput())
	if err != nil {
		h.failEmploymentError(w, r, err, "failed to update employment entry")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employment.update", "employment", entry.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, entry); err != nil {
		h.Log.Warnf("audit employment.update failed: %v", err)
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if err := h.Service.DeleteEmployment(r.Context(), user.UserID, entryID); err != nil {
		h.failEmploymentError(w, r, err, "failed to delete employment entry")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employment.delete", "employment", entryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		h.Log.Warnf("audit employment.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": entryID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) rejectInvalidEmployment(w http.ResponseWriter, r *http.Request, payload employmentPayload) bool {
	validator := shared.NewValidator()
	validator.Required("organization", payload.Organization, "organization is required")
	validator.Range("startMonth", payload.StartMonth, salary.MinMonth, salary.MaxMonth)
	validator.Range("startYear", payload.StartYear, salary.MinYear, salary.MaxYear)
	return validator.Reject(w, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failEmploymentError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, profile.ErrEmploymentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employment entry not found", requestID)
	case errors.Is(err, salary.ErrPeriodOutOfRange):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
