package summaryhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paytrack/internal/domain/reports"
	"paytrack/internal/domain/salary"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *reports.Service
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{DB: db, Service: reports.NewService(reports.NewStore(db))}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/summary", func(r chi.Router) {
		r.Get("/overview", h.handleOverview)
		r.Get("/organizations", h.handleOrganizations)
		r.Get("/financial-years", h.handleFinancialYears)
		r.Get("/categories", h.handleCategories)
		r.Get("/monthly", h.handleMonthly)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	overview, err := h.Service.Overview(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build overview", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, overview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summaries, err := h.Service.ByOrganization(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to summarize organizations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinancialYears(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summaries, err := h.Service.ByFinancialYear(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to summarize financial years", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	fiscalStart := 0
	if raw := r.URL.Query().Get("financial_year"); raw != "" {
		start, err := salary.ParseFinancialYear(raw)
		if err != nil {
			validator := shared.NewValidator()
			validator.Add("financial_year", err.Error())
			validator.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		fiscalStart = start
	}

	summaries, err := h.Service.ByCategory(r.Context(), user.UserID, fiscalStart, r.URL.Query().Get("organization"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to summarize categories", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	raw := r.URL.Query().Get("financial_year")
	validator.Required("financial_year", raw, "financial_year is required")
	fiscalStart := 0
	if raw != "" {
		start, err := salary.ParseFinancialYear(raw)
		if err != nil {
			validator.Add("financial_year", err.Error())
		}
		fiscalStart = start
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	points, err := h.Service.Monthly(r.Context(), user.UserID, fiscalStart)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build monthly series", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, points, middleware.GetRequestID(r.Context()))
}
