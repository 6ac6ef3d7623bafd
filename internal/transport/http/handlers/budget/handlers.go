package budgethandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/budget"
	"paytrack/internal/domain/salary"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *budget.Service
	Audit   *audit.Service
	Log     *logrus.Logger
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger) *Handler {
	return &Handler{
		DB:      db,
		Service: budget.NewService(budget.NewStore(db)),
		Audit:   audit.New(db),
		Log:     log,
	}
}

type budgetPayload struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	Notes         string          `json:"notes"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/budgets", func(r chi.Router) {
		r.Get("/", h.handleListBudgets)
		r.Put("/", h.handleUpsertBudget)
		r.Delete("/{budgetID}", h.handleDeleteBudget)
	})
}

func (h *Handler) handleListBudgets(w http.ResponseWriter, r *http.Request) {
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

	budgets, err := h.Service.List(r.Context(), user.UserID, fiscalStart)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list budgets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, budgets, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Range("month", payload.Month, salary.MinMonth, salary.MaxMonth)
	validator.Range("year", payload.Year, salary.MinYear, salary.MaxYear)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	b, err := h.Service.Upsert(r.Context(), user.UserID, budget.BudgetInput{
		Month:         payload.Month,
		Year:          payload.Year,
		PlannedAmount: payload.PlannedAmount,
		Notes:         payload.Notes,
	})
	if err != nil {
		h.failBudgetError(w, r, err, "failed to save budget")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "budget.upsert", "budget", b.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, b); err != nil {
		h.Log.Warnf("audit budget.upsert failed: %v", err)
	}
	api.Success(w, b, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	budgetID := chi.URLParam(r, "budgetID")
	if err := h.Service.Delete(r.Context(), user.UserID, budgetID); err != nil {
		h.failBudgetError(w, r, err, "failed to delete budget")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "budget.delete", "budget", budgetID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		h.Log.Warnf("audit budget.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": budgetID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failBudgetError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, budget.ErrBudgetNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "budget not found", requestID)
	case errors.Is(err, salary.ErrPeriodOutOfRange), errors.Is(err, salary.ErrAmountOutOfRange):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
