package salaryhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/profile"
	"paytrack/internal/domain/salary"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB       *pgxpool.Pool
	Service  *salary.Service
	Profiles *profile.Service
	Audit    *audit.Service
	Log      *logrus.Logger
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger) *Handler {
	return &Handler{
		DB:       db,
		Service:  salary.NewService(salary.NewStore(db)),
		Profiles: profile.NewService(profile.NewStore(db)),
		Audit:    audit.New(db),
		Log:      log,
	}
}

type lineItemPayload struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type recordPayload struct {
	Organization    string            `json:"organization"`
	Month           int               `json:"month"`
	Year            int               `json:"year"`
	TotalEarnings   decimal.Decimal   `json:"totalEarnings"`
	TotalDeductions decimal.Decimal   `json:"totalDeductions"`
	NetSalary       decimal.Decimal   `json:"netSalary"`
	GrossSalary     decimal.Decimal   `json:"grossSalary"`
	Earnings        []lineItemPayload `json:"earnings"`
	Deductions      []lineItemPayload `json:"deductions"`
}

func (p recordPayload) toInput() salary.RecordInput {
	return salary.RecordInput{
		Organization:    p.Organization,
		Month:           p.Month,
		Year:            p.Year,
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		GrossSalary:     p.GrossSalary,
		Earnings:        toLineItems(p.Earnings),
		Deductions:      toLineItems(p.Deductions),
	}
}

func toLineItems(payloads []lineItemPayload) []salary.LineItem {
	items := make([]salary.LineItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, salary.LineItem{
			Category:    p.Category,
			Amount:      p.Amount,
			Description: p.Description,
		})
	}
	return items
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary-records", func(r chi.Router) {
		r.Get("/", h.handleListRecords)
		r.Post("/", h.handleCreateRecord)
		r.Get("/{recordID}", h.handleGetRecord)
		r.Put("/{recordID}", h.handleUpdateRecord)
		r.Delete("/{recordID}", h.handleDeleteRecord)
		r.Get("/{recordID}/payslip", h.handleDownloadPayslip)
	})
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	filter := salary.Filter{Organization: r.URL.Query().Get("organization")}
	if raw := r.URL.Query().Get("financial_year"); raw != "" {
		start, err := salary.ParseFinancialYear(raw)
		if err != nil {
			validator.Add("financial_year", err.Error())
		}
		filter.FiscalStart = start
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			validator.Add("year", "must be a number")
		}
		filter.Year = year
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			validator.Add("month", "must be a number")
		}
		filter.Month = month
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	records, total, err := h.Service.List(r.Context(), user.UserID, filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list salary records", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.rejectInvalidRecord(w, r, payload) {
		return
	}

	rec, err := h.Service.Create(r.Context(), user.UserID, payload.toInput())
	if err != nil {
		h.failRecordError(w, r, err, "failed to create salary record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.record.create", "salary_record", rec.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, rec); err != nil {
		h.Log.Warnf("audit salary.record.create failed: %v", err)
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "recordID"))
	if err != nil {
		h.failRecordError(w, r, err, "failed to load salary record")
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if h.rejectInvalidRecord(w, r, payload) {
		return
	}

	before, err := h.Service.Get(r.Context(), user.UserID, recordID)
	if err != nil {
		h.failRecordError(w, r, err, "failed to load salary record")
		return
	}

	rec, err := h.Service.Update(r.Context(), user.UserID, recordID, payload.toInput())
	if err != nil {
		h.failRecordError(w, r, err, "failed to update salary record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.record.update", "salary_record", rec.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, rec); err != nil {
		h.Log.Warnf("audit salary.record.update failed: %v", err)
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	before, err := h.Service.Get(r.Context(), user.UserID, recordID)
	if err != nil {
		h.failRecordError(w, r, err, "failed to load salary record")
		return
	}

	if err := h.Service.Delete(r.Context(), user.UserID, recordID); err != nil {
		h.failRecordError(w, r, err, "failed to delete salary record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.record.delete", "salary_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, nil); err != nil {
		h.Log.Warnf("audit salary.record.delete failed: %v", err)
	}
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Get(r.Context(), user.UserID, chi.URLParam(r, "recordID"))
	if err != nil {
		h.failRecordError(w, r, err, "failed to load salary record")
		return
	}

	prof, err := h.Profiles.Get(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}

	var buf bytes.Buffer
	if err := salary.RenderPayslip(&buf, rec, prof.FullName, prof.Currency); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%04d-%02d.pdf", rec.Year, rec.Month))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Log.Warnf("payslip write failed: %v", err)
	}
}

func (h *Handler) rejectInvalidRecord(w http.ResponseWriter, r *http.Request, payload recordPayload) bool {
	validator := shared.NewValidator()
	validator.Required("organization", payload.Organization, "organization is required")
	validator.Range("month", payload.Month, salary.MinMonth, salary.MaxMonth)
	validator.Range("year", payload.Year, salary.MinYear, salary.MaxYear)
	return validator.Reject(w, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failRecordError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, salary.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", requestID)
	case errors.Is(err, salary.ErrDuplicateRecord):
		api.Fail(w, http.StatusConflict, "conflict", "a salary record already exists for that month and year", requestID)
	case errors.Is(err, salary.ErrPeriodOutOfRange), errors.Is(err, salary.ErrAmountOutOfRange):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
