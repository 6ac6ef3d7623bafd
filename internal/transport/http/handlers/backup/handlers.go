package backuphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/backup"
	"paytrack/internal/platform/crypto"
	"paytrack/internal/platform/metrics"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB            *pgxpool.Pool
	Service       *backup.Service
	Crypto        *crypto.Archiver
	Audit         *audit.Service
	Metrics       *metrics.Collector
	Log           *logrus.Logger
	MutationLimit func(http.Handler) http.Handler
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger, archiver *crypto.Archiver, collector *metrics.Collector, mutationLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		DB:            db,
		Service:       backup.NewService(backup.NewStore(db), log),
		Crypto:        archiver,
		Audit:         audit.New(db),
		Metrics:       collector,
		Log:           log,
		MutationLimit: mutationLimit,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/backup", func(r chi.Router) {
		r.Get("/export", h.handleExport)
		r.With(h.MutationLimit).Post("/restore", h.handleRestore)
	})
	r.With(h.MutationLimit).Delete("/account/data", h.handleWipeAccount)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	env, err := h.Service.Export(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build backup", middleware.GetRequestID(r.Context()))
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to encode backup", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "backup.export", "backup", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{
		"salaryRecords":         len(env.SalaryRecords),
		"organizationTemplates": len(env.OrganizationTemplates),
		"employmentHistory":     len(env.EmploymentHistory),
		"budgets":               len(env.BudgetHistory),
	}); err != nil {
		h.Log.Warnf("audit backup.export failed: %v", err)
	}

	if r.URL.Query().Get("sealed") == "true" {
		if h.Crypto == nil || !h.Crypto.Configured() {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "sealed backups are not configured", middleware.GetRequestID(r.Context()))
			return
		}
		sealed, err := h.Crypto.Seal(data)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to seal backup", middleware.GetRequestID(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.enc", backup.FileName))
		if _, err := w.Write(sealed); err != nil {
			h.Log.Warnf("backup write failed: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backup.FileName))
	if _, err := w.Write(data); err != nil {
		h.Log.Warnf("backup write failed: %v", err)
	}
}

// handleRestore previews by default and only destroys data when the caller
// passes confirm=true. Sealed archives are opened before any validation.
func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.failBodyRead(w, r, err)
		return
	}

	data := body
	if crypto.IsSealed(data) {
		if h.Crypto == nil || !h.Crypto.Configured() {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "sealed backup requires a configured passphrase", middleware.GetRequestID(r.Context()))
			return
		}
		opened, err := h.Crypto.Open(data)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to open sealed backup", middleware.GetRequestID(r.Context()))
			return
		}
		data = opened
	}

	env, err := backup.Parse(data)
	if err != nil {
		h.failParseError(w, r, err)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		preview, err := h.Service.Preview(r.Context(), user.UserID, env)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to preview restore", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, preview, middleware.GetRequestID(r.Context()))
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" {
		stored, found, err := middleware.CheckIdempotency(r.Context(), h.DB, user.UserID, "backup.restore", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was already used with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			h.Log.Warnf("idempotency check failed: %v", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	summary, err := h.Service.Restore(r.Context(), user.UserID, env)
	if err != nil {
		h.Log.Warnf("restore aborted: %v", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "restore aborted by a storage error; state may be partial", middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.BackupRestored()

	if err := h.Audit.Record(r.Context(), user.UserID, "backup.restore", "backup", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, summary); err != nil {
		h.Log.Warnf("audit backup.restore failed: %v", err)
	}

	if idempotencyKey != "" {
		encoded, err := json.Marshal(summary)
		if err != nil {
			h.Log.Warnf("idempotency response marshal failed: %v", err)
		} else if err := middleware.SaveIdempotency(r.Context(), h.DB, user.UserID, "backup.restore", idempotencyKey, requestHash, encoded); err != nil {
			h.Log.Warnf("idempotency save failed: %v", err)
		}
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleWipeAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "pass confirm=true to wipe account data", middleware.GetRequestID(r.Context()))
		return
	}

	counts, err := h.Service.WipeAccount(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to wipe account data", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "account.wipe", "account", user.UserID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, counts); err != nil {
		h.Log.Warnf("audit account.wipe failed: %v", err)
	}
	api.Success(w, counts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failParseError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, backup.ErrTooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", "backup exceeds the maximum allowed size", requestID)
	case errors.Is(err, backup.ErrUnsupportedVersion):
		api.Fail(w, http.StatusUnprocessableEntity, "backup_version_unsupported", "backup version is not supported", requestID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "backup file is not valid JSON", requestID)
	}
}

func (h *Handler) failBodyRead(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", "request body exceeds the allowed size", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to read request body", middleware.GetRequestID(r.Context()))
}
