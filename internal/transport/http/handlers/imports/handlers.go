package importhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/domain/bulkimport"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/platform/metrics"
	"paytrack/internal/platform/workbook"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
	"paytrack/internal/transport/http/shared"
)

type Handler struct {
	DB             *pgxpool.Pool
	Templates      *orgs.Service
	Executor       *bulkimport.Executor
	Audit          *audit.Service
	Metrics        *metrics.Collector
	Log            *logrus.Logger
	MaxUploadBytes int64
	MutationLimit  func(http.Handler) http.Handler
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger, collector *metrics.Collector, maxUploadBytes int64, mutationLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		DB:             db,
		Templates:      orgs.NewService(orgs.NewStore(db)),
		Executor:       bulkimport.NewExecutor(bulkimport.NewStore(db), log),
		Audit:          audit.New(db),
		Metrics:        collector,
		Log:            log,
		MaxUploadBytes: maxUploadBytes,
		MutationLimit:  mutationLimit,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/import", func(r chi.Router) {
		r.Post("/plan", h.handlePlan)
		r.With(h.MutationLimit).Post("/execute", h.handleExecute)
	})
}

// handlePlan turns an uploaded workbook into a dry-run plan. Nothing is
// written; the client reviews the plan and posts it back to /import/execute.
func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	data, ok := h.readWorkbookUpload(w, r)
	if !ok {
		return
	}

	sheets, err := workbook.Read(bytes.NewReader(data))
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "workbook_invalid", "file is not a readable workbook", middleware.GetRequestID(r.Context()))
		return
	}

	templates, err := h.templatesByName(r, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load templates", middleware.GetRequestID(r.Context()))
		return
	}

	plan := bulkimport.BuildPlan(sheets, templates)
	api.Success(w, plan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
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

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" {
		stored, found, err := middleware.CheckIdempotency(r.Context(), h.DB, user.UserID, "import.execute", idempotencyKey, requestHash)
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

	var plan bulkimport.ImportPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "body must be an import plan", middleware.GetRequestID(r.Context()))
		return
	}

	summary, execErr := h.Executor.Execute(r.Context(), user.UserID, plan)
	h.Metrics.RecordsImported(summary.RecordsProcessed)
	h.Metrics.RecordsSkipped(summary.RecordsSkipped)
	if execErr != nil {
		h.Log.Warnf("import aborted: %v", execErr)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "import aborted by a storage error", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "import.execute", "bulk_import", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, summary); err != nil {
		h.Log.Warnf("audit import.execute failed: %v", err)
	}

	if idempotencyKey != "" {
		encoded, err := json.Marshal(summary)
		if err != nil {
			h.Log.Warnf("idempotency response marshal failed: %v", err)
		} else if err := middleware.SaveIdempotency(r.Context(), h.DB, user.UserID, "import.execute", idempotencyKey, requestHash, encoded); err != nil {
			h.Log.Warnf("idempotency save failed: %v", err)
		}
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

// readWorkbookUpload accepts either a multipart form with a "workbook" file
// field or the raw workbook bytes as the request body.
func (h *Handler) readWorkbookUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
			h.failBodyRead(w, r, err)
			return nil, false
		}
		file, _, err := r.FormFile("workbook")
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "multipart field \"workbook\" is required", middleware.GetRequestID(r.Context()))
			return nil, false
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.failBodyRead(w, r, err)
			return nil, false
		}
		return data, true
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.failBodyRead(w, r, err)
		return nil, false
	}
	if len(data) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workbook file is required", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return data, true
}

func (h *Handler) templatesByName(r *http.Request, userID string) (map[string]orgs.Template, error) {
	list, err := h.Templates.List(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]orgs.Template, len(list))
	for _, tpl := range list {
		byName[tpl.Name] = tpl
	}
	return byName, nil
}

func (h *Handler) failBodyRead(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", "request body exceeds the allowed size", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to read request body", middleware.GetRequestID(r.Context()))
}
