package exporthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/bulkimport"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/salary"
	"paytrack/internal/platform/workbook"
	"paytrack/internal/transport/http/api"
	"paytrack/internal/transport/http/middleware"
)

type Handler struct {
	DB        *pgxpool.Pool
	Records   *salary.Store
	Templates *orgs.Service
	Log       *logrus.Logger
}

func NewHandler(db *pgxpool.Pool, log *logrus.Logger) *Handler {
	return &Handler{
		DB:        db,
		Records:   salary.NewStore(db),
		Templates: orgs.NewService(orgs.NewStore(db)),
		Log:       log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/export/workbook", h.handleExportWorkbook)
}

func (h *Handler) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Records.ListAllWithItems(r.Context(), user.UserID, r.URL.Query().Get("organization"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load salary records", middleware.GetRequestID(r.Context()))
		return
	}

	templates, err := h.Templates.List(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load templates", middleware.GetRequestID(r.Context()))
		return
	}
	byName := make(map[string]orgs.Template, len(templates))
	for _, tpl := range templates {
		byName[tpl.Name] = tpl
	}

	sheets := bulkimport.BuildWorkbook(records, byName)
	data, err := workbook.Write(sheets)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build workbook", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=salary-records.xlsx")
	if _, err := w.Write(data); err != nil {
		h.Log.Warnf("workbook write failed: %v", err)
	}
}
