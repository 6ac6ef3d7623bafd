package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"paytrack/internal/domain/audit"
	"paytrack/internal/platform/config"
	"paytrack/internal/transport/http/middleware"
)

const (
	JobAuditRetention       = "audit_retention"
	JobIdempotencyRetention = "idempotency_retention"
)

// Service runs background maintenance on one worker goroutine. Every run is
// recorded in job_runs so operators can see whether pruning actually happens.
type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Log   *logrus.Logger
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, log *logrus.Logger) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		Log:   log,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.RetentionInterval > 0 {
		go s.scheduleRetention(ctx, s.Cfg.RetentionInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		s.Log.Warnf("job queue full, dropping %s", jobType)
	}
}

// RunNow executes a job inline, bypassing the queue. The journey tests use it
// to exercise retention without waiting on a ticker.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.Log.Warnf("job %s failed: %v", j.Type, err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		s.Log.Warnf("job run insert failed: %v", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.Log.Warnf("job details marshal failed: %v", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			s.Log.Warnf("job run update failed: %v", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobAuditRetention, s.PruneAuditEvents)
			s.Enqueue(JobIdempotencyRetention, s.PruneIdempotencyKeys)
		}
	}
}

func (s *Service) PruneAuditEvents(ctx context.Context) (any, error) {
	cutoff := time.Now().AddDate(0, 0, -s.Cfg.AuditRetentionDays)
	deleted, err := audit.New(s.DB).PruneBefore(ctx, cutoff)
	return map[string]any{"cutoff": cutoff, "deleted": deleted}, err
}

func (s *Service) PruneIdempotencyKeys(ctx context.Context) (any, error) {
	cutoff := time.Now().AddDate(0, 0, -s.Cfg.IdempotencyRetentionDays)
	deleted, err := middleware.PruneIdempotencyKeys(ctx, s.DB, cutoff)
	return map[string]any{"cutoff": cutoff, "deleted": deleted}, err
}
