package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crm-import/internal/config"
	"crm-import/internal/handler"
	"crm-import/internal/repository"
	"crm-import/internal/service"
	"crm-import/internal/storage"
	"crm-import/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ImportTaskHandler struct {
	svc   *service.ImportService
	redis *redis.Client
	log   *logrus.Entry
}

func NewImportTaskHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) (*ImportTaskHandler, error) {
	fileStore, err := storage.NewLocalStore(cfg.UploadPath)
	if err != nil {
		return nil, err
	}

	svc := service.NewImportService(
		repository.NewImportRunRepository(db),
		fileStore,
		service.NewSheetService(),
		repository.NewContactRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewUserRepository(db),
		repository.NewLeadRepository(db),
		repository.NewOpportunityRepository(db),
	)

	return &ImportTaskHandler{
		svc:   svc,
		redis: redisClient,
		log:   utils.ComponentLogger("import_worker"),
	}, nil
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload handler.ExecuteImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := h.log.WithFields(logrus.Fields{
		"run_code":  payload.RunCode,
		"import_id": payload.ImportID,
	})
	log.Info("starting import execution")

	run, err := h.svc.GetRun(ctx, payload.ImportID)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			log.Warn("import run no longer exists, skipping")
			return nil
		}
		return fmt.Errorf("failed to get import run: %w", err)
	}
	if run.Terminal() {
		log.WithField("status", run.Status).Info("import run already finished, skipping")
		return nil
	}

	summary, err := h.svc.Execute(ctx, payload.ImportID, payload.Options, h.progressFunc(ctx, payload.ImportID))
	if err != nil {
		// A retried task can race an earlier attempt into a terminal state.
		if errors.Is(err, service.ErrRunFinished) || errors.Is(err, service.ErrRunInProgress) {
			log.WithError(err).Warn("import run state changed underneath the task, skipping")
			return nil
		}
		return err
	}

	h.setProgress(ctx, payload.ImportID, 100)
	log.WithFields(logrus.Fields{
		"created": summary.CreatedCount,
		"updated": summary.UpdatedCount,
		"skipped": summary.SkippedCount,
		"failed":  summary.FailedCount,
	}).Info("import execution completed")

	return nil
}

// progressFunc throttles redis progress writes to every 25 rows.
func (h *ImportTaskHandler) progressFunc(ctx context.Context, runID int64) service.ProgressFunc {
	if h.redis == nil {
		return nil
	}
	return func(processed, total int) {
		if total == 0 || (processed%25 != 0 && processed != total) {
			return
		}
		h.setProgress(ctx, runID, float64(processed)/float64(total)*100)
	}
}

func (h *ImportTaskHandler) setProgress(ctx context.Context, runID int64, percent float64) {
	if h.redis == nil {
		return
	}
	if err := h.redis.Set(ctx, handler.ProgressKey(runID), fmt.Sprintf("%.2f", percent), 0).Err(); err != nil {
		h.log.WithError(err).Warn("failed to write progress to redis")
	}
}

// ReconcileStale marks runs stuck in processing as failed. Called once at
// worker boot to recover from crashes mid-run; anything still processing and
// older than the cutoff cannot have a live loop behind it.
func (h *ImportTaskHandler) ReconcileStale(ctx context.Context, olderThan time.Duration) error {
	count, err := h.svc.MarkStaleProcessing(ctx, olderThan)
	if err != nil {
		return err
	}
	if count > 0 {
		h.log.WithField("count", count).Warn("marked stale processing runs as failed")
	}
	return nil
}
