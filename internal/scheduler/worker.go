package scheduler

import (
	"context"
	"fmt"

	"hvac_quote_backend/internal/leads/transport"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// PatchApplier writes a queued lead patch.
type PatchApplier interface {
	ApplyPatch(ctx context.Context, patch transport.LeadPatch) error
}

// Notifier delivers an admin notification.
type Notifier interface {
	SendAdminNotification(ctx context.Context, payload AdminNotificationPayload) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	patches  PatchApplier
	notifier Notifier
	log      *logger.Logger
}

// NewWorker builds the asynq server. notifier may be nil, in which case
// notification tasks are acknowledged and dropped.
func NewWorker(cfg config.SchedulerConfig, patches PatchApplier, notifier Notifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetWorkerConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueLeadPatches:   6,
			QueueNotifications: 3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error("task failed", "type", task.Type(), "error", err)
		}),
	})

	w := newWorker(patches, notifier, log)
	w.server = server
	return w, nil
}

func newWorker(patches PatchApplier, notifier Notifier, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:      mux,
		patches:  patches,
		notifier: notifier,
		log:      log,
	}

	mux.HandleFunc(TaskLeadPatch, w.handleLeadPatch)
	mux.HandleFunc(TaskAdminNotification, w.handleAdminNotification)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadPatch(ctx context.Context, task *asynq.Task) error {
	patch, err := ParseLeadPatchPayload(task)
	if err != nil {
		return fmt.Errorf("decode lead patch: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.patches.ApplyPatch(ctx, patch); err != nil {
		w.log.Degraded("apply lead patch", patch.LeadID.String(), err)
		return err
	}
	return nil
}

func (w *Worker) handleAdminNotification(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAdminNotificationPayload(task)
	if err != nil {
		return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
	}

	if w.notifier == nil {
		return nil
	}
	return w.notifier.SendAdminNotification(ctx, payload)
}
