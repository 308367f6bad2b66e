package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/rings-s/anha/internal/repositories"
)

// JobScheduler runs periodic maintenance work.
type JobScheduler struct {
	scheduler gocron.Scheduler
	tokenRepo repositories.TokenRepository
}

func NewJobScheduler(tokenRepo repositories.TokenRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		tokenRepo: tokenRepo,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	slog.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	slog.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.purgeExpiredResetTokens),
		gocron.WithName("reset-token-purge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// purgeExpiredResetTokens deletes password reset tokens past their
// expiry. Expired tokens are already rejected at use; this keeps the
// table from growing without bound.
func (js *JobScheduler) purgeExpiredResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := js.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		slog.Error("reset token purge failed", "error", err)
		return
	}
	if purged > 0 {
		slog.Info("purged expired reset tokens", "count", purged)
	}
}
