// Package bot owns the bot's process lifetime: it starts the scheduled tasks and
// stops them when the context is cancelled.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/gubot/internal/logger"
)

// Bot represents the running bot and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewBot creates a bot around a configured scheduler.
func NewBot(log *slog.Logger, scheduler *Scheduler) *Bot {
	if log == nil {
		log = logger.Discard()
	}
	return &Bot{
		logger:    log.With("component", "bot_orchestrator"),
		scheduler: scheduler,
	}
}

// Run starts the scheduler and blocks until ctx is cancelled, then stops it after
// any in-flight task returns. Tasks see the cancellation through their context.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := b.scheduler.Start(gCtx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")

		if err := b.scheduler.Stop(); err != nil {
			return fmt.Errorf("failed to stop scheduler: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped")
	return nil
}
