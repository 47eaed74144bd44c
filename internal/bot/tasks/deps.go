// Package tasks implements the bot's scheduled tasks.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/gubot/internal/bot/handlers"
	"github.com/edgard/gubot/internal/config"
)

// Processor runs one batch of mention processing.
type Processor interface {
	ProcessMentions(ctx context.Context) (handlers.Summary, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Processor Processor

	// Now defaults to time.Now.
	Now func() time.Time
}
