package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/gubot/internal/config"
	boterrors "github.com/edgard/gubot/internal/errors"
)

// PollMentionsTaskName identifies the mention poller.
const PollMentionsTaskName = "poll_mentions"

// mentionPoller runs the processor each tick unless a rate-limit cooldown is in effect.
// The scheduler never overlaps runs, so resumeAt needs no lock.
type mentionPoller struct {
	processor Processor
	log       *slog.Logger
	now       func() time.Time
	cooldown  time.Duration

	resumeAt time.Time
}

func newPollMentionsTask(deps TaskDeps) Task {
	interval := config.DefaultBotPollInterval
	cooldown := config.DefaultBotRateLimitCooldown
	if deps.Config != nil {
		if deps.Config.Bot.PollInterval > 0 {
			interval = deps.Config.Bot.PollInterval
		}
		if deps.Config.Bot.RateLimitCooldown > 0 {
			cooldown = deps.Config.Bot.RateLimitCooldown
		}
	}

	p := &mentionPoller{
		processor: deps.Processor,
		log:       deps.Logger.With("task", PollMentionsTaskName),
		now:       deps.Now,
		cooldown:  cooldown,
	}

	return Task{Interval: interval, Run: p.run}
}

func (p *mentionPoller) run(ctx context.Context) error {
	if now := p.now(); now.Before(p.resumeAt) {
		p.log.DebugContext(ctx, "Rate limit cooldown active, skipping poll",
			"resume_in", p.resumeAt.Sub(now).Round(time.Second))
		return nil
	}

	startTime := p.now()
	summary, err := p.processor.ProcessMentions(ctx)
	duration := p.now().Sub(startTime)

	if err != nil {
		if boterrors.IsRateLimit(err) {
			p.resumeAt = p.now().Add(p.cooldown)
			p.log.WarnContext(ctx, "Rate limit exceeded, cooling down",
				"cooldown", p.cooldown,
				"resume_at", p.resumeAt,
				"error", err)
			return nil
		}
		return fmt.Errorf("mention poll failed: %w", err)
	}

	p.log.DebugContext(ctx, "Mention poll completed",
		"fetched", summary.Fetched,
		"deployed", summary.Deployed,
		"failed", summary.Failed,
		"duration", duration)
	return nil
}
