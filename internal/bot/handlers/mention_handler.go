package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/gubot/internal/command"
	"github.com/edgard/gubot/internal/config"
	boterrors "github.com/edgard/gubot/internal/errors"
	"github.com/edgard/gubot/internal/logger"
	"github.com/edgard/gubot/internal/twitter"
)

// actTimeout bounds the parse, deploy, reply and record steps for one mention.
const actTimeout = 2 * time.Minute

// Outcome is the terminal state of a single mention.
type Outcome string

const (
	OutcomeSkipped  Outcome = "skipped"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeDeployed Outcome = "deployed"
	OutcomeFailed   Outcome = "failed"
)

// Summary counts what happened to each mention in a batch.
type Summary struct {
	Fetched  int
	Skipped  int
	Ignored  int
	Deployed int
	Failed   int
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeIgnored:
		s.Ignored++
	case OutcomeDeployed:
		s.Deployed++
	case OutcomeFailed:
		s.Failed++
	}
}

// MentionProcessor fetches the bot's mentions and acts on deploy commands.
// It is not safe for concurrent use; the scheduler runs one batch at a time.
type MentionProcessor struct {
	deps     HandlerDeps
	log      *slog.Logger
	suffixer *Suffixer
	pageSize int

	userID string
}

// NewMentionProcessor creates a processor from its dependencies.
func NewMentionProcessor(deps HandlerDeps) *MentionProcessor {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	suffixer := deps.Suffixer
	if suffixer == nil {
		suffixer = NewSuffixer()
	}

	pageSize := config.DefaultBotMentionPageSize
	if deps.Config != nil && deps.Config.Bot.MentionPageSize > 0 {
		pageSize = deps.Config.Bot.MentionPageSize
	}

	return &MentionProcessor{
		deps:     deps,
		log:      log.With("handler", "mention"),
		suffixer: suffixer,
		pageSize: pageSize,
	}
}

// ProcessMentions handles one page of mentions in API order. It stops early and
// returns the error when the API rate-limits a request; any other per-mention
// failure is logged and the batch continues.
func (p *MentionProcessor) ProcessMentions(ctx context.Context) (Summary, error) {
	var summary Summary

	userID, err := p.botUserID(ctx)
	if err != nil {
		return summary, err
	}

	mentions, err := p.deps.Social.Mentions(ctx, userID, p.pageSize)
	if err != nil {
		return summary, err
	}
	summary.Fetched = len(mentions)

	for _, m := range mentions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := p.HandleMention(ctx, m)
		summary.add(outcome)
		if err != nil {
			return summary, err
		}
	}

	p.log.InfoContext(ctx, "Processed mentions",
		"fetched", summary.Fetched,
		"skipped", summary.Skipped,
		"ignored", summary.Ignored,
		"deployed", summary.Deployed,
		"failed", summary.Failed)

	return summary, nil
}

// HandleMention processes a single mention. It returns an error only when ctx is
// already done before any action, or when a reply hits a rate limit after the
// mention has been recorded.
func (p *MentionProcessor) HandleMention(ctx context.Context, m twitter.Mention) (Outcome, error) {
	log := p.log.With("mention_id", m.ID, "author_id", m.AuthorID)

	if p.deps.Store.Contains(m.ID) {
		log.DebugContext(ctx, "Skipping processed mention")
		return OutcomeSkipped, nil
	}

	if !command.HasTrigger(m.Text) {
		log.DebugContext(ctx, "Mention has no deploy command", "text", logger.Truncate(m.Text, 80))
		p.record(ctx, log, m.ID)
		return OutcomeIgnored, nil
	}

	if err := ctx.Err(); err != nil {
		return OutcomeSkipped, err
	}

	// Once a transaction may be sent, shutdown must not separate it from its reply
	// and record: that would leave the user unanswered or deploy twice after restart.
	actCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), actTimeout)
	defer cancel()

	log.InfoContext(ctx, "Handling deploy command", "text", logger.Truncate(m.Text, 120))
	outcome, reply := p.execute(actCtx, log, m)

	_, replyErr := p.deps.Social.Reply(actCtx, m.ID, reply)
	p.record(ctx, log, m.ID)

	if replyErr != nil {
		log.ErrorContext(ctx, "Failed to reply to mention", "outcome", outcome, "error", replyErr)
		if boterrors.IsRateLimit(replyErr) {
			return outcome, replyErr
		}
		return outcome, nil
	}

	log.InfoContext(ctx, "Replied to mention", "outcome", outcome)
	return outcome, nil
}

// execute parses and deploys the command in m and builds the reply text.
func (p *MentionProcessor) execute(ctx context.Context, log *slog.Logger, m twitter.Mention) (Outcome, string) {
	cmd, err := command.Parse(m.Text)
	if err != nil {
		log.InfoContext(ctx, "Malformed deploy command", "error", err)
		return OutcomeFailed, FailedReply(err, p.suffixer.Next())
	}

	txHash, err := p.deps.Deployer.Deploy(ctx, cmd)
	if err != nil {
		log.ErrorContext(ctx, "Deployment failed", "name", cmd.Name, "symbol", cmd.Symbol, "error", err)
		return OutcomeFailed, FailedReply(err, p.suffixer.Next())
	}

	return OutcomeDeployed, DeployedReply(cmd, txHash, p.suffixer.Next())
}

// record marks id processed. A failed append is logged; the store still keeps the
// id in memory, so this process will not handle it again.
func (p *MentionProcessor) record(ctx context.Context, log *slog.Logger, id string) {
	if err := p.deps.Store.Record(id); err != nil {
		log.ErrorContext(ctx, "Failed to persist processed mention", "error", err)
	}
}

// botUserID returns the bot's account id, looking it up on first use.
func (p *MentionProcessor) botUserID(ctx context.Context) (string, error) {
	if p.userID != "" {
		return p.userID, nil
	}

	id, err := p.deps.Social.Me(ctx)
	if err != nil {
		return "", err
	}

	p.log.InfoContext(ctx, "Resolved bot account", "user_id", id)
	p.userID = id
	return id, nil
}
