// Package handlers turns fetched mentions into deployments and replies.
package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/gubot/internal/command"
	"github.com/edgard/gubot/internal/config"
	"github.com/edgard/gubot/internal/store"
	"github.com/edgard/gubot/internal/twitter"
)

// SocialClient is the subset of the X API the processor needs.
type SocialClient interface {
	Me(ctx context.Context) (string, error)
	Mentions(ctx context.Context, userID string, maxResults int) ([]twitter.Mention, error)
	Reply(ctx context.Context, inReplyTo, text string) (string, error)
}

// Deployer submits a factory deploy call and returns the transaction hash.
type Deployer interface {
	Deploy(ctx context.Context, cmd command.DeployCommand) (string, error)
}

// HandlerDeps provides dependencies for the mention processor.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    store.Store
	Social   SocialClient
	Deployer Deployer

	// Suffixer is optional; a clock-and-uuid suffixer is used when nil.
	Suffixer *Suffixer
}
