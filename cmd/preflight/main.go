// Package main contains a one-shot check of the bot's credentials and endpoints.
// It reads the same configuration as the bot, never posts or sends a transaction,
// and exits non-zero on the first failure.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/gubot/internal/chain"
	"github.com/edgard/gubot/internal/config"
	"github.com/edgard/gubot/internal/logger"
	"github.com/edgard/gubot/internal/twitter"
)

const (
	configPath = "./config.yaml"
	envPath    = ".env"
	timeout    = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	err := run(ctx, os.Stdout)
	cancel()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "preflight failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return err
	}

	log, logCloser := logger.NewLogger(cfg.Log)
	defer logCloser.Close()

	social, err := twitter.NewClient(cfg.Twitter, log)
	if err != nil {
		return err
	}
	userID, err := social.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "bot user id:     %s\n", userID)

	mentions, err := social.Mentions(ctx, userID, cfg.Bot.MentionPageSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "recent mentions: %d\n", len(mentions))

	deployer, err := chain.Dial(ctx, cfg.Chain, log)
	if err != nil {
		return err
	}
	defer deployer.Close()

	nonce, err := deployer.Nonce(ctx)
	if err != nil {
		return fmt.Errorf("failed to read signer nonce: %w", err)
	}
	fmt.Fprintf(out, "signer address:  %s\n", deployer.Address().Hex())
	fmt.Fprintf(out, "signer nonce:    %d\n", nonce)
	fmt.Fprintf(out, "factory address: %s\n", cfg.Chain.FactoryAddress)

	return nil
}
