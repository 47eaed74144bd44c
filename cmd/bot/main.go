// Package main contains the entrypoint for the token deployment bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgard/gubot/internal/bot"
	"github.com/edgard/gubot/internal/bot/handlers"
	"github.com/edgard/gubot/internal/bot/tasks"
	"github.com/edgard/gubot/internal/chain"
	"github.com/edgard/gubot/internal/config"
	"github.com/edgard/gubot/internal/logger"
	"github.com/edgard/gubot/internal/store"
	"github.com/edgard/gubot/internal/twitter"
)

const (
	configPath = "./config.yaml"
	envPath    = ".env"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logging, the processed store, the X and chain clients and the
// scheduler, then blocks until ctx is cancelled. It returns the process exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return 1
	}

	log, logCloser := logger.NewLogger(cfg.Log)
	defer logCloser.Close()
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON, "file", cfg.Log.File)

	processed, err := store.Open(cfg.Bot.ProcessedFile, log)
	if err != nil {
		log.Error("Failed to load processed mentions", "path", cfg.Bot.ProcessedFile, "error", err)
		return 1
	}

	social, err := twitter.NewClient(cfg.Twitter, log)
	if err != nil {
		log.Error("Failed to create X API client", "error", err)
		return 1
	}

	deployer, err := chain.Dial(ctx, cfg.Chain, log)
	if err != nil {
		log.Error("Failed to set up deployer", "error", err)
		return 1
	}
	defer deployer.Close()

	processor := handlers.NewMentionProcessor(handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    processed,
		Social:   social,
		Deployer: deployer,
	})

	sched, err := bot.NewScheduler(log, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:    log,
		Config:    cfg,
		Processor: processor,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	log.Info("Starting bot",
		"signer", deployer.Address().Hex(),
		"factory", cfg.Chain.FactoryAddress,
		"poll_interval", cfg.Bot.PollInterval)

	if err := bot.NewBot(log, sched).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Bot stopped due to error", "error", err)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}
