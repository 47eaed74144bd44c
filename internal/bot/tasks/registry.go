package tasks

import (
	"context"
	"time"

	"github.com/edgard/gubot/internal/logger"
)

// ScheduledTaskFunc is the signature of every scheduled task. It should return
// promptly once ctx is cancelled.
type ScheduledTaskFunc func(ctx context.Context) error

// Task is a function run on a fixed interval.
type Task struct {
	Interval time.Duration
	Run      ScheduledTaskFunc
}

// RegisterAllTasks returns every scheduled task keyed by name.
func RegisterAllTasks(deps TaskDeps) map[string]Task {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	tasks := map[string]Task{
		PollMentionsTaskName: newPollMentionsTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
