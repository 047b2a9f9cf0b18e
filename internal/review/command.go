package review

import (
	"context"
	"time"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

// failurePolicy decides what happens to local state when the network effect fails.
type failurePolicy int

const (
	// restoreTask puts back the pre-call copy of the task.
	restoreTask failurePolicy = iota
	// reconcilePage keeps the optimistic patch and silently refetches the page.
	reconcilePage
	// keepState leaves local state untouched.
	keepState
)

// command is one mutating action: an optional optimistic patch, the network
// effect, a failure policy and a success step. Every write goes through execute.
type command struct {
	name   string
	key    string
	taskID int64 // 0 for batch-level commands

	validate func(t *domain.Task) error
	apply    func(t *domain.Task) // optimistic, before the effect
	effect   func(ctx context.Context) error
	commit   func(t *domain.Task) // after the effect succeeds
	onFail   failurePolicy

	refreshSummary bool
	after          func(ctx context.Context) // after commit, outside the lock
}

func (c *Controller) execute(ctx context.Context, cmd command) error {
	ctx = logger.SetArquivoID(ctx, c.batchID)
	if cmd.taskID != 0 {
		ctx = logger.SetTarefaID(ctx, cmd.taskID)
	}

	c.mu.Lock()
	if _, busy := c.inFlight[cmd.key]; busy {
		c.mu.Unlock()
		return ErrInFlight
	}

	var before *domain.Task
	gen := c.generation
	if cmd.taskID != 0 {
		idx := c.indexOf(cmd.taskID)
		if idx < 0 {
			c.mu.Unlock()
			return ErrTaskNotFound
		}
		t := &c.tasks[idx]
		if cmd.validate != nil {
			if err := cmd.validate(t); err != nil {
				c.mu.Unlock()
				return err
			}
		}
		if cmd.apply != nil {
			snap := t.Clone()
			before = &snap
			cmd.apply(t)
		}
	}
	c.inFlight[cmd.key] = struct{}{}
	c.mu.Unlock()

	start := time.Now()
	err := cmd.effect(ctx)
	elapsed := time.Since(start).Milliseconds()

	c.mu.Lock()
	delete(c.inFlight, cmd.key)
	if err != nil {
		c.lastErr = err
		if cmd.onFail == restoreTask && before != nil && c.generation == gen {
			if idx := c.indexOf(cmd.taskID); idx >= 0 {
				c.tasks[idx] = *before
			}
		}
	} else {
		c.lastErr = nil
		if cmd.commit != nil && cmd.taskID != 0 {
			if idx := c.indexOf(cmd.taskID); idx >= 0 {
				cmd.commit(&c.tasks[idx])
			}
		}
	}
	c.mu.Unlock()

	entry := logger.With(nil).WithAction(cmd.name).WithDuration(elapsed)
	if err != nil {
		entry.Warn(ctx, "Review action failed: %v", err)
		if cmd.onFail == reconcilePage {
			if rerr := c.loadPage(ctx, true); rerr != nil {
				logger.CtxWarn(ctx, "Reconciling refetch failed: %v", rerr)
			}
		}
		return err
	}
	entry.Info(ctx, "Review action confirmed")

	if cmd.refreshSummary {
		c.refreshSummary(ctx)
	}
	if cmd.after != nil {
		cmd.after(ctx)
	}
	return nil
}

func (c *Controller) indexOf(taskID int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
