// Package robot drives the scraping robot's on/off flag and tracks whether the
// desktop agent answers.
package robot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/siscrap/internal/logger"
)

var (
	ErrBusy    = errors.New("robot command already in progress")
	ErrOffline = errors.New("robot agent is offline")
)

// MachineStatus is the agent connectivity shown on the controller page.
type MachineStatus string

const (
	MachineOnline  MachineStatus = "ONLINE"
	MachineOffline MachineStatus = "OFFLINE"
)

// API is the backend's robot command endpoints.
type API interface {
	RobotStatus(ctx context.Context) (bool, error)
	ToggleRobot(ctx context.Context) error
}

// State is what the controller page renders.
type State struct {
	Running   bool          `json:"running"`
	Machine   MachineStatus `json:"machine"`
	Busy      bool          `json:"busy"`
	CheckedAt time.Time     `json:"checkedAt"`
	Error     string        `json:"error,omitempty"`
}

// Controller holds the robot state for one user.
type Controller struct {
	api API

	mu        sync.Mutex
	running   bool
	machine   MachineStatus
	busy      bool
	checkedAt time.Time
	lastErr   error
}

// NewController creates a controller that assumes the agent is online until the
// first status read says otherwise.
func NewController(api API) *Controller {
	return &Controller{api: api, machine: MachineOnline}
}

// Init reads the current status. A failure marks the agent OFFLINE.
func (c *Controller) Init(ctx context.Context) error {
	running, err := c.api.RobotStatus(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkedAt = time.Now()
	if err != nil {
		c.machine = MachineOffline
		c.lastErr = err
		logger.CtxWarn(ctx, "Robot status unavailable, marking agent offline: %v", err)
		return err
	}
	c.machine = MachineOnline
	c.running = running
	c.lastErr = nil
	return nil
}

// Toggle flips the robot and re-reads the status to confirm. Refused while a
// command is outstanding or the agent is offline.
func (c *Controller) Toggle(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return false, ErrBusy
	}
	if c.machine == MachineOffline {
		c.mu.Unlock()
		return false, ErrOffline
	}
	c.busy = true
	c.mu.Unlock()

	running, err := c.toggle(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.lastErr = err
		logger.CtxError(ctx, "Failed to toggle robot: %v", err)
		return c.running, err
	}
	c.running = running
	c.checkedAt = time.Now()
	c.lastErr = nil
	logger.CtxInfo(ctx, "Robot running=%t", running)
	return running, nil
}

func (c *Controller) toggle(ctx context.Context) (bool, error) {
	if err := c.api.ToggleRobot(ctx); err != nil {
		return false, fmt.Errorf("change status: %w", err)
	}
	running, err := c.api.RobotStatus(ctx)
	if err != nil {
		return false, fmt.Errorf("confirm status: %w", err)
	}
	return running, nil
}

// Poll re-reads the status every interval until ctx is done. A failed read keeps
// the last known state; a successful one brings an offline agent back online.
// Ticks where active reports false are skipped; a nil active always polls.
func (c *Controller) Poll(ctx context.Context, interval time.Duration, active func() bool) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if active != nil && !active() {
				continue
			}
			c.refresh(ctx)
		}
	}
}

func (c *Controller) refresh(ctx context.Context) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	running, err := c.api.RobotStatus(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.CtxDebug(ctx, "Robot status poll failed: %v", err)
		}
		return
	}

	c.mu.Lock()
	c.running = running
	c.machine = MachineOnline
	c.checkedAt = time.Now()
	c.mu.Unlock()
}

// State returns the current robot state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{Running: c.running, Machine: c.machine, Busy: c.busy, CheckedAt: c.checkedAt}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}

// Reset forgets everything read so far, e.g. when the user logs out.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.machine = MachineOnline
	c.checkedAt = time.Time{}
	c.lastErr = nil
}
