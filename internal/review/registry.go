package review

import (
	"context"
	"sync"

	"github.com/timmy/siscrap/internal/logger"
)

// Registry keeps one controller per opened batch for the logged-in user. It is
// emptied when the session ends.
type Registry struct {
	api TaskAPI

	mu          sync.Mutex
	controllers map[int64]*Controller
}

// NewRegistry creates an empty registry.
func NewRegistry(api TaskAPI) *Registry {
	return &Registry{api: api, controllers: make(map[int64]*Controller)}
}

// Open returns the batch's controller, creating and loading it on first use. A
// failed initial load is not kept.
func (r *Registry) Open(ctx context.Context, batchID int64) (*Controller, error) {
	if batchID <= 0 {
		return nil, ErrNoBatch
	}

	r.mu.Lock()
	c, ok := r.controllers[batchID]
	r.mu.Unlock()
	if ok {
		return c, nil
	}

	c = New(r.api, batchID)
	if err := c.Open(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.controllers[batchID]; ok {
		return existing, nil
	}
	r.controllers[batchID] = c
	return c, nil
}

// Forget drops a batch's controller, e.g. after the batch is deleted.
func (r *Registry) Forget(batchID int64) {
	r.mu.Lock()
	delete(r.controllers, batchID)
	r.mu.Unlock()
}

// Reset drops every controller.
func (r *Registry) Reset() {
	r.mu.Lock()
	n := len(r.controllers)
	r.controllers = make(map[int64]*Controller)
	r.mu.Unlock()
	logger.Debug("Dropped %d review controllers", n)
}
