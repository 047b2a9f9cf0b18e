// Package review is the reconciliation workflow over one batch's scrape tasks:
// filtered paging, the batch summary, and the approve, choose-candidate, correct
// and reprocess actions with their optimistic patches.
//
// A Controller owns the displayed page and summary exclusively. Unrelated actions
// may run concurrently; the same action on the same task may not. No network call
// is made while holding the controller's lock.
package review

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

// TaskAPI is the backend surface the controller drives.
type TaskAPI interface {
	ListTasks(ctx context.Context, batchID int64, page int, f domain.TaskFilter) (*domain.Page[domain.Task], error)
	TaskSummary(ctx context.Context, batchID int64) (*domain.Summary, error)
	ReprocessBlocked(ctx context.Context, batchID int64) error
	ChooseCandidate(ctx context.Context, taskID, candidateID int64) error
	ApproveSimilar(ctx context.Context, taskID int64) error
	CorrectSimilar(ctx context.Context, dto domain.Correction) error
}

// Controller holds the review state of one batch.
type Controller struct {
	api     TaskAPI
	batchID int64

	mu            sync.Mutex
	tasks         []domain.Task
	summary       *domain.Summary
	filter        domain.TaskFilter
	page          int
	pageSize      int
	totalPages    int
	totalElements int
	generation    uint64 // bumped on every page load
	loading       bool
	lastErr       error
	inFlight      map[string]struct{}
	form          correctionForm
}

// New creates a controller for batchID. Nothing is fetched until Open.
func New(api TaskAPI, batchID int64) *Controller {
	return &Controller{
		api:      api,
		batchID:  batchID,
		pageSize: domain.DefaultPageSize,
		filter:   domain.TaskFilter{Review: domain.ReviewFilterAll},
		inFlight: make(map[string]struct{}),
	}
}

// BatchID returns the batch this controller reviews.
func (c *Controller) BatchID() int64 {
	return c.batchID
}

// Open performs the initial load: page 0 and the summary, concurrently. Only a
// listing failure is returned; the summary is secondary content.
func (c *Controller) Open(ctx context.Context) error {
	ctx = logger.SetArquivoID(ctx, c.batchID)

	c.mu.Lock()
	c.page = 0
	c.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		return c.loadPage(ctx, false)
	})
	g.Go(func() error {
		c.refreshSummary(ctx)
		return nil
	})
	return g.Wait()
}

// Refresh refetches the current page and the summary silently.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx = logger.SetArquivoID(ctx, c.batchID)
	c.refreshSummary(ctx)
	return c.loadPage(ctx, true)
}

// loadPage fetches the current page with the active filters. A silent load does
// not flip the loading flag. On failure the last good page stays in place.
func (c *Controller) loadPage(ctx context.Context, silent bool) error {
	c.mu.Lock()
	page, filter := c.page, c.filter
	if !silent {
		c.loading = true
	}
	c.mu.Unlock()

	result, err := c.api.ListTasks(ctx, c.batchID, page, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !silent {
		c.loading = false
	}
	if err != nil {
		c.lastErr = err
		logger.CtxWarn(ctx, "Failed to load tasks page %d: %v", page, err)
		return fmt.Errorf("load page %d: %w", page, err)
	}

	c.tasks = result.Content
	c.totalPages = result.TotalPages
	c.totalElements = result.TotalElements
	if result.Size > 0 {
		c.pageSize = result.Size
	}
	c.generation++
	logger.With(logger.Fields{logger.FieldCount: len(result.Content)}).Debug(ctx, "Loaded tasks page %d", page)
	return nil
}

// refreshSummary refetches the batch counts. Failures keep the last summary.
func (c *Controller) refreshSummary(ctx context.Context) {
	s, err := c.api.TaskSummary(ctx, c.batchID)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to refresh summary: %v", err)
		return
	}
	c.mu.Lock()
	c.summary = s
	c.mu.Unlock()
}

// SetPage moves to page and fetches it.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 0 || (c.totalPages > 0 && page >= c.totalPages) {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.page = page
	c.mu.Unlock()
	return c.loadPage(logger.SetArquivoID(ctx, c.batchID), false)
}

// Approve marks a SIMILAR task APPROVED and hides its candidates right away. If
// the backend refuses, the task is put back as it was.
func (c *Controller) Approve(ctx context.Context, taskID int64) error {
	return c.execute(ctx, command{
		name:     "approve",
		key:      fmt.Sprintf("approve:%d", taskID),
		taskID:   taskID,
		validate: requireSimilar,
		apply: func(t *domain.Task) {
			t.ReviewStatus = domain.ReviewApproved
			t.Candidates = nil
		},
		effect: func(ctx context.Context) error {
			return c.api.ApproveSimilar(ctx, taskID)
		},
		onFail:         restoreTask,
		refreshSummary: true,
	})
}

// ChooseCandidate promotes a candidate onto its task right away. On failure the
// patch stays and the page is refetched to reconcile with the backend.
func (c *Controller) ChooseCandidate(ctx context.Context, taskID, candidateID int64) error {
	return c.execute(ctx, command{
		name:   "choose_candidate",
		key:    fmt.Sprintf("choose:%d", taskID),
		taskID: taskID,
		validate: func(t *domain.Task) error {
			return validateChoice(t, candidateID)
		},
		apply: func(t *domain.Task) {
			promoteCandidate(t, candidateID)
		},
		effect: func(ctx context.Context) error {
			return c.api.ChooseCandidate(ctx, taskID, candidateID)
		},
		onFail: reconcilePage,
	})
}

// Correct sends a correction and then approves the same task. The approval is
// only attempted after the correction succeeds. Nothing is patched locally until
// both calls succeed.
func (c *Controller) Correct(ctx context.Context, taskID int64, in CorrectionInput) error {
	dto := in.toCorrection(taskID)
	return c.execute(ctx, command{
		name:   "correct",
		key:    fmt.Sprintf("correct:%d", taskID),
		taskID: taskID,
		effect: func(ctx context.Context) error {
			if err := c.api.CorrectSimilar(ctx, dto); err != nil {
				return err
			}
			return c.api.ApproveSimilar(ctx, taskID)
		},
		commit: func(t *domain.Task) {
			applyCorrection(t, dto)
		},
		onFail:         keepState,
		refreshSummary: true,
	})
}

// Reprocess asks the backend to retry every BLOCKED task of the batch. On success
// the summary and page are refreshed silently and a BLOCKED outcome filter is
// cleared.
func (c *Controller) Reprocess(ctx context.Context) error {
	return c.execute(ctx, command{
		name: "reprocess",
		key:  "reprocess",
		effect: func(ctx context.Context) error {
			return c.api.ReprocessBlocked(ctx, c.batchID)
		},
		onFail:         keepState,
		refreshSummary: true,
		after: func(ctx context.Context) {
			c.mu.Lock()
			if c.filter.Outcome == domain.OutcomeBlocked {
				c.filter.Outcome = ""
				c.page = 0
			}
			c.mu.Unlock()
			if err := c.loadPage(ctx, true); err != nil {
				logger.CtxWarn(ctx, "Refetch after reprocess failed: %v", err)
			}
		},
	})
}

func requireSimilar(t *domain.Task) error {
	if t.Outcome != domain.OutcomeSimilar {
		return fmt.Errorf("%w: outcome is %s", ErrInvalidAction, t.Outcome)
	}
	return nil
}

// applyCorrection patches a task after a confirmed correction and approval. A
// human-supplied match turns NOT_FOUND into SUCCESS; other outcomes are kept.
func applyCorrection(t *domain.Task, dto domain.Correction) {
	t.ReviewStatus = domain.ReviewApproved
	t.FoundTitle = dto.Title
	t.Price = dto.Price
	t.PriceDesc = dto.PriceDesc
	t.Link = dto.Link
	t.Candidates = nil
	if t.Outcome == domain.OutcomeNotFound {
		t.Outcome = domain.OutcomeSuccess
	}
}
