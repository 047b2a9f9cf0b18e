package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

// Dimension names one filter of the task listing.
type Dimension string

const (
	DimSearch    Dimension = "search"
	DimPallet    Dimension = "pallet"
	DimCondition Dimension = "condicao"
	DimOutcome   Dimension = "status"
	DimReview    Dimension = "statusRevisao"
)

// SetFilter changes one filter and refetches page 0.
//
// The outcome filter toggles: setting the active value again clears it. Any
// outcome change resets the review filter to TODOS. The review filter is only
// accepted while the outcome filter is SIMILAR.
func (c *Controller) SetFilter(ctx context.Context, dim Dimension, value string) error {
	value = strings.TrimSpace(value)

	c.mu.Lock()
	next := c.filter
	switch dim {
	case DimSearch:
		next.Search = value
	case DimPallet:
		next.Pallet = value
	case DimCondition:
		next.Condition = value
	case DimOutcome:
		o := domain.MatchOutcome(strings.ToUpper(value))
		if o != "" && !o.Valid() {
			c.mu.Unlock()
			return fmt.Errorf("%w: outcome %q", ErrUnknownFilter, value)
		}
		if next.Outcome == o {
			o = ""
		}
		next.Outcome = o
		next.Review = domain.ReviewFilterAll
	case DimReview:
		r := strings.ToUpper(value)
		if r == "" {
			r = domain.ReviewFilterAll
		}
		if !validReviewFilter(r) {
			c.mu.Unlock()
			return fmt.Errorf("%w: review %q", ErrUnknownFilter, value)
		}
		if next.Outcome != domain.OutcomeSimilar && r != domain.ReviewFilterAll {
			c.mu.Unlock()
			return ErrReviewFilterUnavailable
		}
		next.Review = r
	default:
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownFilter, dim)
	}
	c.filter = next
	c.page = 0
	c.mu.Unlock()

	ctx = logger.SetArquivoID(ctx, c.batchID)
	logger.CtxDebug(ctx, "Filter %s set to %q", dim, value)
	return c.loadPage(ctx, false)
}

// ClearFilters removes every filter and refetches page 0.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filter = domain.TaskFilter{Review: domain.ReviewFilterAll}
	c.page = 0
	c.mu.Unlock()
	return c.loadPage(logger.SetArquivoID(ctx, c.batchID), false)
}

// Filter returns the active filters.
func (c *Controller) Filter() domain.TaskFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// ReviewFilterEnabled reports whether the review-status filter may be used.
func (c *Controller) ReviewFilterEnabled() bool {
	return c.Filter().Outcome == domain.OutcomeSimilar
}

func validReviewFilter(r string) bool {
	switch domain.ReviewStatus(r) {
	case domain.ReviewApproved, domain.ReviewPending, domain.ReviewRejected:
		return true
	}
	return r == domain.ReviewFilterAll
}

// FilterOptions lists the distinct pallet codes and conditions of the displayed
// page, in first-seen order.
func FilterOptions(tasks []domain.Task) (pallets, conditions []string) {
	seenP := make(map[string]struct{})
	seenC := make(map[string]struct{})
	for _, t := range tasks {
		if t.PalletCode != "" {
			if _, ok := seenP[t.PalletCode]; !ok {
				seenP[t.PalletCode] = struct{}{}
				pallets = append(pallets, t.PalletCode)
			}
		}
		if t.Condition != "" {
			if _, ok := seenC[t.Condition]; !ok {
				seenC[t.Condition] = struct{}{}
				conditions = append(conditions, t.Condition)
			}
		}
	}
	return pallets, conditions
}
