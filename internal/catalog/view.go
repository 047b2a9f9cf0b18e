// Package catalog is the product catalog view of a batch: a debounced, filtered
// product listing with batch-wide totals and bulk sale-price edits.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/logger"
)

var (
	ErrNoBatch        = errors.New("no batch selected")
	ErrInvalidPrice   = errors.New("invalid price")
	ErrSaveInFlight   = errors.New("save already in progress")
	ErrUnknownProduct = errors.New("product not on current page")
)

// DefaultDebounce is the delay between the last change and the fetch.
const DefaultDebounce = 500 * time.Millisecond

// API is the backend surface of the catalog.
type API interface {
	ListProducts(ctx context.Context, batchID int64, page int, f domain.ProductFilter) (*domain.ProductListing, error)
	ListPallets(ctx context.Context, batchID int64) ([]string, error)
	UpdatePrices(ctx context.Context, updates []domain.PriceUpdate) error
}

// View holds the catalog state for one user.
type View struct {
	api      API
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu            sync.Mutex
	batchID       int64
	page          int
	filter        domain.ProductFilter
	products      []domain.Product
	summary       domain.ProductSummary
	totalPages    int
	totalElements int
	pallets       []string
	conditions    []string
	changes       map[int64]decimal.Decimal
	loading       bool
	saving        bool
	lastErr       error
	timer         *time.Timer
	gen           uint64
}

// NewView creates an empty view. Close releases its pending timer.
func NewView(api API, debounce time.Duration) *View {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(logger.SetComponent(context.Background(), "catalog"))
	return &View{
		api:      api,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		changes:  make(map[int64]decimal.Decimal),
	}
}

// Close stops any pending fetch.
func (v *View) Close() {
	v.mu.Lock()
	if v.timer != nil {
		v.timer.Stop()
	}
	v.gen++
	v.mu.Unlock()
	v.cancel()
}

// SelectBatch switches batch and resets page and filters.
func (v *View) SelectBatch(batchID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.batchID = batchID
	v.page = 0
	v.filter = domain.ProductFilter{}
	v.pallets = nil
	v.scheduleLocked()
}

// SetSearch changes the free-text search.
func (v *View) SetSearch(s string) error {
	return v.update(func() { v.filter.Search = s; v.page = 0 })
}

// SetPallet changes the pallet filter.
func (v *View) SetPallet(p string) error {
	return v.update(func() { v.filter.Pallet = p; v.page = 0 })
}

// SetCondition changes the condition filter.
func (v *View) SetCondition(c string) error {
	return v.update(func() { v.filter.Condition = c; v.page = 0 })
}

// SetPage jumps to page, clamped to the known page range.
func (v *View) SetPage(page int) error {
	return v.update(func() {
		if v.totalPages > 0 && page > v.totalPages-1 {
			page = v.totalPages - 1
		}
		v.page = max(page, 0)
	})
}

// Next moves forward one page if there is one.
func (v *View) Next() error {
	return v.update(func() {
		if v.page < v.totalPages-1 {
			v.page++
		}
	})
}

// Prev moves back one page if there is one.
func (v *View) Prev() error {
	return v.update(func() {
		if v.page > 0 {
			v.page--
		}
	})
}

func (v *View) update(fn func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.batchID == 0 {
		return ErrNoBatch
	}
	fn()
	v.scheduleLocked()
	return nil
}

// scheduleLocked (re)arms the debounce timer. A newer change supersedes any
// pending fetch and discards the response of one already running.
func (v *View) scheduleLocked() {
	v.gen++
	gen := v.gen
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, func() { v.fetch(gen) })
}

func (v *View) fetch(gen uint64) {
	v.mu.Lock()
	if gen != v.gen || v.batchID == 0 {
		v.mu.Unlock()
		return
	}
	batchID, page, filter := v.batchID, v.page, v.filter
	v.loading = true
	v.changes = make(map[int64]decimal.Decimal)
	v.mu.Unlock()

	ctx := logger.SetArquivoID(v.ctx, batchID)
	start := time.Now()
	listing, err := v.api.ListProducts(ctx, batchID, page, filter)

	var pallets []string
	if err == nil && page == 0 {
		p, perr := v.api.ListPallets(ctx, batchID)
		if perr != nil {
			logger.CtxWarn(ctx, "Failed to load pallets: %v", perr)
		} else {
			pallets = p
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return
	}
	v.loading = false
	if err != nil {
		v.lastErr = err
		v.products = nil
		logger.CtxError(ctx, "Failed to load products: %v", err)
		return
	}
	v.lastErr = nil

	if listing.Page != nil {
		v.products = listing.Page.Content
		v.totalPages = listing.Page.TotalPages
		v.totalElements = listing.Page.TotalElements
		v.conditions = distinctConditions(listing.Page.Content)
	}
	if listing.Summary != nil {
		v.summary = *listing.Summary
	}
	if pallets != nil {
		v.pallets = pallets
	}
	logger.With(logger.Fields{logger.FieldCount: len(v.products)}).
		WithDuration(time.Since(start).Milliseconds()).
		Debug(ctx, "Loaded products page %d", page)
}

// EditPrice records a new sale price typed by the user. Unparseable input shows
// zero in the row and records no change.
func (v *View) EditPrice(productID int64, raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := -1
	for i := range v.products {
		if v.products[i].ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownProduct
	}

	value, err := parseEditedPrice(raw)
	if err != nil {
		v.products[idx].SalePrice = decimal.Zero
		return fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	v.products[idx].SalePrice = value
	v.changes[productID] = value
	return nil
}

// SaveAll sends every pending price change. With nothing pending it is a no-op.
// Changes are cleared on success and kept on failure.
func (v *View) SaveAll(ctx context.Context) (int, error) {
	v.mu.Lock()
	if v.saving {
		v.mu.Unlock()
		return 0, ErrSaveInFlight
	}
	if len(v.changes) == 0 {
		v.mu.Unlock()
		return 0, nil
	}
	updates := make([]domain.PriceUpdate, 0, len(v.changes))
	for id, val := range v.changes {
		updates = append(updates, domain.PriceUpdate{ProductID: id, NewValue: val})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ProductID < updates[j].ProductID })
	v.saving = true
	v.mu.Unlock()

	err := v.api.UpdatePrices(ctx, updates)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.saving = false
	if err != nil {
		v.lastErr = err
		return 0, err
	}
	for _, u := range updates {
		if cur, ok := v.changes[u.ProductID]; ok && cur.Equal(u.NewValue) {
			delete(v.changes, u.ProductID)
		}
	}
	logger.With(logger.Fields{logger.FieldCount: len(updates)}).Info(ctx, "Saved price changes")
	return len(updates), nil
}

func distinctConditions(ps []domain.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range ps {
		if p.Condition == "" {
			continue
		}
		if _, ok := seen[p.Condition]; !ok {
			seen[p.Condition] = struct{}{}
			out = append(out, p.Condition)
		}
	}
	return out
}
