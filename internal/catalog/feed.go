package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Fetcher is the slice of Client the feed needs. Consumers define the
// interface, not the HTTP implementation.
type Fetcher interface {
	FetchPage(ctx context.Context, filters domain.Filters, page, limit int) (*Page, error)
}

const (
	defaultSearchDebounce = 500 * time.Millisecond
	defaultNudgeInterval  = 250 * time.Millisecond
)

// Feed accumulates catalog pages into a displayable list.
//
// A filter change resets to page one and replaces the list; search
// text changes are held back until input settles. LoadMore appends the
// next page, de-duplicating by product identity. Every request carries
// the generation current at issue time, and responses for a stale
// generation are discarded, so an older response can never overwrite a
// newer filter's results.
type Feed struct {
	fetcher        Fetcher
	logger         *zap.Logger
	pageSize       int
	searchDebounce time.Duration
	nudgeInterval  time.Duration

	mu          sync.Mutex
	filters     domain.Filters
	products    []domain.Product
	seen        map[int64]struct{}
	page        int
	totalItems  int
	hasMore     bool
	loading     bool
	loadingGen  uint64
	loadingMore bool
	gen         uint64
	searchTimer *time.Timer
	lastNudge   time.Time
	lastErr     error
}

// Snapshot is the feed's displayable state at one point in time.
type Snapshot struct {
	Products   []domain.Product
	Page       int
	TotalItems int
	HasMore    bool
	Loading    bool
	Err        error
}

func NewFeed(fetcher Fetcher, pageSize int, logger *zap.Logger) *Feed {
	return &Feed{
		fetcher:        fetcher,
		logger:         logger,
		pageSize:       pageSize,
		searchDebounce: defaultSearchDebounce,
		nudgeInterval:  defaultNudgeInterval,
		seen:           map[int64]struct{}{},
	}
}

// SetFilters installs a new filter snapshot and refetches page one.
// A change to the search text is debounced; any other change fetches
// immediately. Re-applying the current filters on an already-loaded
// feed is a no-op.
func (f *Feed) SetFilters(ctx context.Context, filters domain.Filters) error {
	f.mu.Lock()

	if f.page > 0 && filtersEqual(f.filters, filters) {
		f.mu.Unlock()
		return nil
	}

	searchChanged := filters.Search != f.filters.Search
	f.filters = filters
	f.gen++
	gen := f.gen

	if searchChanged && f.searchDebounce > 0 {
		if f.searchTimer != nil {
			f.searchTimer.Stop()
		}
		// The fetch outlives the caller's request; keep its values
		// (trace context) but not its cancellation.
		bg := context.WithoutCancel(ctx)
		f.searchTimer = time.AfterFunc(f.searchDebounce, func() {
			f.refresh(bg, gen, filters)
		})
		f.mu.Unlock()
		return nil
	}

	f.mu.Unlock()
	return f.refresh(ctx, gen, filters)
}

// refresh fetches page one for a filter snapshot and, if the snapshot
// is still current, replaces the displayed list.
func (f *Feed) refresh(ctx context.Context, gen uint64, filters domain.Filters) error {
	f.mu.Lock()
	f.loading = true
	f.loadingGen = gen
	f.mu.Unlock()

	page, err := f.fetcher.FetchPage(ctx, filters, 1, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	// Only the request that set the loading flag may clear it; a newer
	// in-flight refresh owns it now.
	if f.loadingGen == gen {
		f.loading = false
	}

	if gen != f.gen {
		// A newer filter snapshot was issued while this request was in
		// flight; its response owns the display now.
		f.logger.Debug("discarding stale catalog response", zap.Uint64("gen", gen))
		return nil
	}

	if err != nil {
		// Fetch errors keep whatever was already displayed.
		f.lastErr = err
		f.logger.Warn("catalog refresh failed", zap.Error(err))
		return err
	}

	f.products = slices.Clone(page.Products)
	f.seen = make(map[int64]struct{}, len(page.Products))
	for _, p := range page.Products {
		f.seen[p.ID] = struct{}{}
	}
	f.page = 1
	f.totalItems = page.TotalItems
	f.hasMore = page.HasNextPage
	f.lastErr = nil
	return nil
}

// LoadMore appends the next page for the current filter snapshot.
// No-op while a fetch is in flight or once the feed is exhausted.
// A page that contributes no unseen products ends the feed regardless
// of the server's has-more signal; a duplicate-prone upstream must not
// keep the feed loading forever.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || f.loadingMore || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.loadingMore = true
	gen := f.gen
	filters := f.filters
	next := f.page + 1
	f.mu.Unlock()

	page, err := f.fetcher.FetchPage(ctx, filters, next, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadingMore = false
	if gen != f.gen {
		return nil
	}

	if err != nil {
		f.lastErr = err
		f.logger.Warn("catalog load-more failed", zap.Error(err), zap.Int("page", next))
		return err
	}

	added := 0
	for _, p := range page.Products {
		if _, dup := f.seen[p.ID]; dup {
			continue
		}
		f.seen[p.ID] = struct{}{}
		f.products = append(f.products, p)
		added++
	}

	f.page = next
	f.totalItems = page.TotalItems
	if added == 0 {
		f.hasMore = false
	} else {
		f.hasMore = page.HasNextPage
	}
	f.lastErr = nil
	return nil
}

// Nudge is the scroll-observer entry point: it forwards to LoadMore,
// rate-limited so a burst of scroll events issues at most one request
// per interval.
func (f *Feed) Nudge(ctx context.Context) error {
	f.mu.Lock()
	if time.Since(f.lastNudge) < f.nudgeInterval {
		f.mu.Unlock()
		return nil
	}
	f.lastNudge = time.Now()
	f.mu.Unlock()

	return f.LoadMore(ctx)
}

// Product looks up a loaded product by id. The detail view resolves
// against data the listing already fetched; an id the feed has never
// seen is simply not found.
func (f *Feed) Product(id int64) (domain.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[id]; !ok {
		return domain.Product{}, false
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		Products:   slices.Clone(f.products),
		Page:       f.page,
		TotalItems: f.totalItems,
		HasMore:    f.hasMore,
		Loading:    f.loading || f.loadingMore,
		Err:        f.lastErr,
	}
}

func filtersEqual(a, b domain.Filters) bool {
	return a.Search == b.Search &&
		a.Category == b.Category &&
		a.PriceMin == b.PriceMin &&
		a.PriceMax == b.PriceMax &&
		a.SortBy == b.SortBy &&
		a.HideOutOfStock == b.HideOutOfStock &&
		slices.Equal(a.ProductTypes, b.ProductTypes)
}
