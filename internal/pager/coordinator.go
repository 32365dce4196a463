package pager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// FetchKind names why a page is being fetched
type FetchKind int

const (
	FetchInitial FetchKind = iota
	FetchPrevious
	FetchNext
	FetchJump
)

func (k FetchKind) String() string {
	switch k {
	case FetchInitial:
		return "initial"
	case FetchPrevious:
		return "previous"
	case FetchNext:
		return "next"
	case FetchJump:
		return "jump"
	default:
		return "unknown"
	}
}

// LoadState is the mutually exclusive busy flag rendered by the UI
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadInitial
	LoadPrevious
	LoadNext
	LoadJumping
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadInitial:
		return "loading"
	case LoadPrevious:
		return "loading previous"
	case LoadNext:
		return "loading next"
	case LoadJumping:
		return "jumping"
	default:
		return "unknown"
	}
}

func loadStateFor(kind FetchKind) LoadState {
	switch kind {
	case FetchPrevious:
		return LoadPrevious
	case FetchNext:
		return LoadNext
	case FetchJump:
		return LoadJumping
	default:
		return LoadInitial
	}
}

// Coordinator owns the single in-flight fetch slot and is the only writer
// of the page cache
type Coordinator struct {
	provider domain.PageProvider
	cache    *Cache
	logger   *slog.Logger

	mu         sync.Mutex // Protects state, filter, generation
	state      LoadState
	filter     domain.FilterSet
	generation uint64
}

// NewCoordinator creates a coordinator that fills cache from provider
func NewCoordinator(provider domain.PageProvider, cache *Cache, filter domain.FilterSet, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		provider: provider,
		cache:    cache,
		filter:   filter,
		logger:   logger,
	}
}

// State returns the current load state
func (c *Coordinator) State() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Idle reports whether no fetch is in flight
func (c *Coordinator) Idle() bool {
	return c.State() == LoadIdle
}

// Filter returns the live filter set
func (c *Coordinator) Filter() domain.FilterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter switches the live filter and empties the cache. A fetch already
// in flight keeps its lease but its result will be discarded.
func (c *Coordinator) SetFilter(filter domain.FilterSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
	c.generation++
	c.cache.Clear()
	c.logger.Debug("filter changed", "filter", filter.Key(), "generation", c.generation)
}

// TryAcquire claims the fetch slot. Returns ErrBusy when another lease is held.
// The caller must Release the lease, normally with defer.
func (c *Coordinator) TryAcquire(kind FetchKind) (*Lease, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != LoadIdle {
		return nil, domain.ErrBusy
	}
	c.state = loadStateFor(kind)
	return &Lease{
		coord:      c,
		kind:       kind,
		filter:     c.filter,
		generation: c.generation,
	}, nil
}

// Request acquires the slot, fetches pageIndex, commits it and releases.
func (c *Coordinator) Request(ctx context.Context, kind FetchKind, pageIndex int) (*domain.Page, error) {
	lease, err := c.TryAcquire(kind)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	return lease.Fetch(ctx, pageIndex)
}

// commit writes page to the cache if the lease is still current
func (c *Coordinator) commit(l *Lease, page *domain.Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l.generation != c.generation {
		c.logger.Debug("discarding stale page",
			"kind", l.kind.String(),
			"page", page.Index,
			"fetched_under", l.filter.Key(),
			"live", c.filter.Key())
		return domain.ErrStale
	}
	if l.kind == FetchJump {
		c.cache.Replace(page)
	} else {
		c.cache.Insert(page)
	}
	return nil
}

func (c *Coordinator) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = LoadIdle
}

// Lease is a held fetch slot
type Lease struct {
	coord      *Coordinator
	kind       FetchKind
	filter     domain.FilterSet
	generation uint64

	once sync.Once
}

// Kind returns what the lease was acquired for
func (l *Lease) Kind() FetchKind {
	return l.kind
}

// Filter returns the filter set captured when the lease was acquired
func (l *Lease) Filter() domain.FilterSet {
	return l.filter
}

// Fetch loads pageIndex from the provider and commits it to the cache.
// Jump leases replace the whole cache; all others insert.
func (l *Lease) Fetch(ctx context.Context, pageIndex int) (*domain.Page, error) {
	c := l.coord
	req := domain.PageRequest{
		Index:    pageIndex,
		PageSize: c.cache.PageSize(),
		Filter:   l.filter,
	}

	start := time.Now()
	page, err := c.provider.FetchPage(ctx, req)
	if err != nil {
		c.logger.Warn("page fetch failed",
			"kind", l.kind.String(),
			"page", pageIndex,
			"elapsed", time.Since(start),
			"error", err)
		return nil, fmt.Errorf("%w: page %d: %w", domain.ErrFetchFailed, pageIndex, err)
	}

	if err := c.commit(l, page); err != nil {
		return nil, err
	}

	c.logger.Debug("page loaded",
		"kind", l.kind.String(),
		"page", page.Index,
		"items", len(page.Items),
		"total_pages", page.TotalPages,
		"elapsed", time.Since(start))
	return page, nil
}

// Release frees the slot. Safe to call more than once.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(l.coord.release)
}
