package pager

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// Failure is the last fetch that ended in ErrFetchFailed, kept for retry
type Failure struct {
	Kind FetchKind
	Page int
	Err  error
}

// Session wires the cache, coordinator, triggers, navigator and jump resolver
// for one mounted browse view. It is driven from a single event loop; only
// the fetches it hands out run elsewhere.
type Session struct {
	cache  *Cache
	coord  *Coordinator
	top    *Trigger
	bottom *Trigger
	nav    *Navigator
	jumper *JumpResolver
	logger *slog.Logger

	selectedID  int64
	hasSelected bool
	failure     *Failure
}

// NewSession creates an empty session. Nothing is fetched until the caller
// runs the lease returned by PlanInitial.
func NewSession(provider domain.PageProvider, pageSize int, filter domain.FilterSet, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	cache := NewCache(pageSize)
	coord := NewCoordinator(provider, cache, filter, logger)
	return &Session{
		cache:  cache,
		coord:  coord,
		top:    NewTopTrigger(),
		bottom: NewBottomTrigger(),
		nav:    NewNavigator(cache, navigatorKind(filter)),
		jumper: NewJumpResolver(provider, coord, logger),
		logger: logger,
	}
}

// navigatorKind picks the lightbox subsequence for a filter. Unfiltered views
// walk images.
func navigatorKind(filter domain.FilterSet) domain.Kind {
	if filter.Kind == domain.KindAll {
		return domain.KindImage
	}
	return filter.Kind
}

func (s *Session) Cache() *Cache             { return s.cache }
func (s *Session) Coordinator() *Coordinator { return s.coord }
func (s *Session) Navigator() *Navigator     { return s.nav }
func (s *Session) Filter() domain.FilterSet  { return s.coord.Filter() }
func (s *Session) State() LoadState          { return s.coord.State() }
func (s *Session) TopTrigger() *Trigger      { return s.top }
func (s *Session) BottomTrigger() *Trigger   { return s.bottom }

// Window snapshots what the triggers need
func (s *Session) Window() Window {
	lowest, ok := s.cache.LowestLoaded()
	highest, _ := s.cache.HighestLoaded()
	_, totalPages := s.cache.Totals()
	return Window{
		Loaded:     ok,
		Lowest:     lowest,
		Highest:    highest,
		TotalPages: totalPages,
		Idle:       s.coord.Idle(),
	}
}

// SetFilter switches the filter set. The cache is emptied, triggers re-arm
// and any selection is dropped. The caller should follow with PlanInitial.
func (s *Session) SetFilter(filter domain.FilterSet) {
	if filter == s.coord.Filter() {
		return
	}
	s.coord.SetFilter(filter)
	s.top.Reset()
	s.bottom.Reset()
	s.nav.SetKind(navigatorKind(filter))
	s.failure = nil
	s.Reconcile()
}

// PlanInitial acquires the slot for a page-0 load
func (s *Session) PlanInitial() (*Lease, error) {
	return s.coord.TryAcquire(FetchInitial)
}

// ObserveTop feeds top sentinel visibility. When it returns a lease the
// caller must fetch pageIndex with it and report back through Completed.
func (s *Session) ObserveTop(visible bool) (*Lease, int, bool) {
	return s.observe(s.top, FetchPrevious, visible)
}

// ObserveBottom feeds bottom sentinel visibility
func (s *Session) ObserveBottom(visible bool) (*Lease, int, bool) {
	return s.observe(s.bottom, FetchNext, visible)
}

func (s *Session) observe(t *Trigger, kind FetchKind, visible bool) (*Lease, int, bool) {
	// A failed edge waits for Retry instead of re-firing on every idle
	if visible && s.failure != nil && s.failure.Kind == kind {
		return nil, 0, false
	}
	pageIndex, fire := t.Observe(visible, s.Window())
	if !fire {
		return nil, 0, false
	}
	lease, err := s.coord.TryAcquire(kind)
	if err != nil {
		s.logger.Debug("trigger fire dropped", "kind", kind.String(), "error", err)
		t.Abort()
		return nil, 0, false
	}
	return lease, pageIndex, true
}

// Completed records the outcome of a fetch handed out by this session. It
// returns true when the window is empty and idle after a stale discard, in
// which case the caller should start a fresh initial load.
func (s *Session) Completed(kind FetchKind, pageIndex int, err error) bool {
	switch kind {
	case FetchPrevious:
		s.top.Complete()
	case FetchNext:
		s.bottom.Complete()
	}

	switch {
	case err == nil:
		s.failure = nil
	case errors.Is(err, domain.ErrFetchFailed):
		s.failure = &Failure{Kind: kind, Page: pageIndex, Err: err}
	}

	s.Reconcile()

	if errors.Is(err, domain.ErrStale) && s.cache.Len() == 0 && s.coord.Idle() {
		s.logger.Debug("window empty after stale result, reloading", "filter", s.coord.Filter().Key())
		return true
	}
	return false
}

// LastFailure returns the most recent failed fetch, if not yet retried
func (s *Session) LastFailure() (Failure, bool) {
	if s.failure == nil {
		return Failure{}, false
	}
	return *s.failure, true
}

// Retry acquires a lease for the last failed fetch. An empty window always
// retries page 0. Returns domain.ErrNothingToRetry when no edge fetch has
// failed, and domain.ErrBusy when another fetch holds the coordinator.
func (s *Session) Retry() (*Lease, int, error) {
	if s.cache.Len() == 0 {
		lease, err := s.coord.TryAcquire(FetchInitial)
		return lease, 0, err
	}
	f, ok := s.LastFailure()
	if !ok || f.Kind == FetchJump {
		return nil, 0, domain.ErrNothingToRetry
	}
	lease, err := s.coord.TryAcquire(f.Kind)
	if err != nil {
		return nil, 0, err
	}
	return lease, f.Page, nil
}

// Jump resolves raw and replaces the window. Safe to call off the event
// loop; ApplyJump must then run on it.
func (s *Session) Jump(ctx context.Context, raw string) (*JumpResult, error) {
	return s.jumper.JumpTo(ctx, raw)
}

// ApplyJump selects the jump target and re-arms both triggers for the new
// single-page window
func (s *Session) ApplyJump(result *JumpResult) {
	if result == nil {
		return
	}
	s.top.Reset()
	s.bottom.Reset()
	s.failure = nil
	s.selectedID = result.ID
	s.hasSelected = true
	s.Reconcile()
}

// Select sets the selected item. Returns false if it is not loaded.
func (s *Session) Select(id int64) bool {
	if _, ok := s.cache.Find(id); !ok {
		return false
	}
	s.selectedID = id
	s.hasSelected = true
	return true
}

// ClearSelection drops the selected item
func (s *Session) ClearSelection() {
	s.selectedID = 0
	s.hasSelected = false
}

// Selected returns the selected entry if it still resolves in the window
func (s *Session) Selected() (Entry, bool) {
	if !s.hasSelected {
		return Entry{}, false
	}
	return s.cache.Find(s.selectedID)
}

// Reconcile clears selection and the open lightbox item when they no longer
// resolve in the cache
func (s *Session) Reconcile() {
	if s.hasSelected {
		if _, ok := s.cache.Find(s.selectedID); !ok {
			s.ClearSelection()
		}
	}
	s.nav.Reconcile()
}
