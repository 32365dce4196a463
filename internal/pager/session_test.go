package pager

import (
	"context"
	"errors"
	"testing"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// runLease fetches with a lease the way the TUI command does, then reports
// the outcome back to the session
func runLease(t *testing.T, s *Session, lease *Lease, pageIndex int) bool {
	t.Helper()
	_, err := lease.Fetch(context.Background(), pageIndex)
	lease.Release()
	return s.Completed(lease.Kind(), pageIndex, err)
}

func TestSessionInitialThenNext(t *testing.T) {
	provider := newFakeProvider(images(480))
	s := NewSession(provider, 48, domain.FilterSet{}, nil)

	lease, err := s.PlanInitial()
	if err != nil {
		t.Fatalf("PlanInitial() error = %v", err)
	}
	runLease(t, s, lease, 0)

	lease, page, ok := s.ObserveBottom(true)
	if !ok || page != 1 {
		t.Fatalf("ObserveBottom() = (%v, %d), want fire for page 1", ok, page)
	}
	runLease(t, s, lease, page)

	pages := s.Cache().Pages()
	if len(pages) != 2 || pages[0] != 0 || pages[1] != 1 {
		t.Fatalf("cache pages = %v, want [0 1]", pages)
	}
	entries := s.Cache().Flatten()
	if len(entries) != 96 {
		t.Fatalf("Flatten() length = %d, want 96", len(entries))
	}
	for i, e := range entries {
		if e.GlobalIndex != i+1 {
			t.Fatalf("entry %d global index = %d, want %d", i, e.GlobalIndex, i+1)
		}
	}
	if highest, _ := s.Cache().HighestLoaded(); highest != 1 {
		t.Errorf("highest = %d, want 1", highest)
	}
}

func TestSessionObserveWhileBusyAborts(t *testing.T) {
	provider := newFakeProvider(images(40))
	s := NewSession(provider, 4, domain.FilterSet{}, nil)

	lease, _ := s.PlanInitial()
	runLease(t, s, lease, 0)

	held, err := s.Coordinator().TryAcquire(FetchJump)
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if _, _, ok := s.ObserveBottom(true); ok {
		t.Error("bottom trigger fired while busy")
	}
	held.Release()

	if s.BottomTrigger().State() != TriggerArmed {
		t.Errorf("bottom trigger state = %v, want armed", s.BottomTrigger().State())
	}
	if _, _, ok := s.ObserveBottom(true); !ok {
		t.Error("bottom trigger did not fire once idle")
	}
}

func TestSessionFilterChangeDuringFetch(t *testing.T) {
	items := append(images(8), video(100), video(101))
	provider := newFakeProvider(items)
	provider.gate = make(chan struct{})
	s := NewSession(provider, 4, domain.FilterSet{}, nil)

	lease, err := s.PlanInitial()
	if err != nil {
		t.Fatalf("PlanInitial() error = %v", err)
	}
	result := make(chan bool, 1)
	go func() {
		result <- runLease(t, s, lease, 0)
	}()

	s.SetFilter(domain.FilterSet{Kind: domain.KindVideo})
	close(provider.gate)

	if reload := <-result; !reload {
		t.Fatal("Completed() did not ask for a reload after a stale result")
	}
	if s.Cache().Len() != 0 {
		t.Fatalf("stale page leaked into cache: %v", s.Cache().Pages())
	}

	provider.gate = nil
	lease, err = s.PlanInitial()
	if err != nil {
		t.Fatalf("PlanInitial() error = %v", err)
	}
	runLease(t, s, lease, 0)

	for _, e := range s.Cache().Flatten() {
		if e.Item.ItemKind() != domain.KindVideo {
			t.Errorf("item %d of kind %s under video filter", e.Item.ItemID(), e.Item.ItemKind())
		}
	}
	if s.Navigator().Kind() != domain.KindVideo {
		t.Errorf("navigator kind = %s, want video", s.Navigator().Kind())
	}
}

func TestSessionJumpSelectsAndResets(t *testing.T) {
	provider := newFakeProvider(images(100))
	s := NewSession(provider, 10, domain.FilterSet{}, nil)

	lease, _ := s.PlanInitial()
	runLease(t, s, lease, 0)
	s.Select(3)
	s.Navigator().Open(3)

	result, err := s.Jump(context.Background(), "57")
	if err != nil {
		t.Fatalf("Jump() error = %v", err)
	}
	s.ApplyJump(result)

	sel, ok := s.Selected()
	if !ok || sel.Item.ItemID() != 57 || sel.GlobalIndex != 57 {
		t.Errorf("Selected() = (%+v, %v), want item 57 at index 57", sel, ok)
	}
	if s.Navigator().IsOpen() {
		t.Error("lightbox still open on an item outside the new window")
	}

	// Top sentinel is visible in a fresh single-page window and may load page 4
	lease, page, ok := s.ObserveTop(true)
	if !ok || page != 4 {
		t.Fatalf("ObserveTop() = (%v, %d), want fire for page 4", ok, page)
	}
	runLease(t, s, lease, page)
	if lowest, _ := s.Cache().LowestLoaded(); lowest != 4 {
		t.Errorf("lowest = %d, want 4", lowest)
	}
}

func TestSessionRetryAfterFailure(t *testing.T) {
	provider := newFakeProvider(images(40))
	s := NewSession(provider, 4, domain.FilterSet{}, nil)

	lease, _ := s.PlanInitial()
	runLease(t, s, lease, 0)

	provider.fetchErr = errors.New("timeout")
	lease, page, _ := s.ObserveBottom(true)
	runLease(t, s, lease, page)

	f, ok := s.LastFailure()
	if !ok || f.Kind != FetchNext || f.Page != 1 {
		t.Fatalf("LastFailure() = (%+v, %v), want next/1", f, ok)
	}
	if !errors.Is(f.Err, domain.ErrFetchFailed) {
		t.Errorf("failure error = %v, want ErrFetchFailed", f.Err)
	}

	provider.fetchErr = nil
	lease, page, err := s.Retry()
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	runLease(t, s, lease, page)

	if !s.Cache().Has(1) {
		t.Error("retry did not load page 1")
	}
	if _, ok := s.LastFailure(); ok {
		t.Error("failure not cleared after successful retry")
	}
}

func TestSessionFailedEdgeWaitsForRetry(t *testing.T) {
	provider := newFakeProvider(images(40))
	s := NewSession(provider, 4, domain.FilterSet{}, nil)

	lease, _ := s.PlanInitial()
	runLease(t, s, lease, 0)

	provider.fetchErr = errors.New("connection reset")
	lease, page, _ := s.ObserveBottom(true)
	runLease(t, s, lease, page)

	before := provider.fetchCount()
	for i := 0; i < 3; i++ {
		if _, _, ok := s.ObserveBottom(true); ok {
			t.Fatalf("bottom trigger re-fired after failure on observe %d", i)
		}
	}
	if got := provider.fetchCount(); got != before {
		t.Errorf("fetch count = %d, want %d", got, before)
	}

	provider.fetchErr = nil
	lease, page, err := s.Retry()
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	runLease(t, s, lease, page)

	lease, page, ok := s.ObserveBottom(true)
	if !ok || page != 2 {
		t.Fatalf("ObserveBottom() after retry = (%v, %d), want fire for page 2", ok, page)
	}
	lease.Release()
}

func TestSessionRetryErrors(t *testing.T) {
	provider := newFakeProvider(images(40))
	s := NewSession(provider, 4, domain.FilterSet{}, nil)

	lease, _ := s.PlanInitial()
	runLease(t, s, lease, 0)

	if _, _, err := s.Retry(); !errors.Is(err, domain.ErrNothingToRetry) {
		t.Fatalf("Retry() with no failure error = %v, want ErrNothingToRetry", err)
	}

	provider.fetchErr = errors.New("connection reset")
	lease, page, _ := s.ObserveBottom(true)
	runLease(t, s, lease, page)
	provider.fetchErr = nil

	held, err := s.Coordinator().TryAcquire(FetchJump)
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if _, _, err := s.Retry(); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("Retry() while busy error = %v, want ErrBusy", err)
	}
	held.Release()

	lease, page, err = s.Retry()
	if err != nil || page != 1 {
		t.Fatalf("Retry() = (%d, %v), want page 1", page, err)
	}
	lease.Release()
}
