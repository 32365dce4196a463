package pager

import "github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"

// Navigator walks a kind-filtered projection of whatever the cache holds.
// Membership reflects loaded pages only, not the full backend collection.
type Navigator struct {
	cache *Cache
	kind  domain.Kind

	openID int64
	isOpen bool
}

// NewNavigator creates a navigator over cache restricted to kind
// (domain.KindAll walks every item)
func NewNavigator(cache *Cache, kind domain.Kind) *Navigator {
	return &Navigator{cache: cache, kind: kind}
}

// Kind returns the kind the navigator walks
func (n *Navigator) Kind() domain.Kind {
	return n.kind
}

// SetKind changes the walked kind and closes the navigator
func (n *Navigator) SetKind(kind domain.Kind) {
	n.kind = kind
	n.Close()
}

// Subsequence returns the loaded items of the navigator's kind, in window order
func (n *Navigator) Subsequence() []domain.Item {
	entries := n.cache.Flatten()
	items := make([]domain.Item, 0, len(entries))
	for _, e := range entries {
		if n.kind == domain.KindAll || e.Item.ItemKind() == n.kind {
			items = append(items, e.Item)
		}
	}
	return items
}

// IndexOf returns the position of id in the subsequence, or -1
func (n *Navigator) IndexOf(id int64) int {
	for i, item := range n.Subsequence() {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// Open makes id the current item. Returns false if it is not in the subsequence.
func (n *Navigator) Open(id int64) bool {
	if n.IndexOf(id) < 0 {
		return false
	}
	n.openID = id
	n.isOpen = true
	return true
}

// Close clears the current item
func (n *Navigator) Close() {
	n.openID = 0
	n.isOpen = false
}

// IsOpen reports whether an item is open
func (n *Navigator) IsOpen() bool {
	return n.isOpen
}

// OpenID returns the open item's identifier
func (n *Navigator) OpenID() (int64, bool) {
	return n.openID, n.isOpen
}

// Current returns the open item if it still resolves in the window
func (n *Navigator) Current() (domain.Item, bool) {
	if !n.isOpen {
		return nil, false
	}
	seq := n.Subsequence()
	for _, item := range seq {
		if item.ItemID() == n.openID {
			return item, true
		}
	}
	return nil, false
}

// Position returns the 0-based index of the open item and the subsequence length
func (n *Navigator) Position() (int, int) {
	seq := n.Subsequence()
	if !n.isOpen {
		return -1, len(seq)
	}
	for i, item := range seq {
		if item.ItemID() == n.openID {
			return i, len(seq)
		}
	}
	return -1, len(seq)
}

// Next steps forward. It does nothing at the last item and never wraps.
func (n *Navigator) Next() (domain.Item, bool) {
	return n.step(1)
}

// Previous steps backward. It does nothing at the first item and never wraps.
func (n *Navigator) Previous() (domain.Item, bool) {
	return n.step(-1)
}

func (n *Navigator) step(delta int) (domain.Item, bool) {
	if !n.isOpen {
		return nil, false
	}
	seq := n.Subsequence()
	idx := -1
	for i, item := range seq {
		if item.ItemID() == n.openID {
			idx = i
			break
		}
	}
	target := idx + delta
	if idx < 0 || target < 0 || target >= len(seq) {
		return nil, false
	}
	n.openID = seq[target].ItemID()
	return seq[target], true
}

// Reconcile closes the navigator when the open item has left the window
func (n *Navigator) Reconcile() {
	if n.isOpen && n.IndexOf(n.openID) < 0 {
		n.Close()
	}
}
