package domain

import (
	"context"
)

// PageProvider is the corpus backend as seen by the pagination engine.
// Implemented by backend.Client and by in-memory fakes in tests.
type PageProvider interface {
	// FetchPage returns one page of the filtered collection
	FetchPage(ctx context.Context, req PageRequest) (*Page, error)

	// LocateItem resolves where an item currently sits under the given filter.
	// Returns ErrItemNotFound when the item is absent from that filtered view.
	LocateItem(ctx context.Context, id int64, pageSize int, filter FilterSet) (Position, error)

	// GetItem returns a single item by identifier
	GetItem(ctx context.Context, id int64) (Item, error)
}
