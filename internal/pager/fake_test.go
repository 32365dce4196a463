package pager

import (
	"context"
	"fmt"
	"sync"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// fakeProvider serves a fixed in-memory collection with the same filtering
// and paging rules as the HTTP API
type fakeProvider struct {
	mu    sync.Mutex
	items []domain.Item

	fetchErr  error
	locateErr error
	gate      chan struct{} // when set, FetchPage blocks until it is closed

	fetches []domain.PageRequest
	locates int
	gets    int
}

func newFakeProvider(items []domain.Item) *fakeProvider {
	return &fakeProvider{items: items}
}

func (f *fakeProvider) filtered(filter domain.FilterSet) []domain.Item {
	var out []domain.Item
	for _, item := range f.items {
		if filter.Kind != domain.KindAll && item.ItemKind() != filter.Kind {
			continue
		}
		if img, ok := item.(*domain.ImageItem); ok && filter.ExcludeScanned && img.Scanned {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (f *fakeProvider) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.Page, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, req)
	gate := f.gate
	err := f.fetchErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.filtered(req.Filter)
	totalPages := (len(all) + req.PageSize - 1) / req.PageSize
	start := req.Index * req.PageSize
	end := min(start+req.PageSize, len(all))
	var items []domain.Item
	if start < len(all) {
		items = append(items, all[start:end]...)
	}
	return &domain.Page{
		Index:      req.Index,
		Items:      items,
		TotalCount: len(all),
		TotalPages: totalPages,
	}, nil
}

func (f *fakeProvider) LocateItem(ctx context.Context, id int64, pageSize int, filter domain.FilterSet) (domain.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locates++
	if f.locateErr != nil {
		return domain.Position{}, f.locateErr
	}
	for i, item := range f.filtered(filter) {
		if item.ItemID() == id {
			return domain.Position{Page: i / pageSize, Offset: i % pageSize}, nil
		}
	}
	return domain.Position{}, domain.ErrItemNotFound
}

func (f *fakeProvider) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	for _, item := range f.items {
		if item.ItemID() == id {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *fakeProvider) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func image(id int64) domain.Item {
	return &domain.ImageItem{
		Base:   domain.Base{ID: id, FileName: fmt.Sprintf("IMG_%04d.jpg", id)},
		Width:  1024,
		Height: 768,
	}
}

func video(id int64) domain.Item {
	return &domain.VideoItem{Base: domain.Base{ID: id, FileName: fmt.Sprintf("clip_%04d.mp4", id)}}
}

// images returns n image items with identifiers 1..n
func images(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = image(int64(i + 1))
	}
	return items
}

func makePage(index, pageSize, totalPages int, firstID int64) *domain.Page {
	items := make([]domain.Item, pageSize)
	for i := range items {
		items[i] = image(firstID + int64(i))
	}
	return &domain.Page{
		Index:      index,
		Items:      items,
		TotalCount: totalPages * pageSize,
		TotalPages: totalPages,
	}
}
