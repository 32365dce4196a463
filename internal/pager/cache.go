package pager

import (
	"sort"
	"sync"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// Entry is one flattened cache item with its derived position
type Entry struct {
	Item        domain.Item
	PageIndex   int
	Offset      int
	GlobalIndex int // 1-based
}

// Cache is the sparse window of fetched pages for a single filter set.
// Only the Coordinator writes to it; readers may observe it between writes.
type Cache struct {
	mu       sync.RWMutex
	pageSize int
	pages    map[int]*domain.Page

	totalCount int
	totalPages int
}

// NewCache creates an empty cache for the given page size
func NewCache(pageSize int) *Cache {
	return &Cache{
		pageSize: pageSize,
		pages:    make(map[int]*domain.Page),
	}
}

// PageSize returns the fixed page size used for global index math
func (c *Cache) PageSize() int {
	return c.pageSize
}

// Has reports whether the page index is loaded
func (c *Cache) Has(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.pages[index]
	return ok
}

// Get returns the page at index, if loaded
func (c *Cache) Get(index int) (*domain.Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pages[index]
	return p, ok
}

// Insert stores a page, overwriting any page already at that index.
// The page's totals become the cache's totals.
func (c *Cache) Insert(page *domain.Page) {
	if page == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(page)
}

// Replace drops every loaded page and stores page as the only entry.
// Readers never see the empty intermediate state.
func (c *Cache) Replace(page *domain.Page) {
	if page == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[int]*domain.Page)
	c.insertLocked(page)
}

func (c *Cache) insertLocked(page *domain.Page) {
	c.pages[page.Index] = page
	c.totalCount = page.TotalCount
	c.totalPages = page.TotalPages
}

// Clear drops all pages and totals
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[int]*domain.Page)
	c.totalCount = 0
	c.totalPages = 0
}

// LowestLoaded returns the smallest loaded page index
func (c *Cache) LowestLoaded() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lowest, found := 0, false
	for idx := range c.pages {
		if !found || idx < lowest {
			lowest, found = idx, true
		}
	}
	return lowest, found
}

// HighestLoaded returns the largest loaded page index
func (c *Cache) HighestLoaded() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	highest, found := 0, false
	for idx := range c.pages {
		if !found || idx > highest {
			highest, found = idx, true
		}
	}
	return highest, found
}

// Totals returns the totals reported by the most recent insert
func (c *Cache) Totals() (totalCount, totalPages int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalCount, c.totalPages
}

// Len returns the number of loaded pages
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Pages returns the loaded page indices in ascending order
func (c *Cache) Pages() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedIndicesLocked()
}

func (c *Cache) sortedIndicesLocked() []int {
	indices := make([]int, 0, len(c.pages))
	for idx := range c.pages {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Flatten concatenates loaded pages in ascending page order, preserving the
// stored order within each page
func (c *Cache) Flatten() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	for _, p := range c.pages {
		n += len(p.Items)
	}
	entries := make([]Entry, 0, n)
	for _, idx := range c.sortedIndicesLocked() {
		for offset, item := range c.pages[idx].Items {
			entries = append(entries, Entry{
				Item:        item,
				PageIndex:   idx,
				Offset:      offset,
				GlobalIndex: domain.GlobalIndex(idx, c.pageSize, offset),
			})
		}
	}
	return entries
}

// Find returns the loaded entry for an item identifier
func (c *Cache) Find(id int64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for idx, p := range c.pages {
		for offset, item := range p.Items {
			if item.ItemID() == id {
				return Entry{
					Item:        item,
					PageIndex:   idx,
					Offset:      offset,
					GlobalIndex: domain.GlobalIndex(idx, c.pageSize, offset),
				}, true
			}
		}
	}
	return Entry{}, false
}
