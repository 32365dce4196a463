package domain

import "strconv"

// FilterSet is the cache partition key. Any change invalidates the page cache.
type FilterSet struct {
	Kind           Kind // KindAll for every kind
	ExcludeScanned bool // Hide scanned-document images
}

// Key returns a stable identity string, e.g. "image|noscan"
func (f FilterSet) Key() string {
	key := string(f.Kind)
	if key == "" {
		key = "all"
	}
	if f.ExcludeScanned {
		key += "|noscan"
	}
	return key
}

// Page is one backend batch of items
type Page struct {
	Index      int // 0-based
	Items      []Item
	TotalCount int
	TotalPages int
}

// IsLast reports whether this is the final page of the collection
func (p *Page) IsLast() bool {
	return p.Index >= p.TotalPages-1
}

// PageRequest asks the provider for one page. Index is 0-based here; the
// HTTP client converts it to the API's 1-based page parameter.
type PageRequest struct {
	Index    int
	PageSize int
	Filter   FilterSet
}

// Position locates an item inside the filtered collection
type Position struct {
	Page   int // 0-based page index
	Offset int // 0-based offset within the page
}

// GlobalIndex returns the 1-based position of an item in the whole collection
func GlobalIndex(pageIndex, pageSize, offset int) int {
	return pageIndex*pageSize + offset + 1
}

// GlobalIndex returns the 1-based position for this page/offset pair
func (p Position) GlobalIndex(pageSize int) int {
	return GlobalIndex(p.Page, pageSize, p.Offset)
}

// ParseIdentifier validates user input as a positive item identifier
func ParseIdentifier(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidIdentifier
	}
	return id, nil
}
