package domain

import "time"

// JumpRecord is one entry in the jump history
type JumpRecord struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	Kind        Kind      `json:"kind"`
	FilterKey   string    `json:"filter_key"`
	GlobalIndex int       `json:"global_index"`
	JumpedAt    time.Time `json:"jumped_at"`
}

// Bookmark pins an item identifier for later jumps
type Bookmark struct {
	ID      int64     `json:"id"`
	Label   string    `json:"label"`
	Kind    Kind      `json:"kind"`
	AddedAt time.Time `json:"added_at"`
}

// HistoryStore persists jump history and bookmarks (BoltDB + memory).
// It never holds page contents; the page cache lives only in memory.
type HistoryStore interface {
	// === Jump history ===
	RecordJump(rec JumpRecord) error
	RecentJumps(limit int) []JumpRecord

	// === Bookmarks ===
	AddBookmark(b Bookmark) error
	RemoveBookmark(id int64) error
	IsBookmarked(id int64) bool
	Bookmarks() []Bookmark

	Close() error
}
