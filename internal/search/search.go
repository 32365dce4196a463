package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// Index implements sahilm/fuzzy.Source over the file names of loaded items
type Index struct {
	items      []domain.Item
	lowerNames []string // Lowercased rune by rune, so rune positions match FileName
}

// NewIndex builds an index over items in window order
func NewIndex(items []domain.Item) *Index {
	idx := &Index{
		items:      items,
		lowerNames: make([]string, len(items)),
	}
	for i, item := range items {
		idx.lowerNames[i] = strings.Map(unicode.ToLower, item.Common().FileName)
	}
	return idx
}

// String returns the lowercase file name at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerNames[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Result is one find-in-window match
type Result struct {
	Item           domain.Item
	MatchedIndexes []int // Rune positions in the file name, for highlighting
	Score          int   // Higher is better
}

// Find returns items whose file name fuzzily matches query, best first.
// A numeric query also matches the item identifier exactly.
func (idx *Index) Find(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	results := make([]Result, 0, len(matches)+1)

	if id, err := domain.ParseIdentifier(query); err == nil {
		for _, item := range idx.items {
			if item.ItemID() == id {
				results = append(results, Result{Item: item, Score: int(^uint(0) >> 1)})
				break
			}
		}
	}

	for _, m := range matches {
		if len(results) > 0 && results[0].Item.ItemID() == idx.items[m.Index].ItemID() {
			continue
		}
		results = append(results, Result{
			Item:           idx.items[m.Index],
			MatchedIndexes: runeIndexes(idx.lowerNames[m.Index], m.MatchedIndexes),
			Score:          m.Score,
		})
	}
	return results
}

// runeIndexes converts the byte offsets fuzzy reports into rune positions
func runeIndexes(s string, offsets []int) []int {
	out := make([]int, 0, len(offsets))
	pos, prev := 0, 0
	for _, off := range offsets {
		if off < prev || off > len(s) {
			continue
		}
		pos += utf8.RuneCountInString(s[prev:off])
		prev = off
		out = append(out, pos)
	}
	return out
}

// Record is a jump target shown in the history modal
type Record struct {
	ID       int64
	Label    string
	Detail   string
	Bookmark bool
}

// searchText is what the history filter matches against
func (r Record) searchText() string {
	return fmt.Sprintf("%d %s", r.ID, r.Label)
}

// RecordsFrom merges bookmarks and recent jumps, bookmarks first. A jump to
// a bookmarked item is listed once, as the bookmark.
func RecordsFrom(bookmarks []domain.Bookmark, jumps []domain.JumpRecord) []Record {
	records := make([]Record, 0, len(bookmarks)+len(jumps))
	seen := make(map[int64]bool, len(bookmarks))

	for _, b := range bookmarks {
		seen[b.ID] = true
		records = append(records, Record{
			ID:       b.ID,
			Label:    b.Label,
			Detail:   b.Kind.Label(),
			Bookmark: true,
		})
	}
	for _, j := range jumps {
		if seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		records = append(records, Record{
			ID:     j.ID,
			Label:  j.FileName,
			Detail: fmt.Sprintf("#%d in %s", j.GlobalIndex, j.FilterKey),
		})
	}
	return records
}

// FilterRecords keeps records matching query, ranked by edit distance.
// An empty query returns records unchanged.
func FilterRecords(query string, records []Record) []Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.searchText()
	}

	ranks := lfuzzy.RankFindFold(query, texts)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	filtered := make([]Record, len(ranks))
	for i, r := range ranks {
		filtered[i] = records[r.OriginalIndex]
	}
	return filtered
}
