package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/search"
)

// window builds entries for consecutive pages, with identifiers equal to
// their 1-based global index
func window(firstPage, pages, pageSize int) []pager.Entry {
	var entries []pager.Entry
	for p := firstPage; p < firstPage+pages; p++ {
		for off := 0; off < pageSize; off++ {
			global := p*pageSize + off + 1
			entries = append(entries, pager.Entry{
				Item: &domain.ImageItem{Base: domain.Base{
					ID:       int64(global),
					FileName: fmt.Sprintf("IMG_%04d.jpg", global),
				}},
				PageIndex:   p,
				Offset:      off,
				GlobalIndex: global,
			})
		}
	}
	return entries
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGallerySentinelVisibility(t *testing.T) {
	g := NewGallery()
	g.SetSize(60, 10) // 6 visible rows
	g.SetEntries(window(1, 1, 48), true, true)

	if g.MaxVisible() != 6 {
		t.Fatalf("MaxVisible() = %d, want 6", g.MaxVisible())
	}
	if !g.TopSentinelVisible() {
		t.Error("top sentinel should be visible at offset 0")
	}
	if g.BottomSentinelVisible() {
		t.Error("bottom sentinel should be off screen at offset 0")
	}

	g.Update(runeKey("G"))

	if g.Cursor() != 47 {
		t.Fatalf("Cursor() = %d, want 47", g.Cursor())
	}
	if !g.BottomSentinelVisible() {
		t.Error("bottom sentinel should be visible with the last item selected")
	}
	if g.TopSentinelVisible() {
		t.Error("top sentinel should be off screen at the bottom")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyHome})
	if !g.TopSentinelVisible() || g.Offset() != 0 {
		t.Errorf("home: top visible = %v, offset = %d", g.TopSentinelVisible(), g.Offset())
	}
}

func TestGalleryNoSentinelsAtEdges(t *testing.T) {
	g := NewGallery()
	g.SetSize(60, 10)
	g.SetEntries(window(0, 1, 4), false, false)

	if g.TopSentinelVisible() || g.BottomSentinelVisible() {
		t.Error("sentinels visible with no pages beyond the window")
	}

	g.SetEntries(nil, true, true)
	if g.HasMoreAbove() || g.HasMoreBelow() {
		t.Error("an empty window should not report more pages")
	}
}

func TestGalleryPrependKeepsRow(t *testing.T) {
	g := NewGallery()
	g.SetSize(60, 10)
	g.SetEntries(window(1, 1, 48), true, true)

	for i := 0; i < 3; i++ {
		g.Update(runeKey("j"))
	}
	before, _ := g.Selected()
	screenRow := g.Cursor() + 1 - g.Offset() // +1 for the top sentinel

	g.SetEntries(window(0, 2, 48), false, true)

	after, ok := g.Selected()
	if !ok || after.Item.ItemID() != before.Item.ItemID() {
		t.Fatalf("selected = %v, want item %d", after.Item, before.Item.ItemID())
	}
	if got := g.Cursor() - g.Offset(); got != screenRow {
		t.Errorf("screen row = %d, want %d", got, screenRow)
	}
}

func TestGalleryScrollTo(t *testing.T) {
	g := NewGallery()
	g.SetSize(60, 10)
	g.SetEntries(window(0, 2, 48), false, false)

	if !g.ScrollTo(50) {
		t.Fatal("ScrollTo(50) = false, want true")
	}
	if g.Cursor() != 49 {
		t.Errorf("Cursor() = %d, want 49", g.Cursor())
	}
	if g.Offset() != 46 {
		t.Errorf("Offset() = %d, want 46 (centered)", g.Offset())
	}

	if g.ScrollTo(500) {
		t.Error("ScrollTo(500) = true for an item outside the window")
	}
}

func TestGalleryFind(t *testing.T) {
	g := NewGallery()
	g.SetSize(60, 10)
	entries := window(0, 1, 10)
	g.SetEntries(entries, false, false)

	results := []search.Result{
		{Item: entries[5].Item, MatchedIndexes: []int{0, 1}},
		{Item: entries[2].Item},
		{Item: &domain.ImageItem{Base: domain.Base{ID: 999}}},
	}
	g.Find("img", results)

	if g.MatchCount() != 2 {
		t.Fatalf("MatchCount() = %d, want 2", g.MatchCount())
	}
	if g.Cursor() != 5 {
		t.Fatalf("Cursor() = %d, want best match 5", g.Cursor())
	}

	tests := []int{2, 5}
	for i, want := range tests {
		if !g.FindNext() {
			t.Fatalf("FindNext() #%d = false", i)
		}
		if g.Cursor() != want {
			t.Errorf("FindNext() #%d cursor = %d, want %d", i, g.Cursor(), want)
		}
	}

	g.SetEntries(entries, false, false)
	if g.FindQuery() != "" || g.MatchCount() != 0 {
		t.Error("SetEntries should clear find state")
	}
	if g.FindNext() {
		t.Error("FindNext() with no matches = true")
	}
}

func TestGalleryUpdate(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"down", []tea.KeyMsg{runeKey("j"), runeKey("j")}, 2},
		{"up clamps", []tea.KeyMsg{runeKey("k")}, 0},
		{"end", []tea.KeyMsg{{Type: tea.KeyEnd}}, 19},
		{"half page", []tea.KeyMsg{{Type: tea.KeyCtrlD}}, 3},
		{"half page back", []tea.KeyMsg{{Type: tea.KeyCtrlD}, {Type: tea.KeyCtrlU}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGallery()
			g.SetSize(60, 10)
			g.SetEntries(window(0, 1, 20), false, false)
			for _, k := range tt.keys {
				g.Update(k)
			}
			if g.Cursor() != tt.want {
				t.Errorf("Cursor() = %d, want %d", g.Cursor(), tt.want)
			}
		})
	}
}
