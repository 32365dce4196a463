package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/search"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// Layout constants for the gallery
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Title line plus the find bar
	headerLines = 1
	footerLines = 1
)

// Gallery is the scrollable window over the loaded pages. Above and below
// the items it renders a sentinel row whenever more pages exist in that
// direction; the host polls TopSentinelVisible and BottomSentinelVisible
// after every change to drive the scroll triggers.
type Gallery struct {
	entries []pager.Entry

	// More pages exist beyond the loaded window
	hasAbove bool
	hasBelow bool

	// Selection (cursor indexes entries, offset indexes rows)
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	// Loading state for the sentinel rows
	loadingAbove bool
	loadingBelow bool
	spinner      string

	bookmarks map[int64]bool

	// Find-in-window state
	findQuery string
	matches   []int         // entry indices, best first
	matchPos  int           // index into matches
	matchIdx  map[int][]int // entry index -> matched rune positions
}

// NewGallery creates an empty gallery
func NewGallery() *Gallery {
	return &Gallery{
		bookmarks: make(map[int64]bool),
		focused:   true,
	}
}

// SetSize sets the outer dimensions including the border
func (g *Gallery) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
	g.ensureVisible()
}

func (g *Gallery) SetTitle(title string)      { g.title = title }
func (g *Gallery) SetFocused(focused bool)    { g.focused = focused }
func (g *Gallery) SetSpinner(frame string)    { g.spinner = frame }
func (g *Gallery) MaxVisible() int            { return g.maxVisible }
func (g *Gallery) Offset() int                { return g.offset }
func (g *Gallery) Cursor() int                { return g.cursor }
func (g *Gallery) Len() int                   { return len(g.entries) }
func (g *Gallery) FindQuery() string          { return g.findQuery }
func (g *Gallery) MatchCount() int            { return len(g.matches) }
func (g *Gallery) Entries() []pager.Entry     { return g.entries }
func (g *Gallery) HasMoreAbove() bool         { return g.hasAbove }
func (g *Gallery) HasMoreBelow() bool         { return g.hasBelow }
func (g *Gallery) IsBookmarked(id int64) bool { return g.bookmarks[id] }

// SetEmptyText sets what renders when no items are loaded
func (g *Gallery) SetEmptyText(text string) {
	g.emptyText = text
}

// SetLoading marks which sentinel row shows the spinner
func (g *Gallery) SetLoading(above, below bool) {
	g.loadingAbove = above
	g.loadingBelow = below
}

// SetBookmarks replaces the set of bookmarked identifiers
func (g *Gallery) SetBookmarks(ids []int64) {
	g.bookmarks = make(map[int64]bool, len(ids))
	for _, id := range ids {
		g.bookmarks[id] = true
	}
}

// SetEntries replaces the rows. If the item under the cursor survives, the
// cursor stays on it at the same screen row, so prepending a page does not
// move what the user is looking at.
func (g *Gallery) SetEntries(entries []pager.Entry, hasAbove, hasBelow bool) {
	var anchorID int64
	anchorRow := -1
	if e, ok := g.Selected(); ok {
		anchorID = e.Item.ItemID()
		anchorRow = g.entryRow(g.cursor) - g.offset
	}

	g.entries = entries
	g.hasAbove = hasAbove && len(entries) > 0
	g.hasBelow = hasBelow && len(entries) > 0
	g.clearFind()

	if anchorRow >= 0 {
		if idx := g.indexOf(anchorID); idx >= 0 {
			g.cursor = idx
			g.offset = g.entryRow(idx) - anchorRow
			g.clampOffset()
			return
		}
	}

	if g.cursor >= len(entries) {
		g.cursor = len(entries) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.ensureVisible()
}

// Selected returns the entry under the cursor
func (g *Gallery) Selected() (pager.Entry, bool) {
	if g.cursor < 0 || g.cursor >= len(g.entries) {
		return pager.Entry{}, false
	}
	return g.entries[g.cursor], true
}

// ScrollTo moves the cursor to id and centers it. Returns false if the item
// is not in the window.
func (g *Gallery) ScrollTo(id int64) bool {
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	g.cursor = idx
	g.offset = g.entryRow(idx) - g.maxVisible/2
	g.clampOffset()
	return true
}

// TopSentinelVisible reports whether the "more above" row is on screen
func (g *Gallery) TopSentinelVisible() bool {
	return g.hasAbove && g.maxVisible > 0 && g.offset == 0
}

// Scrollable reports whether the rows overflow the viewport
func (g *Gallery) Scrollable() bool {
	return g.rowCount() > g.maxVisible
}

// BottomSentinelVisible reports whether the "more below" row is on screen
func (g *Gallery) BottomSentinelVisible() bool {
	if !g.hasBelow || g.maxVisible <= 0 {
		return false
	}
	return g.rowCount()-1 < g.offset+g.maxVisible
}

// Update handles cursor movement. Returns true if the cursor moved.
func (g *Gallery) Update(msg tea.Msg) (*Gallery, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(g.entries) == 0 {
		return g, false
	}

	before, beforeOffset := g.cursor, g.offset
	count := len(g.entries)
	half := max(g.maxVisible/2, 1)

	switch keyMsg.String() {
	case "j", "down":
		if g.cursor < count-1 {
			g.cursor++
		}
	case "k", "up":
		if g.cursor > 0 {
			g.cursor--
		}
	case "home":
		g.cursor = 0
	case "G", "end":
		g.cursor = count - 1
	case "ctrl+d", "pgdown":
		g.cursor = min(g.cursor+half, count-1)
	case "ctrl+u", "pgup":
		g.cursor = max(g.cursor-half, 0)
	default:
		return g, false
	}

	g.ensureVisible()
	return g, g.cursor != before || g.offset != beforeOffset
}

// Find highlights results and moves the cursor to the best one. Results
// must come from an index built over Entries in order.
func (g *Gallery) Find(query string, results []search.Result) {
	g.clearFind()
	g.findQuery = query
	for _, r := range results {
		idx := g.indexOf(r.Item.ItemID())
		if idx < 0 {
			continue
		}
		g.matches = append(g.matches, idx)
		g.matchIdx[idx] = r.MatchedIndexes
	}
	if len(g.matches) > 0 {
		g.cursor = g.matches[0]
		g.ensureVisible()
	}
}

// FindNext advances to the next match, wrapping
func (g *Gallery) FindNext() bool {
	if len(g.matches) == 0 {
		return false
	}
	g.matchPos = (g.matchPos + 1) % len(g.matches)
	g.cursor = g.matches[g.matchPos]
	g.ensureVisible()
	return true
}

// ClearFind drops the find highlight
func (g *Gallery) ClearFind() {
	g.clearFind()
}

func (g *Gallery) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderContent())
}

// Internal methods

func (g *Gallery) topRows() int {
	if g.hasAbove {
		return 1
	}
	return 0
}

func (g *Gallery) rowCount() int {
	n := len(g.entries) + g.topRows()
	if g.hasBelow {
		n++
	}
	return n
}

func (g *Gallery) entryRow(i int) int {
	return i + g.topRows()
}

func (g *Gallery) indexOf(id int64) int {
	for i, e := range g.entries {
		if e.Item.ItemID() == id {
			return i
		}
	}
	return -1
}

func (g *Gallery) recalcMaxVisible() {
	g.maxVisible = g.height - BorderHeight - headerLines - footerLines
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

func (g *Gallery) ensureVisible() {
	if g.maxVisible <= 0 || len(g.entries) == 0 {
		g.offset = 0
		return
	}

	row := g.entryRow(g.cursor)
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+g.maxVisible {
		g.offset = row - g.maxVisible + 1
	}

	// The edge items pull their sentinel into view with them
	if g.cursor == 0 {
		g.offset = 0
	}
	if g.cursor == len(g.entries)-1 {
		if last := g.rowCount() - 1; last >= g.offset+g.maxVisible {
			g.offset = last - g.maxVisible + 1
		}
	}
	g.clampOffset()
}

func (g *Gallery) clampOffset() {
	maxOffset := g.rowCount() - g.maxVisible
	if g.offset > maxOffset {
		g.offset = maxOffset
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

func (g *Gallery) clearFind() {
	g.findQuery = ""
	g.matches = nil
	g.matchPos = 0
	g.matchIdx = make(map[int][]int)
}

// Rendering

func (g *Gallery) renderContent() string {
	itemWidth := g.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(g.title, itemWidth))

	if len(g.entries) == 0 {
		return titleLine + "\n" + " " + "\n" + g.emptyText
	}

	indexWidth := len(fmt.Sprintf("%d", g.entries[len(g.entries)-1].GlobalIndex))

	var lines []string
	end := min(g.offset+g.maxVisible, g.rowCount())
	for row := g.offset; row < end; row++ {
		switch {
		case g.hasAbove && row == 0:
			lines = append(lines, g.renderSentinel(true, itemWidth))
		case g.hasBelow && row == g.rowCount()-1:
			lines = append(lines, g.renderSentinel(false, itemWidth))
		default:
			i := row - g.topRows()
			lines = append(lines, g.renderEntry(i, indexWidth, itemWidth))
		}
	}

	footer := " "
	if g.findQuery != "" {
		footer = styles.FilterPromptStyle.Render("/ ") + g.findQuery +
			styles.DimStyle.Render(fmt.Sprintf(" [%d match", len(g.matches)))
		if len(g.matches) != 1 {
			footer += styles.DimStyle.Render("es")
		}
		footer += styles.DimStyle.Render("]")
	}

	return titleLine + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (g *Gallery) renderSentinel(above bool, width int) string {
	var text string
	switch {
	case above && g.loadingAbove:
		text = g.spinner + " Loading earlier items..."
	case above:
		text = fmt.Sprintf("↑ more before #%d", g.entries[0].GlobalIndex)
	case g.loadingBelow:
		text = g.spinner + " Loading more items..."
	default:
		text = fmt.Sprintf("↓ more after #%d", g.entries[len(g.entries)-1].GlobalIndex)
	}
	return " " + styles.DimStyle.Render(styles.Truncate(text, width-2))
}

func (g *Gallery) renderEntry(i, indexWidth, width int) string {
	e := g.entries[i]
	selected := i == g.cursor
	base := e.Item.Common()

	indexFg := styles.DimGray
	kindFg := styles.KindColor(string(e.Item.ItemKind()))
	index := fmt.Sprintf("%*d ", indexWidth, e.GlobalIndex)

	mark := "  "
	markFg := styles.Amber
	if g.bookmarks[e.Item.ItemID()] {
		mark = styles.BookmarkChar + " "
	}

	desc := e.Item.Description()
	descFg := styles.DimGray

	// index + kind marker + bookmark + name + gap + description + margins
	available := width - lipgloss.Width(index) - 2 - 2 - 2
	if desc != "" {
		available -= lipgloss.Width(desc) + 1
	}
	name := styles.Truncate(base.FileName, max(available, 5))

	parts := []styles.RowPart{
		{Text: index, Foreground: &indexFg},
		{Text: "▪ ", Foreground: &kindFg},
		{Text: mark, Foreground: &markFg},
	}
	parts = append(parts, g.nameParts(i, name)...)
	if desc != "" {
		gap := max(width-2-lipgloss.Width(index)-4-lipgloss.Width(name)-lipgloss.Width(desc), 1)
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap) + desc, Foreground: &descFg})
	}

	return styles.RenderListRow(parts, selected, width)
}

// nameParts splits the file name so matched runes render highlighted
func (g *Gallery) nameParts(i int, name string) []styles.RowPart {
	matched := g.matchIdx[i]
	if len(matched) == 0 {
		return []styles.RowPart{{Text: name}}
	}

	hit := make(map[int]bool, len(matched))
	for _, m := range matched {
		hit[m] = true
	}

	accent := styles.Amber
	var parts []styles.RowPart
	var run []rune
	runHit := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		part := styles.RowPart{Text: string(run)}
		if runHit {
			part.Foreground = &accent
		}
		parts = append(parts, part)
		run = run[:0]
	}

	for pos, r := range []rune(name) {
		if hit[pos] != runHit {
			flush()
			runHit = hit[pos]
		}
		run = append(run, r)
	}
	flush()
	return parts
}
