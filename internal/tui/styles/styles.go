// Package styles holds the palette and lipgloss styles shared by the
// gallery, the viewer and the modals.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Amber      = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
	Violet     = lipgloss.Color("#8B5CF6")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func rounded(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// Pane borders; the focused pane is amber
var (
	ActiveBorder   = rounded(Amber)
	InactiveBorder = rounded(DimGray)
)

var (
	TitleStyle        = fg(White).Bold(true)
	SubtitleStyle     = fg(LightGray)
	DimStyle          = fg(DimGray)
	AccentStyle       = fg(Amber)
	ErrorStyle        = fg(Red)
	SpinnerStyle      = fg(Amber)
	FilterPromptStyle = fg(Amber).Bold(true)
)

// Kind tabs across the top of the gallery
var (
	TabStyle       = fg(LightGray).Padding(0, 1)
	ActiveTabStyle = fg(White).Background(Amber).Bold(true).Padding(0, 1)
)

var (
	ModalStyle      = rounded(Amber).Padding(1, 2).Background(SlateDark)
	ModalTitleStyle = fg(White).Bold(true).MarginBottom(1)
	DimBadgeStyle   = fg(LightGray).Background(SlateLight).Padding(0, 1)

	// LightboxStyle frames the viewer. Callers recolor the border by kind.
	LightboxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Amber).
			Padding(1, 2)
)

const BookmarkChar = "★"

var BookmarkMark = AccentStyle.Render(BookmarkChar)

var kindColors = map[string]lipgloss.Color{
	"image":    Blue,
	"video":    Violet,
	"audio":    Green,
	"document": Amber,
}

// KindColor returns the marker color for a media kind name
func KindColor(kind string) lipgloss.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return LightGray
}

// Truncate shortens s to width display cells, ending in "..." when there
// is room for it.
func Truncate(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case lipgloss.Width(s) <= width:
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-3 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad right-pads s with spaces to width display cells
func Pad(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}

// RowPart is one span of a list row. A nil Foreground takes the row default.
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow joins parts into a row width cells wide with a one cell
// margin on each side. Every span is styled on its own so a selected row
// keeps its background across the ANSI resets between spans.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	base := fg(LightGray)
	if selected {
		base = fg(White).Background(SlateLight)
	}

	var b strings.Builder
	used := 0
	for _, p := range parts {
		style := base
		if p.Foreground != nil {
			style = style.Foreground(*p.Foreground)
		}
		b.WriteString(style.Render(p.Text))
		used += lipgloss.Width(p.Text)
	}

	margin := base.Render(" ")
	if fill := width - used - 2; fill > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", fill)))
	}
	return margin + b.String() + margin
}
