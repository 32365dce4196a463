package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// Zoom limits for the lightbox
const (
	MinZoom  = 1.0
	MaxZoom  = 4.0
	ZoomStep = 0.25

	// Pan distance per key press, in preview cells
	PanStep = 2
)

// ViewState is the per-item zoom, rotation and pan of the lightbox
type ViewState struct {
	Zoom     float64
	Rotation int // degrees, one of 0, 90, 180, 270
	PanX     int
	PanY     int
}

// DefaultViewState is the state every newly opened item starts from
func DefaultViewState() ViewState {
	return ViewState{Zoom: MinZoom}
}

// Lightbox shows one item of the navigator's subsequence full screen.
// Zoom, rotation and pan belong to the open item and reset whenever a
// different item is shown.
type Lightbox struct {
	visible bool
	item    domain.Item
	pos     int // 0-based position in the subsequence
	total   int
	view    ViewState

	width  int
	height int
}

// NewLightbox creates a hidden lightbox
func NewLightbox() Lightbox {
	return Lightbox{view: DefaultViewState()}
}

// Show displays item at pos of total
func (l *Lightbox) Show(item domain.Item, pos, total int) {
	l.visible = true
	l.SetItem(item, pos, total)
}

// SetItem swaps the displayed item, resetting the view when its identifier
// changes
func (l *Lightbox) SetItem(item domain.Item, pos, total int) {
	if l.item == nil || item == nil || l.item.ItemID() != item.ItemID() {
		l.view = DefaultViewState()
	}
	l.item = item
	l.pos = pos
	l.total = total
}

// Hide dismisses the lightbox
func (l *Lightbox) Hide() {
	l.visible = false
	l.item = nil
	l.view = DefaultViewState()
}

func (l Lightbox) IsVisible() bool   { return l.visible }
func (l Lightbox) Item() domain.Item { return l.item }
func (l Lightbox) State() ViewState  { return l.view }

// SetSize sets the available screen area
func (l *Lightbox) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// ZoomIn enlarges by one step up to MaxZoom
func (l *Lightbox) ZoomIn() {
	l.view.Zoom = min(l.view.Zoom+ZoomStep, MaxZoom)
}

// ZoomOut shrinks by one step. Pan is dropped on returning to fit.
func (l *Lightbox) ZoomOut() {
	l.view.Zoom = max(l.view.Zoom-ZoomStep, MinZoom)
	if l.view.Zoom == MinZoom {
		l.view.PanX, l.view.PanY = 0, 0
	}
	l.clampPan()
}

// Rotate turns the item a quarter clockwise
func (l *Lightbox) Rotate() {
	l.view.Rotation = (l.view.Rotation + 90) % 360
}

// Pan moves the viewport. Ignored unless zoomed in.
func (l *Lightbox) Pan(dx, dy int) {
	if l.view.Zoom <= MinZoom {
		return
	}
	l.view.PanX += dx * PanStep
	l.view.PanY += dy * PanStep
	l.clampPan()
}

// ResetView restores the default zoom, rotation and pan
func (l *Lightbox) ResetView() {
	l.view = DefaultViewState()
}

// panLimit is how far the zoomed preview may move from center on each axis
func (l *Lightbox) panLimit() (int, int) {
	w, h := l.previewSize(MinZoom)
	extra := l.view.Zoom - MinZoom
	return int(float64(w) * extra / 2), int(float64(h) * extra / 2)
}

func (l *Lightbox) clampPan() {
	maxX, maxY := l.panLimit()
	l.view.PanX = max(-maxX, min(l.view.PanX, maxX))
	l.view.PanY = max(-maxY, min(l.view.PanY, maxY))
}

// previewSize returns the size of the placeholder frame at zoom. Quarter
// turns swap the axes.
func (l *Lightbox) previewSize(zoom float64) (int, int) {
	w, h := 24, 8
	if l.view.Rotation == 90 || l.view.Rotation == 270 {
		w, h = 16, 12
	}
	return int(float64(w) * zoom), int(float64(h) * zoom)
}

// View renders the lightbox
func (l Lightbox) View() string {
	if !l.visible || l.item == nil {
		return ""
	}

	base := l.item.Common()
	innerWidth := max(l.width-8, 20)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TitleStyle.Render(styles.Truncate(base.FileName, innerWidth-16)),
		"  ",
		styles.DimBadgeStyle.Render(fmt.Sprintf("%d / %d", l.pos+1, l.total)),
	)

	status := fmt.Sprintf("#%d · %s · zoom %d%% · %d°",
		l.item.ItemID(), l.item.Description(), int(l.view.Zoom*100), l.view.Rotation)
	if l.view.PanX != 0 || l.view.PanY != 0 {
		status += fmt.Sprintf(" · pan %+d,%+d", l.view.PanX, l.view.PanY)
	}

	// The preview is clipped to what fits below the header and status
	previewHeight := max(l.height-10, 4)
	preview := lipgloss.Place(innerWidth, previewHeight,
		lipgloss.Center, lipgloss.Center, l.renderPreview(innerWidth, previewHeight))

	var hints []string
	if l.pos > 0 {
		hints = append(hints, "← previous")
	}
	if l.pos < l.total-1 {
		hints = append(hints, "→ next")
	}
	hints = append(hints, "+/- zoom", "r rotate", "esc close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		styles.SubtitleStyle.Render(styles.Truncate(status, innerWidth)),
		preview,
		styles.DimStyle.Render(strings.Join(hints, "  ")),
	)

	return styles.LightboxStyle.Render(content)
}

// renderPreview draws a frame standing in for the media, offset by pan and
// cropped to the viewport
func (l Lightbox) renderPreview(maxWidth, maxHeight int) string {
	w, h := l.previewSize(l.view.Zoom)
	w = min(w, maxWidth-2)
	h = min(h, maxHeight-2)
	if w < 4 || h < 2 {
		return ""
	}

	label := string(l.item.ItemKind())
	if img, ok := l.item.(*domain.ImageItem); ok && img.Scanned {
		label = "scan"
	}
	arrow := [...]string{"↑", "→", "↓", "←"}[l.view.Rotation/90]

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.KindColor(string(l.item.ItemKind()))).
		Width(w).
		Height(h).
		Align(lipgloss.Center, lipgloss.Center).
		Render(arrow + " " + label)

	return lipgloss.NewStyle().
		MarginLeft(max(l.view.PanX, 0)).
		MarginRight(max(-l.view.PanX, 0)).
		MarginTop(max(l.view.PanY, 0)).
		MarginBottom(max(-l.view.PanY, 0)).
		MaxWidth(maxWidth).
		MaxHeight(maxHeight).
		Render(frame)
}
