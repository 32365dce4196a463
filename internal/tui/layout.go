package tui

// Layout proportions
const (
	InspectorColumnPercent = 35
	MinGalleryWidth        = 40
	MinInspectorWidth      = 28

	// Tabs line on top, footer line below
	ChromeHeight = 2
)

// columnLayout holds calculated widths for the View
type columnLayout struct {
	galleryWidth   int
	inspectorWidth int // 0 if not shown
	contentHeight  int
}

// calculateLayout splits the terminal between gallery and inspector. The
// inspector is dropped when both would not fit.
func (m Model) calculateLayout() columnLayout {
	layout := columnLayout{
		galleryWidth:  m.Width,
		contentHeight: max(m.Height-ChromeHeight, 3),
	}
	if !m.ShowInspector {
		return layout
	}

	inspector := max(m.Width*InspectorColumnPercent/100, MinInspectorWidth)
	if m.Width-inspector < MinGalleryWidth {
		return layout
	}
	layout.inspectorWidth = inspector
	layout.galleryWidth = m.Width - inspector
	return layout
}

// updateLayout pushes sizes to every component
func (m *Model) updateLayout() {
	layout := m.calculateLayout()
	m.Gallery.SetSize(layout.galleryWidth, layout.contentHeight)
	m.Inspector.SetSize(layout.inspectorWidth, layout.contentHeight)
	m.Lightbox.SetSize(m.Width, m.Height)
}
