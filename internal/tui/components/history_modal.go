package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/search"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

const historyModalRows = 10

// HistoryModal lists bookmarks and recent jumps, filtered as you type
type HistoryModal struct {
	visible  bool
	records  []search.Record
	filtered []search.Record
	cursor   int
	offset   int
	input    textinput.Model
}

// NewHistoryModal creates a new history modal
func NewHistoryModal() HistoryModal {
	ti := textinput.New()
	ti.Placeholder = "filter by ID or name..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.Width = 40

	return HistoryModal{input: ti}
}

// Show displays the modal over records
func (m *HistoryModal) Show(records []search.Record) {
	m.visible = true
	m.records = records
	m.input.SetValue("")
	m.input.Focus()
	m.applyFilter()
}

// Hide dismisses the modal
func (m *HistoryModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m HistoryModal) IsVisible() bool {
	return m.visible
}

// Filtered returns the records currently listed
func (m HistoryModal) Filtered() []search.Record {
	return m.filtered
}

// Update handles input. A non-nil record means the user picked it.
func (m HistoryModal) Update(msg tea.Msg) (HistoryModal, tea.Cmd, *search.Record) {
	if !m.visible {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, nil
		case "enter":
			if len(m.filtered) == 0 {
				return m, nil, nil
			}
			chosen := m.filtered[m.cursor]
			m.Hide()
			return m, nil, &chosen
		case "down", "ctrl+n", "ctrl+j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.ensureVisible()
			}
			return m, nil, nil
		case "up", "ctrl+p", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}
			return m, nil, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
	}
	return m, cmd, nil
}

func (m *HistoryModal) applyFilter() {
	m.filtered = search.FilterRecords(m.input.Value(), m.records)
	m.cursor = 0
	m.offset = 0
}

func (m *HistoryModal) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+historyModalRows {
		m.offset = m.cursor - historyModalRows + 1
	}
}

// View renders the history modal
func (m HistoryModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 52

	var lines []string
	lines = append(lines, styles.ModalTitleStyle.Render("History & Bookmarks"))
	lines = append(lines, m.input.View())
	lines = append(lines, "")

	if len(m.filtered) == 0 {
		msg := "No jumps yet"
		if m.input.Value() != "" {
			msg = "No matches"
		}
		lines = append(lines, styles.DimStyle.Render(msg))
	}

	end := min(m.offset+historyModalRows, len(m.filtered))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRecord(m.filtered[i], i == m.cursor, width))
	}

	if end < len(m.filtered) {
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("↓ %d more", len(m.filtered)-end)))
	}

	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

func (m HistoryModal) renderRecord(r search.Record, selected bool, width int) string {
	mark := "  "
	markFg := styles.Amber
	if r.Bookmark {
		mark = styles.BookmarkChar + " "
	}
	idFg := styles.DimGray
	id := fmt.Sprintf("%-8d", r.ID)

	detailFg := styles.DimGray
	label := styles.Truncate(r.Label, width-lipgloss.Width(id)-lipgloss.Width(r.Detail)-6)
	gap := max(width-2-2-lipgloss.Width(id)-lipgloss.Width(label)-lipgloss.Width(r.Detail), 1)

	parts := []styles.RowPart{
		{Text: mark, Foreground: &markFg},
		{Text: id, Foreground: &idFg},
		{Text: label},
		{Text: strings.Repeat(" ", gap) + r.Detail, Foreground: &detailFg},
	}
	return styles.RenderListRow(parts, selected, width)
}
