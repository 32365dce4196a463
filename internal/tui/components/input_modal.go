package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// InputModal is a single-line prompt with an inline error line
type InputModal struct {
	visible bool
	title   string
	hint    string
	errText string
	busy    bool
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal(placeholder string, charLimit int) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = 30
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title and an optional hint line
func (m *InputModal) Show(title, hint string) {
	m.visible = true
	m.title = title
	m.hint = hint
	m.errText = ""
	m.busy = false
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.busy = false
	m.input.Blur()
}

// SetError shows msg under the input and keeps the modal open
func (m *InputModal) SetError(msg string) {
	m.errText = msg
	m.busy = false
}

// SetBusy marks a submitted value as in progress
func (m *InputModal) SetBusy(busy bool) {
	m.busy = busy
	if busy {
		m.errText = ""
	}
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// IsBusy returns whether a submitted value is in progress
func (m InputModal) IsBusy() bool {
	return m.busy
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.busy {
				return m, nil, false
			}
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.errText = ""
	}
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 36

	lineStyle := lipgloss.NewStyle().Width(modalWidth).Background(styles.SlateDark)
	titleStyle := lineStyle.Foreground(styles.White).Bold(true)

	spacer := lineStyle.Render("")

	status := styles.DimStyle.Render(m.hint)
	switch {
	case m.busy:
		status = styles.AccentStyle.Render("Looking up...")
	case m.errText != "":
		status = styles.ErrorStyle.Render(styles.Truncate(m.errText, modalWidth))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		spacer,
		lineStyle.Render(m.input.View()),
		spacer,
		lineStyle.Render(status),
	)

	return styles.ModalStyle.Render(content)
}
