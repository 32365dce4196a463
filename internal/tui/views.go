package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// renderTabs renders the kind tabs and the scan toggle on one line
func (m Model) renderTabs() string {
	filter := m.Session.Filter()

	var tabs []string
	for i, k := range domain.Kinds {
		label := fmt.Sprintf("%d %s", i+1, k.Label())
		if k == filter.Kind {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	left := strings.Join(tabs, "")

	scans := styles.DimStyle.Render("x scans shown")
	if filter.ExcludeScanned {
		scans = styles.AccentStyle.Render("x scans hidden")
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(scans)-1, 1)
	return left + strings.Repeat(" ", gap) + scans
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + load state, else the status message
	var left string
	if state := m.Session.State(); state != pager.LoadIdle {
		left = m.Spinner.View() + " " + styles.DimStyle.Render(loadStateText(state))
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Right side: short help
	var right string
	if m.State == StateLightbox {
		right = m.Help.ShortHelpView(LightboxKeys{Keys}.ShortHelp())
	} else {
		right = m.Help.ShortHelpView(Keys.ShortHelp())
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 > m.Width {
		right = styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")
		rightWidth = lipgloss.Width(right)
	}

	gap := max(m.Width-leftWidth-rightWidth, 1)
	return left + strings.Repeat(" ", gap) + right
}

func loadStateText(state pager.LoadState) string {
	switch state {
	case pager.LoadInitial:
		return "Loading..."
	case pager.LoadPrevious:
		return "Loading earlier items..."
	case pager.LoadNext:
		return "Loading more items..."
	case pager.LoadJumping:
		return "Jumping..."
	default:
		return state.String()
	}
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Gallery"),
		h.View(Keys),
		"",
		styles.ModalTitleStyle.Render("Viewer"),
		h.View(LightboxKeys{Keys}),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}
