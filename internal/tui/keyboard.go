package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/search"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	if m.State == StateHelp {
		m.State = StateBrowsing
		if m.Lightbox.IsVisible() {
			m.State = StateLightbox
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if m.State == StateLightbox {
		return m.handleLightboxKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		m.Gallery.ClearFind()
		return m, nil

	case key.Matches(msg, Keys.NextKind):
		cmd := m.setFilter(m.shiftKind(1))
		return m, cmd

	case key.Matches(msg, Keys.PrevKind):
		cmd := m.setFilter(m.shiftKind(-1))
		return m, cmd

	case key.Matches(msg, Keys.KindAll, Keys.KindImage, Keys.KindVideo, Keys.KindAudio, Keys.KindDocument):
		n, _ := strconv.Atoi(msg.String())
		filter := m.Session.Filter()
		filter.Kind = domain.Kinds[n-1]
		cmd := m.setFilter(filter)
		return m, cmd

	case key.Matches(msg, Keys.ExcludeScanned):
		filter := m.Session.Filter()
		filter.ExcludeScanned = !filter.ExcludeScanned
		cmd := m.setFilter(filter)
		return m, cmd

	case key.Matches(msg, Keys.GoTo):
		m.GotoModal.Show("Go to ID", "Jumps within "+filterLabel(m.Session.Filter()))
		return m, nil

	case key.Matches(msg, Keys.Find):
		m.FindModal.Show("Find in loaded items", fmt.Sprintf("%d items loaded", m.Gallery.Len()))
		return m, nil

	case key.Matches(msg, Keys.FindNext):
		if m.Gallery.FindNext() {
			m.syncSelection()
			cmd := m.observeSentinels()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.History):
		m.HistoryModal.Show(search.RecordsFrom(m.Store.Bookmarks(), m.Store.RecentJumps(0)))
		return m, nil

	case key.Matches(msg, Keys.Bookmark):
		if e, ok := m.Gallery.Selected(); ok {
			cmd := m.toggleBookmark(e.Item)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.Open):
		if e, ok := m.Gallery.Selected(); ok && m.Opener != nil {
			return m, OpenFileCmd(m.Opener, e.Item)
		}
		return m, nil

	case key.Matches(msg, Keys.Retry):
		cmd := m.retry()
		return m, cmd

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		cmd := m.observeSentinels()
		return m, cmd

	case key.Matches(msg, Keys.Enter):
		return m.openLightbox()
	}

	// Everything else moves the gallery cursor
	if _, moved := m.Gallery.Update(msg); moved {
		m.syncSelection()
		cmd := m.observeSentinels()
		return m, cmd
	}
	return m, nil
}

// routeToModal sends keys to whichever modal is open
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case m.GotoModal.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.GotoModal, cmd, submitted = m.GotoModal.Update(msg)
		if submitted {
			raw := strings.TrimSpace(m.GotoModal.Value())
			m.GotoModal.SetBusy(true)
			return true, m, JumpCmd(m.Session, raw, m.Config.Network.Timeout)
		}
		return true, m, cmd

	case m.FindModal.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.FindModal, cmd, submitted = m.FindModal.Update(msg)
		if submitted {
			m.FindModal.Hide()
			cmd = m.findInWindow(m.FindModal.Value())
			return true, m, cmd
		}
		return true, m, cmd

	case m.HistoryModal.IsVisible():
		var cmd tea.Cmd
		var chosen *search.Record
		m.HistoryModal, cmd, chosen = m.HistoryModal.Update(msg)
		if chosen != nil {
			raw := strconv.FormatInt(chosen.ID, 10)
			m.StatusMsg = "Jumping to " + raw
			m.StatusIsErr = false
			return true, m, JumpCmd(m.Session, raw, m.Config.Network.Timeout)
		}
		return true, m, cmd
	}

	return false, m, nil
}

func (m Model) handleLightboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.Session.Navigator()

	switch {
	case key.Matches(msg, Keys.Escape, Keys.Enter, Keys.Quit):
		// Leave the gallery cursor on the last item viewed
		if id, ok := nav.OpenID(); ok {
			m.Gallery.ScrollTo(id)
		}
		m.closeLightbox()
		m.syncSelection()
		cmd := m.observeSentinels()
		return m, cmd

	case key.Matches(msg, Keys.Prev):
		if item, ok := nav.Previous(); ok {
			pos, total := nav.Position()
			m.Lightbox.SetItem(item, pos, total)
		}

	case key.Matches(msg, Keys.Next):
		if item, ok := nav.Next(); ok {
			pos, total := nav.Position()
			m.Lightbox.SetItem(item, pos, total)
		}

	case key.Matches(msg, Keys.ZoomIn):
		m.Lightbox.ZoomIn()

	case key.Matches(msg, Keys.ZoomOut):
		m.Lightbox.ZoomOut()

	case key.Matches(msg, Keys.Rotate):
		m.Lightbox.Rotate()

	case key.Matches(msg, Keys.ResetView):
		m.Lightbox.ResetView()

	case key.Matches(msg, Keys.PanUp):
		m.Lightbox.Pan(0, -1)

	case key.Matches(msg, Keys.PanDown):
		m.Lightbox.Pan(0, 1)

	case key.Matches(msg, Keys.PanLeft):
		m.Lightbox.Pan(-1, 0)

	case key.Matches(msg, Keys.PanRight):
		m.Lightbox.Pan(1, 0)

	case key.Matches(msg, Keys.Bookmark):
		if item := m.Lightbox.Item(); item != nil {
			cmd := m.toggleBookmark(item)
			return m, cmd
		}

	case key.Matches(msg, Keys.Open):
		if item := m.Lightbox.Item(); item != nil && m.Opener != nil {
			return m, OpenFileCmd(m.Opener, item)
		}

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
	}

	return m, nil
}

// openLightbox opens the navigator on the selected item
func (m Model) openLightbox() (tea.Model, tea.Cmd) {
	e, ok := m.Gallery.Selected()
	if !ok {
		return m, nil
	}

	nav := m.Session.Navigator()
	if !nav.Open(e.Item.ItemID()) {
		m.StatusMsg = fmt.Sprintf("The viewer steps through %s only", strings.ToLower(nav.Kind().Label()))
		m.StatusIsErr = false
		return m, ClearStatusCmd(statusTimeout)
	}

	item, _ := nav.Current()
	pos, total := nav.Position()
	m.Lightbox.Show(item, pos, total)
	m.State = StateLightbox
	return m, nil
}

// shiftKind returns the filter with the kind tab moved by delta, wrapping
func (m Model) shiftKind(delta int) domain.FilterSet {
	filter := m.Session.Filter()
	current := 0
	for i, k := range domain.Kinds {
		if k == filter.Kind {
			current = i
			break
		}
	}
	n := len(domain.Kinds)
	filter.Kind = domain.Kinds[(current+delta+n)%n]
	return filter
}

// findInWindow fuzzy-matches query against the loaded file names
func (m *Model) findInWindow(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		m.Gallery.ClearFind()
		return nil
	}

	entries := m.Gallery.Entries()
	items := make([]domain.Item, len(entries))
	for i, e := range entries {
		items[i] = e.Item
	}

	results := search.NewIndex(items).Find(query)
	m.Gallery.Find(query, results)
	m.syncSelection()

	if len(results) == 0 {
		m.StatusMsg = fmt.Sprintf("No loaded item matches %q", query)
	} else {
		m.StatusMsg = fmt.Sprintf("%d matches · n for next", len(results))
	}
	m.StatusIsErr = false
	return tea.Batch(m.observeSentinels(), ClearStatusCmd(statusTimeout))
}

// toggleBookmark adds or removes item from the bookmark store
func (m *Model) toggleBookmark(item domain.Item) tea.Cmd {
	id := item.ItemID()

	var err error
	if m.Store.IsBookmarked(id) {
		err = m.Store.RemoveBookmark(id)
		m.StatusMsg = fmt.Sprintf("Removed bookmark %d", id)
	} else {
		err = m.Store.AddBookmark(domain.Bookmark{
			ID:    id,
			Label: item.Common().FileName,
			Kind:  item.ItemKind(),
		})
		m.StatusMsg = fmt.Sprintf("Bookmarked %d", id)
	}
	if err != nil {
		m.Logger.Error("bookmark update failed", "id", id, "error", err)
		m.StatusMsg = "Bookmark failed: " + err.Error()
		m.StatusIsErr = true
		return nil
	}

	m.StatusIsErr = false
	m.refreshBookmarks()
	m.syncSelection()
	return ClearStatusCmd(statusTimeout)
}

// retry re-runs the last failed fetch
func (m *Model) retry() tea.Cmd {
	lease, page, err := m.Session.Retry()
	if err != nil {
		if errors.Is(err, domain.ErrNothingToRetry) {
			m.StatusMsg = "Nothing to retry"
			m.StatusIsErr = false
			return ClearStatusCmd(statusTimeout)
		}
		return nil
	}

	m.StatusMsg = fmt.Sprintf("Retrying page %d...", page+1)
	m.StatusIsErr = false
	m.syncLoading()
	return FetchPageCmd(lease, page, m.Config.Network.Timeout)
}
