package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/config"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/components"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateLightbox
	StateHelp
)

// Opener launches an item's file outside the terminal
type Opener interface {
	Open(item domain.Item) error
}

// statusTimeout is how long informational status messages stay up
const statusTimeout = 3 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Engine and collaborators
	Session *pager.Session
	Store   domain.HistoryStore
	Opener  Opener
	Config  *config.Config
	Logger  *slog.Logger

	// UI Components
	Gallery      *components.Gallery
	Inspector    components.Inspector
	Lightbox     components.Lightbox
	GotoModal    components.InputModal
	FindModal    components.InputModal
	HistoryModal components.HistoryModal
	Spinner      spinner.Model
	Help         help.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	ShowInspector bool

	// Jump target waiting for its delayed scroll; sentinels are not
	// observed until it lands
	scrollPending int64
}

// NewModel creates a new application model. Nothing is fetched until Init.
func NewModel(session *pager.Session, store domain.HistoryStore, opener Opener, cfg *config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.AccentStyle
	h.Styles.ShortDesc = styles.DimStyle
	h.Styles.FullKey = styles.AccentStyle
	h.Styles.FullDesc = styles.DimStyle

	m := Model{
		State:         StateBrowsing,
		Session:       session,
		Store:         store,
		Opener:        opener,
		Config:        cfg,
		Logger:        logger,
		Gallery:       components.NewGallery(),
		Inspector:     components.NewInspector(cfg.Browse.PageSize),
		Lightbox:      components.NewLightbox(),
		GotoModal:     components.NewInputModal("item ID, e.g. 208", 19),
		FindModal:     components.NewInputModal("part of a file name", 80),
		HistoryModal:  components.NewHistoryModal(),
		Spinner:       sp,
		Help:          h,
		ShowInspector: true,
	}
	m.refreshBookmarks()
	m.syncGallery()
	return m
}

// Init starts the first page load and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startInitialLoad(), m.Spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Help.Width = msg.Width
		m.updateLayout()
		cmd := m.observeSentinels()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		m.Gallery.SetSpinner(m.Spinner.View())
		return m, cmd

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case JumpResultMsg:
		return m.handleJumpResult(msg)

	case ScrollToMsg:
		if msg.ID != m.scrollPending {
			return m, nil
		}
		m.scrollPending = 0
		if m.Gallery.ScrollTo(msg.ID) {
			m.syncSelection()
		}
		cmd := m.observeSentinels()
		return m, cmd

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		if msg.IsError {
			return m, nil
		}
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		if !m.StatusIsErr {
			m.StatusMsg = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	reload := m.Session.Completed(msg.Kind, msg.PageIndex, msg.Err)
	m.syncGallery()

	var cmds []tea.Cmd
	switch {
	case msg.Err == nil:
		if m.StatusIsErr {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
	case domain.IsSilent(msg.Err):
		m.Logger.Debug("fetch result dropped", "kind", msg.Kind.String(), "page", msg.PageIndex, "error", msg.Err)
	default:
		m.StatusMsg = fmt.Sprintf("Couldn't load page %d · R to retry", msg.PageIndex+1)
		m.StatusIsErr = true
		m.Logger.Error("page load failed", "kind", msg.Kind.String(), "page", msg.PageIndex, "error", msg.Err)
	}

	if reload {
		cmds = append(cmds, m.startInitialLoad())
	}
	cmds = append(cmds, m.observeSentinels())
	return m, tea.Batch(cmds...)
}

func (m Model) handleJumpResult(msg JumpResultMsg) (tea.Model, tea.Cmd) {
	err := msg.Err
	switch {
	case err == nil:
		result := msg.Result
		m.Session.ApplyJump(result)
		m.GotoModal.Hide()
		m.closeLightbox()
		m.Gallery.ClearFind()
		m.scrollPending = result.ID
		m.syncGallery()
		m.recordJump(result)
		m.StatusMsg = fmt.Sprintf("Jumped to %d · #%d", result.ID, result.GlobalIndex)
		m.StatusIsErr = false
		return m, tea.Batch(
			ScrollToCmd(result.ID, m.Config.Browse.ScrollDelay),
			ClearStatusCmd(statusTimeout),
		)

	case domain.IsSilent(err):
		m.GotoModal.SetBusy(false)
		m.Logger.Debug("jump dropped", "raw", msg.Raw, "error", err)

	case errors.Is(err, domain.ErrInvalidIdentifier), errors.Is(err, domain.ErrIdentifierNotFound):
		if m.GotoModal.IsVisible() {
			m.GotoModal.SetError(jumpErrorText(err, msg.Raw, m.Session.Filter()))
		} else {
			m.StatusMsg = jumpErrorText(err, msg.Raw, m.Session.Filter())
			m.StatusIsErr = true
		}

	default:
		m.GotoModal.Hide()
		m.StatusMsg = fmt.Sprintf("Jump to %s failed · g to try again", msg.Raw)
		m.StatusIsErr = true
		m.Logger.Error("jump failed", "raw", msg.Raw, "error", err)
	}

	// A filter change while the jump was in flight left the window empty
	if m.Session.Cache().Len() == 0 && m.Session.Coordinator().Idle() {
		cmd := m.startInitialLoad()
		return m, cmd
	}
	return m, nil
}

// jumpErrorText is the inline message for a rejected go-to input
func jumpErrorText(err error, raw string, filter domain.FilterSet) string {
	if errors.Is(err, domain.ErrInvalidIdentifier) {
		return "Enter a positive whole number"
	}
	return fmt.Sprintf("No item %s in %s", raw, filterLabel(filter))
}

func (m *Model) recordJump(result *pager.JumpResult) {
	if err := m.Store.RecordJump(result.Record()); err != nil {
		m.Logger.Warn("failed to record jump", "id", result.ID, "error", err)
	}
}

// startInitialLoad leases a page-0 fetch. A busy coordinator returns nil;
// the in-flight result comes back stale and asks for the reload itself.
func (m *Model) startInitialLoad() tea.Cmd {
	lease, err := m.Session.PlanInitial()
	if err != nil {
		m.Logger.Debug("initial load deferred", "error", err)
		return nil
	}
	m.syncLoading()
	return FetchPageCmd(lease, 0, m.Config.Network.Timeout)
}

// observeSentinels feeds both sentinel visibilities to the triggers and
// starts whatever fetch they fire
func (m *Model) observeSentinels() tea.Cmd {
	if !m.Ready || m.scrollPending != 0 {
		return nil
	}

	top := m.Gallery.TopSentinelVisible()
	if top && !m.Gallery.Scrollable() {
		// The sentinel can never leave a window that fits on screen, so a
		// finished load counts as its exit
		m.Session.ObserveTop(false)
	}

	var cmds []tea.Cmd
	if lease, page, ok := m.Session.ObserveTop(top); ok {
		cmds = append(cmds, FetchPageCmd(lease, page, m.Config.Network.Timeout))
	}
	if lease, page, ok := m.Session.ObserveBottom(m.Gallery.BottomSentinelVisible()); ok {
		cmds = append(cmds, FetchPageCmd(lease, page, m.Config.Network.Timeout))
	}
	m.syncLoading()
	return tea.Batch(cmds...)
}

// setFilter swaps the filter set and reloads from page 0
func (m *Model) setFilter(filter domain.FilterSet) tea.Cmd {
	if filter == m.Session.Filter() {
		return nil
	}
	m.Session.SetFilter(filter)
	m.closeLightbox()
	m.Gallery.ClearFind()
	m.scrollPending = 0
	if m.StatusIsErr {
		m.StatusMsg = ""
		m.StatusIsErr = false
	}
	m.syncGallery()
	m.Logger.Info("filter changed", "filter", filter.Key())
	return m.startInitialLoad()
}

// syncGallery pushes the current window into the gallery
func (m *Model) syncGallery() {
	w := m.Session.Window()
	hasAbove := w.Loaded && w.Lowest > 0
	hasBelow := w.Loaded && w.Highest < w.TotalPages-1

	m.Gallery.SetEntries(m.Session.Cache().Flatten(), hasAbove, hasBelow)
	m.Gallery.SetTitle(m.galleryTitle())
	m.Gallery.SetEmptyText(m.emptyText())
	m.syncLoading()
	m.syncSelection()
	m.syncLightbox()
}

func (m *Model) syncLoading() {
	state := m.Session.State()
	m.Gallery.SetLoading(state == pager.LoadPrevious, state == pager.LoadNext)
	m.Gallery.SetEmptyText(m.emptyText())
}

// syncSelection mirrors the gallery cursor into the session and inspector.
// While a jump scroll is pending the session keeps the jump target.
func (m *Model) syncSelection() {
	if m.scrollPending != 0 {
		if e, ok := m.Session.Selected(); ok {
			m.Inspector.SetEntry(e, m.Store.IsBookmarked(e.Item.ItemID()))
			return
		}
	}

	e, ok := m.Gallery.Selected()
	if !ok {
		m.Session.ClearSelection()
		m.Inspector.Clear()
		return
	}
	m.Session.Select(e.Item.ItemID())
	m.Inspector.SetEntry(e, m.Store.IsBookmarked(e.Item.ItemID()))
}

// syncLightbox follows the navigator after the window changed
func (m *Model) syncLightbox() {
	if !m.Lightbox.IsVisible() {
		return
	}
	item, ok := m.Session.Navigator().Current()
	if !ok {
		m.closeLightbox()
		return
	}
	pos, total := m.Session.Navigator().Position()
	m.Lightbox.SetItem(item, pos, total)
}

func (m *Model) closeLightbox() {
	m.Session.Navigator().Close()
	m.Lightbox.Hide()
	if m.State == StateLightbox {
		m.State = StateBrowsing
	}
}

func (m *Model) refreshBookmarks() {
	bookmarks := m.Store.Bookmarks()
	ids := make([]int64, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ID
	}
	m.Gallery.SetBookmarks(ids)
}

func (m Model) galleryTitle() string {
	label := filterLabel(m.Session.Filter())
	w := m.Session.Window()
	if !w.Loaded {
		return label
	}
	totalCount, _ := m.Session.Cache().Totals()
	return fmt.Sprintf("%s · %d items · pages %d-%d of %d",
		label, totalCount, w.Lowest+1, w.Highest+1, w.TotalPages)
}

func (m Model) emptyText() string {
	switch {
	case m.Session.State() != pager.LoadIdle:
		return styles.DimStyle.Render(m.Spinner.View() + " Loading...")
	case m.StatusIsErr:
		return styles.ErrorStyle.Render("Nothing loaded") + styles.DimStyle.Render(" · R to retry")
	case m.Session.Window().Loaded:
		return styles.DimStyle.Render("No items")
	default:
		return styles.DimStyle.Render("No items match this filter")
	}
}

// filterLabel renders a filter set for titles, e.g. "Images (no scans)"
func filterLabel(f domain.FilterSet) string {
	label := f.Kind.Label()
	if f.ExcludeScanned {
		label += " (no scans)"
	}
	return label
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var content string
	if m.calculateLayout().inspectorWidth > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.Gallery.View(), m.Inspector.View())
	} else {
		content = m.Gallery.View()
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		content,
		m.renderFooter(),
	)

	// Overlays
	if m.Lightbox.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Lightbox.View())
	}

	if m.GotoModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.GotoModal.View())
	}

	if m.FindModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.FindModal.View())
	}

	if m.HistoryModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.HistoryModal.View())
	}

	return view
}
