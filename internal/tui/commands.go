package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
)

// Command factories for async operations. Each runs one leased fetch off the
// event loop and reports back with a message; the lease is always released
// before the message is delivered.

// FetchPageCmd runs a page fetch under lease
func FetchPageCmd(lease *pager.Lease, pageIndex int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		defer lease.Release()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := lease.Fetch(ctx, pageIndex)
		return PageLoadedMsg{
			Kind:      lease.Kind(),
			PageIndex: pageIndex,
			Page:      page,
			Err:       err,
		}
	}
}

// JumpCmd resolves raw and replaces the window with the page that holds it
func JumpCmd(session *pager.Session, raw string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		// Locate plus page fetch
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()

		result, err := session.Jump(ctx, raw)
		return JumpResultMsg{Raw: raw, Result: result, Err: err}
	}
}

// OpenFileCmd launches item in the external viewer
func OpenFileCmd(opener Opener, item domain.Item) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(item); err != nil {
			return StatusMsg{Message: fmt.Sprintf("Can't open %d: %v", item.ItemID(), err), IsError: true}
		}
		return StatusMsg{Message: "Opened " + item.Common().FileName}
	}
}

// ScrollToCmd delivers a ScrollToMsg after delay
func ScrollToCmd(id int64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ScrollToMsg{ID: id}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
