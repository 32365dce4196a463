package tui

import (
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
)

// PageLoadedMsg reports the end of a leased page fetch. Err may be
// ErrFetchFailed, ErrStale, or nil.
type PageLoadedMsg struct {
	Kind      pager.FetchKind
	PageIndex int
	Page      *domain.Page
	Err       error
}

// JumpResultMsg carries the outcome of a go-to-ID request. Raw is what the
// user typed, kept for the error text.
type JumpResultMsg struct {
	Raw    string
	Result *pager.JumpResult
	Err    error
}

// ScrollToMsg asks the gallery to bring an item into view. Sent after a
// short delay so the replaced window has rendered first.
type ScrollToMsg struct {
	ID int64
}

// StatusMsg shows text in the footer until the next ClearStatusMsg.
// Errors stay until replaced.
type StatusMsg struct {
	Message string
	IsError bool
}

type ClearStatusMsg struct{}
