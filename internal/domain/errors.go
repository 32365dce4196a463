package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrFetchFailed indicates a page fetch or lookup failed at the backend or network
	ErrFetchFailed = errors.New("fetch failed")

	// ErrIdentifierNotFound indicates a jump target does not exist under the current filter
	ErrIdentifierNotFound = errors.New("identifier not found under current filter")

	// ErrInvalidIdentifier indicates the jump input is not a positive integer
	ErrInvalidIdentifier = errors.New("identifier must be a positive integer")

	// ErrBusy indicates another fetch already holds the coordinator
	ErrBusy = errors.New("fetch already in flight")

	// ErrNothingToRetry indicates there is no failed fetch to repeat
	ErrNothingToRetry = errors.New("no failed fetch to retry")

	// ErrStale indicates a result arrived after the filter it was fetched under changed
	ErrStale = errors.New("result fetched under a stale filter")

	// ErrItemNotFound indicates the backend returned 404 for an item
	ErrItemNotFound = errors.New("media item not found")

	// ErrServerOffline indicates the corpus server is unreachable
	ErrServerOffline = errors.New("corpus server is unreachable")

	// ErrAuthFailed indicates the API token was rejected
	ErrAuthFailed = errors.New("api token is invalid")
)

// IsSilent reports whether err should be dropped without telling the user
func IsSilent(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrStale)
}
