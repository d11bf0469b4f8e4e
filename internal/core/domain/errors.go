package domain

import (
	"errors"
	"fmt"
)

// FetchErrorKind labels the failure mode of a page fetch.
type FetchErrorKind string

const (
	FetchTimeout     FetchErrorKind = "timeout"
	FetchConnection  FetchErrorKind = "connection"
	FetchRateLimited FetchErrorKind = "rate_limited"
	FetchServerError FetchErrorKind = "server_error"
	FetchNotFound    FetchErrorKind = "not_found"
	FetchForbidden   FetchErrorKind = "forbidden"
	FetchOther       FetchErrorKind = "other"
)

// FetchError wraps a failed page fetch. Transient kinds are retried with
// backoff by the pipeline; the rest are skipped without retry.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d): %v", e.URL, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying.
func (e *FetchError) Transient() bool {
	switch e.Kind {
	case FetchTimeout, FetchConnection, FetchRateLimited, FetchServerError:
		return true
	}
	return false
}

// ParseError marks a single listing item that could not be extracted. It is
// logged and skipped; it never aborts the page or the run.
type ParseError struct {
	Site  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: missing or invalid %s: %v", e.Site, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StoreConflictError signals a unique-constraint violation on concurrent
// insert of the same fingerprint. It is expected under races and always
// resolved by falling back to the update path.
type StoreConflictError struct {
	Fingerprint Fingerprint
	Err         error
}

func (e *StoreConflictError) Error() string {
	return fmt.Sprintf("store conflict on fingerprint %q: %v", e.Fingerprint, e.Err)
}

func (e *StoreConflictError) Unwrap() error { return e.Err }

// NotifierError signals that the external notifier rejected an event. The
// event is dropped for the current cycle; retries live outside this core.
type NotifierError struct {
	Reason string
}

func (e *NotifierError) Error() string {
	return fmt.Sprintf("notifier rejected event: %s", e.Reason)
}

// ErrRunInProgress is returned when a run for a site is requested while one
// is already running. Dispatch treats it as a silent skip, not a failure.
var ErrRunInProgress = errors.New("scrape run already in progress for site")

// ErrUnknownSite is returned for a site id with no registered adapter.
var ErrUnknownSite = errors.New("no adapter registered for site")

// ErrListingNotFound is returned by the store when a lookup misses.
var ErrListingNotFound = errors.New("listing not found")
