package tle

import "fmt"

// FormatError reports element-set text that violates the fixed-column TLE
// format. There is no partially valid element set: a format violation always
// surfaces to the caller, even when a stale cache entry exists.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "malformed element set: " + e.Reason
}

// FetchError reports a network-level retrieval failure (timeout, connection
// error, non-2xx status). Callers only ever see it when no cached entry is
// available to fall back to.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching element set from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
