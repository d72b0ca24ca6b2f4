// Package api collects and extracts hyperlinks from HTML documents.
//
// Extract scans markup that is already in memory and reports every link
// reference with the element and attribute it was found in. Collect fetches
// a remote document, extracts its links and resolves each one against the
// document address, returning fully decomposed URLs.
//
// Failures are reported with failure codes; use CodeOf to tell invalid input
// from fetch failures from unresolvable references.
package api

import "github.com/morikuni/failure/v2"

// ErrorCode defines error types for API operations
type ErrorCode string

const (
	// ErrInvalidInput represents a document address that is not a valid
	// absolute http(s) URL
	ErrInvalidInput ErrorCode = "InvalidInput"
	// ErrFetch represents a failure retrieving the document
	ErrFetch ErrorCode = "FetchError"
	// ErrResolution represents a link reference that cannot be resolved
	ErrResolution ErrorCode = "ResolutionError"
	// ErrUnsupportedSource represents links attributed to a document that
	// was not fetched from a remote address. Collect never reports it for
	// caller input; seeing it indicates a defect.
	ErrUnsupportedSource ErrorCode = "UnsupportedSource"
	// ErrInvalidOption represents an unknown option value
	ErrInvalidOption ErrorCode = "InvalidOption"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

var errorCodes = []ErrorCode{
	ErrInvalidInput,
	ErrFetch,
	ErrResolution,
	ErrUnsupportedSource,
	ErrInvalidOption,
}

// CodeOf returns the api error code carried by err, or "" when err is nil or
// carries none.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, code := range errorCodes {
		if failure.Is(err, code) {
			return code
		}
	}
	return ""
}
