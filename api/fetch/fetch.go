// Package fetch retrieves the documents links are extracted from.
package fetch

import (
	"bytes"
	"context"
	"io"

	"github.com/ka2n/hiroi/api/source"
	"golang.org/x/net/html/charset"
)

// ErrorCode defines error types for document retrieval
type ErrorCode string

const (
	// ErrUnsupportedSource represents an input kind the fetcher cannot read
	ErrUnsupportedSource ErrorCode = "UnsupportedSource"
	// ErrRequestFailed represents a transport level failure, including timeouts
	ErrRequestFailed ErrorCode = "RequestFailed"
	// ErrStatus represents a response with a non-2xx status code
	ErrStatus ErrorCode = "Status"
	// ErrEmptyDocument represents a document without any content
	ErrEmptyDocument ErrorCode = "EmptyDocument"
	// ErrRead represents a failure reading a local document
	ErrRead ErrorCode = "Read"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Fetcher is an interface for retrieving documents
type Fetcher interface {
	// Fetch retrieves the document described by in
	Fetch(ctx context.Context, in source.Input) (source.Data, error)
}

// Func adapts a function to the Fetcher interface.
type Func func(ctx context.Context, in source.Input) (source.Data, error)

// Fetch calls f(ctx, in).
func (f Func) Fetch(ctx context.Context, in source.Input) (source.Data, error) {
	return f(ctx, in)
}

// decode converts body to UTF-8 using the charset named in contentType, or
// sniffed from the markup when contentType names none.
func decode(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
