package source

import (
	"time"

	"github.com/nlnwa/whatwg-url/url"
)

// Input is a document to extract links from.
type Input struct {
	Kind Kind

	// URL is the document address, set for KindRemoteURL
	URL *url.Url

	// Path is the file path, set for KindFile
	Path string

	// Content is the literal markup, set for KindString
	Content string
}

// Remote returns an Input for a document at u.
func Remote(u *url.Url) Input {
	return Input{Kind: KindRemoteURL, URL: u}
}

// String describes the input for logs and messages
func (in Input) String() string {
	switch in.Kind {
	case KindRemoteURL:
		if in.URL != nil {
			return in.URL.Href(false)
		}
	case KindFile:
		return in.Path
	case KindStdin:
		return "-"
	case KindString:
		return "<string>"
	}
	return "<unknown>"
}

// Data is a document retrieved from an Input
type Data struct {
	Input Input

	// Content is the document decoded to UTF-8
	Content string

	ContentType string

	StatusCode int

	// FinalURL is the address the document was served from after redirects
	FinalURL string

	// FetchedAt is the time when the data was retrieved
	FetchedAt time.Time
}
