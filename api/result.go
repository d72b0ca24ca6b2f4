package api

import (
	"github.com/ka2n/hiroi/api/extract"
	"github.com/ka2n/hiroi/api/source"
	"github.com/ka2n/hiroi/api/uri"
	"github.com/morikuni/failure/v2"
	"github.com/nlnwa/whatwg-url/url"
)

// Link is a resolved link together with the document it was found in
type Link struct {
	URL    uri.URI `json:"url"`
	Source uri.URI `json:"source"`

	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
}

// Result is the outcome of collecting one document
type Result struct {
	// Document is the address as given by the caller
	Document string
	Links    []Link
	Err      error
}

// newLink builds the record for an occurrence resolved to target. Links can
// only be reported for remote documents.
func newLink(o extract.Occurrence, target *url.Url, in source.Input) (Link, error) {
	if in.Kind != source.KindRemoteURL || in.URL == nil {
		return Link{}, failure.New(ErrUnsupportedSource,
			failure.Message("Links can only be collected from remote documents"),
			failure.Context{
				"kind":   in.Kind.String(),
				"source": in.String(),
			},
		)
	}

	return Link{
		URL:       uri.FromURL(target),
		Source:    uri.FromURL(in.URL),
		Element:   o.Element,
		Attribute: o.Attribute,
	}, nil
}
