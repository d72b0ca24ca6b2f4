// Package resolve turns link references into absolute URLs.
package resolve

import (
	"unicode/utf8"

	"github.com/ka2n/hiroi/api/uri"
	"github.com/morikuni/failure/v2"
	urlerrors "github.com/nlnwa/whatwg-url/errors"
	"github.com/nlnwa/whatwg-url/url"
)

// ErrorCode defines error types for reference resolution
type ErrorCode string

const (
	// ErrMalformedReference represents a reference that is neither a valid
	// absolute URL nor a valid relative reference.
	ErrMalformedReference ErrorCode = "MalformedReference"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Relative reports whether ref needs a base URL to be resolved.
func Relative(ref string) bool {
	_, err := uri.Parser.Parse(uri.Clean(ref))
	return err != nil && urlerrors.Type(err) == urlerrors.MissingSchemeNonRelativeURL
}

// Resolve resolves ref against base.
//
// ref is first parsed on its own; an absolute URL is returned as is, whatever
// base is. Only when that fails because ref has no scheme is it parsed again
// relative to base, which fills in the scheme, authority and, for
// query-only or fragment-only references, the path of base. Every other
// parse failure is fatal.
func Resolve(ref string, base *url.Url) (*url.Url, error) {
	cleaned := uri.Clean(ref)

	u, err := uri.Parser.Parse(cleaned)
	if err != nil && urlerrors.Type(err) == urlerrors.MissingSchemeNonRelativeURL && base != nil {
		u, err = uri.Parser.BasicParser(cleaned, base, nil, url.NoState)
	}
	if err == nil {
		err = uri.Fatal(u)
	}
	if err != nil {
		ctx := failure.Context{
			"reference": ref,
		}
		if base != nil {
			ctx["base"] = base.Href(false)
		}
		return nil, failure.Wrap(err,
			failure.WithCode(ErrMalformedReference),
			failure.Message("Cannot resolve link reference "+quote(ref)),
			ctx,
		)
	}
	return u, nil
}

func quote(s string) string {
	const limit = 80
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit]) + "..."
	}
	return `"` + s + `"`
}
