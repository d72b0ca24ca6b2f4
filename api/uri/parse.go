package uri

import (
	"strings"

	"github.com/morikuni/failure/v2"
	urlerrors "github.com/nlnwa/whatwg-url/errors"
	"github.com/nlnwa/whatwg-url/url"
)

// Parser is the shared WHATWG parser. Validation errors are recorded on the
// parsed URL instead of failing the parse; Fatal decides which ones matter.
var Parser = url.NewParser(url.WithReportValidationErrors())

// Fatal returns the first validation error recorded on u that makes it
// unusable as a link target, or nil.
//
// Only spaces and control characters inside the URL are fatal. Everything
// else a browser tolerates (brackets in queries, stray percent signs,
// credentials, backslashes) is tolerated here too.
func Fatal(u *url.Url) error {
	for _, err := range u.ValidationErrors() {
		if urlerrors.Type(err) == urlerrors.InvalidURLUnit && strings.ContainsFunc(urlerrors.Url(err), isSpaceOrControl) {
			return err
		}
	}
	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}

// Clean strips leading and trailing ASCII whitespace and removes the tabs and
// newlines that markup wraps long attribute values with.
func Clean(raw string) string {
	raw = strings.Trim(raw, " \t\n\f\r")
	if strings.ContainsAny(raw, "\t\n\r") {
		raw = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(raw)
	}
	return raw
}

// ParseAbsolute parses raw as a standalone absolute URL.
func ParseAbsolute(raw string) (*url.Url, error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, failure.New(ErrInvalidURL,
			failure.Message("URL is empty"),
		)
	}

	u, err := Parser.Parse(cleaned)
	if err != nil {
		return nil, failure.Wrap(err,
			failure.WithCode(ErrInvalidURL),
			failure.Message("Invalid URL: "+string(urlerrors.Type(err))),
			failure.Context{
				"url": raw,
			},
		)
	}
	if err := Fatal(u); err != nil {
		return nil, failure.Wrap(err,
			failure.WithCode(ErrInvalidURL),
			failure.Message("Invalid URL: "+string(urlerrors.Type(err))),
			failure.Context{
				"url": raw,
			},
		)
	}
	return u, nil
}

// Parse parses raw as an absolute URL and decomposes it.
func Parse(raw string) (URI, error) {
	u, err := ParseAbsolute(raw)
	if err != nil {
		return URI{}, err
	}
	return FromURL(u), nil
}
