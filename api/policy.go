package api

import (
	"strings"

	"github.com/morikuni/failure/v2"
)

// ErrorPolicy decides what Collect does with a link that cannot be resolved
type ErrorPolicy string

const (
	// AbortOnError fails the whole collection and returns no links
	AbortOnError ErrorPolicy = "abort"
	// SkipOnError drops the offending link and keeps going
	SkipOnError ErrorPolicy = "skip"
)

// ErrorPolicies lists the accepted policies, default first
var ErrorPolicies = []ErrorPolicy{AbortOnError, SkipOnError}

// String returns the string representation of the ErrorPolicy
func (p ErrorPolicy) String() string {
	return string(p)
}

// ParseErrorPolicy parses a policy name. The empty string selects
// AbortOnError.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AbortOnError:
		return AbortOnError, nil
	case SkipOnError:
		return SkipOnError, nil
	default:
		return "", failure.New(ErrInvalidOption,
			failure.Message("Unknown resolution error policy "+s+", expected abort or skip"),
			failure.Context{
				"policy": s,
			},
		)
	}
}
