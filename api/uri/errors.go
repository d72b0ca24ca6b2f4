package uri

// ErrorCode defines error types for URL parsing
type ErrorCode string

const (
	// ErrInvalidURL represents an address that is not a valid absolute URL
	ErrInvalidURL ErrorCode = "InvalidURL"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
