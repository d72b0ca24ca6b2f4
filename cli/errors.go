package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	InvalidArguments   ErrorCode = "InvalidArguments"
	InvalidErrorPolicy ErrorCode = "InvalidErrorPolicy"
	UnsupportedSource  ErrorCode = "UnsupportedSource"
	CollectFailed      ErrorCode = "CollectFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
