package log

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/motemen/go-loghttp"
)

// Logger is the global logger instance
var Logger *slog.Logger

var level = new(slog.LevelVar)

// InitLogger initializes the global logger
// It sets the log level to Debug if HIROI_DEBUG is set
func InitLogger() {
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}

	SetDebug(os.Getenv("HIROI_DEBUG") != "")

	handler := slog.NewTextHandler(os.Stderr, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func logRequest(req *http.Request) {
	Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"user_agent", req.UserAgent(),
	)
}

func logResponse(resp *http.Response) {
	Debug("HTTP response",
		"method", resp.Request.Method,
		"url", resp.Request.URL.String(),
		"status_code", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"content_length", resp.ContentLength,
	)
}

// init initializes the logger when the package is imported
func init() {
	InitLogger()
}

// SetDebug switches the global logger between Debug and Info level.
func SetDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	return level.Level() <= slog.LevelDebug
}

// transport logs through loghttp and owns its connection pool
type transport struct {
	*loghttp.Transport
	pool *http.Transport
}

// CloseIdleConnections closes the idle connections of the underlying pool.
func (t *transport) CloseIdleConnections() {
	t.pool.CloseIdleConnections()
}

// Transport returns a new round tripper that logs every request and response
// at debug level. Each call gets its own connection pool, released by
// http.Client.CloseIdleConnections.
func Transport() http.RoundTripper {
	pool := http.DefaultTransport.(*http.Transport).Clone()
	return &transport{
		Transport: &loghttp.Transport{
			Transport:   pool,
			LogRequest:  logRequest,
			LogResponse: logResponse,
		},
		pool: pool,
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
