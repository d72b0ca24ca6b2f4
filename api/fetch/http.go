package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ka2n/hiroi/api/source"
	"github.com/ka2n/hiroi/log"
	"github.com/morikuni/failure/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "hiroi (+https://github.com/ka2n/hiroi)"
	DefaultMaxBodySize = 10 << 20
)

// Config configures an HTTP fetcher. Zero values select the defaults.
type Config struct {
	Timeout   time.Duration
	UserAgent string

	// RequestsPerSecond paces requests made through the fetcher when positive.
	RequestsPerSecond float64

	// MaxBodySize is the number of bytes read from a response; the rest is
	// dropped.
	MaxBodySize int64

	// Transport defaults to the logging transport of package log.
	Transport http.RoundTripper
}

// HTTP fetches remote documents with a single GET request.
// It is safe for concurrent use.
type HTTP struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	limiter     *rate.Limiter
}

var _ Fetcher = (*HTTP)(nil)

// NewHTTP creates an HTTP fetcher
func NewHTTP(cfg Config) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Transport == nil {
		cfg.Transport = log.Transport()
	}

	h := &HTTP{
		client: &http.Client{
			Transport: cfg.Transport,
			Timeout:   cfg.Timeout,
		},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}
	if cfg.RequestsPerSecond > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return h
}

// Fetch retrieves a remote document. Inputs of any other kind are rejected.
func (h *HTTP) Fetch(ctx context.Context, in source.Input) (source.Data, error) {
	if in.Kind != source.KindRemoteURL || in.URL == nil {
		return source.Data{}, failure.New(ErrUnsupportedSource,
			failure.Message("Only remote documents can be fetched over HTTP"),
			failure.Context{
				"kind": in.Kind.String(),
			},
		)
	}

	target := in.URL.Href(true)
	logger := log.Logger.With("url", target)

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return source.Data{}, failure.Wrap(err,
				failure.WithCode(ErrRequestFailed),
				failure.Message("Request cancelled while waiting for rate limit"),
				failure.Context{
					"url": target,
				},
			)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return source.Data{}, failure.Wrap(err,
			failure.WithCode(ErrRequestFailed),
			failure.Message("Failed to create request"),
			failure.Context{
				"url": target,
			},
		)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	logger.Debug("Fetching document")
	resp, err := h.client.Do(req)
	if err != nil {
		return source.Data{}, failure.Wrap(err,
			failure.WithCode(ErrRequestFailed),
			failure.Message("Failed to fetch "+target),
			failure.Context{
				"url": target,
			},
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return source.Data{}, failure.New(ErrStatus,
			failure.Message("Failed to fetch "+target+": "+resp.Status),
			failure.Context{
				"url":    target,
				"status": resp.Status,
			},
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodySize+1))
	if err != nil {
		return source.Data{}, failure.Wrap(err,
			failure.WithCode(ErrRequestFailed),
			failure.Message("Failed to read response from "+target),
			failure.Context{
				"url": target,
			},
		)
	}
	if int64(len(body)) > h.maxBodySize {
		logger.Warn("Document truncated", "max_body_size", h.maxBodySize)
		body = body[:h.maxBodySize]
	}

	contentType := resp.Header.Get("Content-Type")
	content := decode(body, contentType)
	if strings.TrimSpace(content) == "" {
		return source.Data{}, failure.New(ErrEmptyDocument,
			failure.Message("Document at "+target+" is empty"),
			failure.Context{
				"url": target,
			},
		)
	}

	logger.Debug("Fetched document", "bytes", len(body), "content_type", contentType)
	return source.Data{
		Input:       in,
		Content:     content,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		FetchedAt:   time.Now(),
	}, nil
}

// Close releases idle connections held by the fetcher.
func (h *HTTP) Close() {
	h.client.CloseIdleConnections()
}
