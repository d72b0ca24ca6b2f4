package api

import (
	"context"
	"log/slog"

	"github.com/ka2n/hiroi/api/extract"
	"github.com/ka2n/hiroi/api/fetch"
	"github.com/ka2n/hiroi/api/resolve"
	"github.com/ka2n/hiroi/api/source"
	"github.com/ka2n/hiroi/api/uri"
	"github.com/ka2n/hiroi/log"
	"github.com/morikuni/failure/v2"
	"github.com/nlnwa/whatwg-url/url"
	"golang.org/x/sync/errgroup"
)

// State is a stage of a single collection
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateExtracting State = "extracting"
	StateResolving  State = "resolving"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Config configures a Collector
type Config struct {
	// Fetcher retrieves documents. Defaults to an HTTP fetcher with default
	// settings.
	Fetcher fetch.Fetcher

	// OnResolutionError defaults to AbortOnError.
	OnResolutionError ErrorPolicy

	// Observer, when set, is called on every state change with the document
	// address as given to Collect. It may be called from several goroutines
	// at once by CollectAll.
	Observer func(document string, state State)
}

// Collector fetches documents and reports the links they contain.
// It is safe for concurrent use; calls share nothing but the fetcher.
type Collector struct {
	fetcher  fetch.Fetcher
	policy   ErrorPolicy
	observer func(string, State)
}

// NewCollector creates a Collector
func NewCollector(cfg Config) *Collector {
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.NewHTTP(fetch.Config{})
	}
	if cfg.OnResolutionError == "" {
		cfg.OnResolutionError = AbortOnError
	}
	return &Collector{
		fetcher:  cfg.Fetcher,
		policy:   cfg.OnResolutionError,
		observer: cfg.Observer,
	}
}

func (c *Collector) notify(document string, s State) {
	if c.observer != nil {
		c.observer(document, s)
	}
}

// Collect fetches the document at rawURL once, extracts the links in its
// attributes and resolves each one against rawURL.
//
// Links are returned in document order, duplicates included. On failure no
// links are returned: rawURL is validated before any network access, and an
// unresolvable reference fails the whole call unless the collector skips
// resolution errors.
func (c *Collector) Collect(ctx context.Context, rawURL string) ([]Link, error) {
	c.notify(rawURL, StateIdle)

	doc, err := uri.ParseAbsolute(rawURL)
	if err != nil {
		c.notify(rawURL, StateFailed)
		return nil, failure.Wrap(err,
			failure.WithCode(ErrInvalidInput),
			failure.Message("Invalid document URL: "+rawURL),
			failure.Context{
				"url": rawURL,
			},
		)
	}
	if scheme := doc.Scheme(); scheme != "http" && scheme != "https" {
		c.notify(rawURL, StateFailed)
		return nil, failure.New(ErrInvalidInput,
			failure.Message("Only http and https documents can be collected"),
			failure.Context{
				"url":    rawURL,
				"scheme": scheme,
			},
		)
	}

	logger := log.Logger.With("document", doc.Href(false))

	c.notify(rawURL, StateFetching)
	data, err := c.fetcher.Fetch(ctx, source.Remote(doc))
	if err != nil {
		c.notify(rawURL, StateFailed)
		logger.Debug("Fetch failed", "error", err)
		return nil, failure.Wrap(err,
			failure.WithCode(ErrFetch),
			failure.Context{
				"url": rawURL,
			},
		)
	}

	c.notify(rawURL, StateExtracting)
	occurrences := extract.Extract(data.Content, extract.Options{})
	logger.Debug("Extracted links", "count", len(occurrences))

	c.notify(rawURL, StateResolving)
	links, err := c.resolveAll(logger, occurrences, doc, data.Input)
	if err != nil {
		c.notify(rawURL, StateFailed)
		return nil, err
	}

	c.notify(rawURL, StateDone)
	return links, nil
}

func (c *Collector) resolveAll(logger *slog.Logger, occurrences []extract.Occurrence, base *url.Url, in source.Input) ([]Link, error) {
	links := make([]Link, 0, len(occurrences))
	skipped := 0
	for _, o := range occurrences {
		target, err := resolve.Resolve(o.Text, base)
		if err != nil {
			if c.policy == SkipOnError {
				skipped++
				logger.Warn("Skipping unresolvable link",
					"reference", o.Text,
					"element", o.Element,
					"attribute", o.Attribute,
				)
				continue
			}
			return nil, failure.Wrap(err,
				failure.WithCode(ErrResolution),
				failure.Context{
					"reference": o.Text,
					"element":   o.Element,
					"attribute": o.Attribute,
				},
			)
		}

		link, err := newLink(o, target, in)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if skipped > 0 {
		logger.Info("Collected links", "count", len(links), "skipped", skipped)
	}
	return links, nil
}

// CollectAll runs Collect for every address, at most concurrency at a time
// (unbounded when concurrency <= 0). Results are in the order of rawURLs and
// a failed document does not stop the others.
func (c *Collector) CollectAll(ctx context.Context, rawURLs []string, concurrency int) []Result {
	results := make([]Result, len(rawURLs))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, rawURL := range rawURLs {
		g.Go(func() error {
			links, err := c.Collect(ctx, rawURL)
			results[i] = Result{Document: rawURL, Links: links, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Close releases resources held by the collector's fetcher.
func (c *Collector) Close() {
	if closer, ok := c.fetcher.(interface{ Close() }); ok {
		closer.Close()
	}
}
