package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/api/fetch"
	"github.com/ka2n/hiroi/api/source"
	"github.com/ka2n/hiroi/log"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	collectJSON        bool
	collectNoPager     bool
	collectOnError     errorPolicyFlag
	collectTimeout     time.Duration
	collectUserAgent   string
	collectRate        float64
	collectConcurrency int

	collectCmd = &cobra.Command{
		Use:   "collect URL...",
		Short: "Fetch documents and list their resolved links",
		Long: `Fetch each document once, extract the links in its attributes and resolve
them against the document address.

Links in text content and inside verbatim elements such as <pre> and <code>
are not collected. A link that cannot be resolved fails the whole document
unless --on-error=skip is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCollect,
	}
)

func init() {
	flags := collectCmd.Flags()
	flags.BoolVar(&collectJSON, "json", false, "Print results as JSON")
	flags.BoolVar(&collectNoPager, "no-pager", false, "Do not page output on a terminal")
	flags.Var(&collectOnError, "on-error", "What to do with a link that cannot be resolved: abort or skip")
	flags.DurationVar(&collectTimeout, "timeout", fetch.DefaultTimeout, "Timeout for fetching a document")
	flags.StringVar(&collectUserAgent, "user-agent", fetch.DefaultUserAgent, "User-Agent header sent with requests")
	flags.Float64Var(&collectRate, "rate", 0, "Maximum requests per second, 0 for no limit")
	flags.IntVarP(&collectConcurrency, "concurrency", "c", 4, "Number of documents fetched at once")
	rootCmd.AddCommand(collectCmd)
}

type collectOutput struct {
	Document string     `json:"document"`
	Links    []api.Link `json:"links"`
	Error    string     `json:"error,omitempty"`
	Code     string     `json:"code,omitempty"`
}

func runCollect(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if kind := source.DetectKind(arg); !kind.IsRemote() {
			return failure.New(UnsupportedSource,
				failure.Message(fmt.Sprintf("%q is not an http(s) URL, use `hiroi extract` for local documents", arg)),
				failure.Context{
					"input": arg,
					"kind":  kind.String(),
				},
			)
		}
	}

	fetcher := fetch.NewHTTP(fetch.Config{
		Timeout:           collectTimeout,
		UserAgent:         collectUserAgent,
		RequestsPerSecond: collectRate,
	})
	collector := api.NewCollector(api.Config{
		Fetcher:           fetcher,
		OnResolutionError: collectOnError.Policy,
		Observer: func(document string, state api.State) {
			log.Debug("Collect", "document", document, "state", state)
		},
	})
	defer collector.Close()

	results := collector.CollectAll(cmd.Context(), args, collectConcurrency)

	if collectJSON {
		out := lo.Map(results, func(r api.Result, _ int) collectOutput {
			o := collectOutput{Document: r.Document, Links: r.Links}
			if r.Err != nil {
				o.Error = errorMessage(r.Err)
				o.Code = string(api.CodeOf(r.Err))
			}
			if o.Links == nil {
				o.Links = []api.Link{}
			}
			return o
		})
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return failure.Wrap(err)
		}
	} else {
		var b strings.Builder
		for _, r := range results {
			b.WriteString(linksMarkdown(r))
		}
		if err := writeMarkdown(cmd.OutOrStdout(), b.String(), collectNoPager); err != nil {
			return err
		}
	}

	failed := lo.Filter(results, func(r api.Result, _ int) bool {
		return r.Err != nil
	})
	switch {
	case len(failed) == 0:
		return nil
	case len(results) == 1:
		return failed[0].Err
	default:
		return failure.New(CollectFailed,
			failure.Message(fmt.Sprintf("%d of %d documents could not be collected", len(failed), len(results))),
		)
	}
}
