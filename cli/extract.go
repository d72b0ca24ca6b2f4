package cli

import (
	"github.com/ka2n/hiroi/api/extract"
	"github.com/ka2n/hiroi/api/fetch"
	"github.com/ka2n/hiroi/api/source"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var (
	extractJSON      bool
	extractNoPager   bool
	extractTextLinks bool
	extractVerbatim  bool

	extractCmd = &cobra.Command{
		Use:   "extract [FILE|-|HTML]",
		Short: "List the link references of local markup",
		Long: `Scan a file, stdin ("-", the default) or a literal HTML string and list every
link reference with the element and attribute it was found in.

References are reported as written; nothing is fetched or resolved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}
)

func init() {
	flags := extractCmd.Flags()
	flags.BoolVar(&extractJSON, "json", false, "Print results as JSON")
	flags.BoolVar(&extractNoPager, "no-pager", false, "Do not page output on a terminal")
	flags.BoolVar(&extractTextLinks, "text-links", true, "Include absolute URLs found in text content")
	flags.BoolVar(&extractVerbatim, "verbatim", true, "Include links inside <pre>, <code> and other verbatim elements")
	rootCmd.AddCommand(extractCmd)
}

// localInput turns a command line argument into a local source
func localInput(arg string) (source.Input, error) {
	switch kind := source.DetectKind(arg); kind {
	case source.KindStdin:
		return source.Input{Kind: kind}, nil
	case source.KindFile:
		return source.Input{Kind: kind, Path: arg}, nil
	case source.KindString:
		return source.Input{Kind: kind, Content: arg}, nil
	case source.KindRemoteURL:
		return source.Input{}, failure.New(UnsupportedSource,
			failure.Message("extract does not fetch remote documents, use `hiroi collect "+arg+"`"),
			failure.Context{
				"input": arg,
			},
		)
	default:
		return source.Input{}, failure.New(InvalidArguments,
			failure.Message("Nothing to extract from"),
		)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	arg := "-"
	if len(args) == 1 {
		arg = args[0]
	}

	in, err := localInput(arg)
	if err != nil {
		return err
	}

	reader := &fetch.Local{Stdin: cmd.InOrStdin()}
	data, err := reader.Fetch(cmd.Context(), in)
	if err != nil {
		return err
	}

	occurrences := extract.Extract(data.Content, extract.Options{
		IncludeTextLinks: extractTextLinks,
		IncludeVerbatim:  extractVerbatim,
	})

	if extractJSON {
		if err := writeJSON(cmd.OutOrStdout(), occurrences); err != nil {
			return failure.Wrap(err)
		}
		return nil
	}
	return writeMarkdown(cmd.OutOrStdout(), occurrencesMarkdown(in.String(), occurrences), extractNoPager)
}
