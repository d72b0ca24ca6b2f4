package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/log"
	"github.com/ka2n/hiroi/mcp"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	debugFlag bool

	// Root command
	rootCmd = &cobra.Command{
		Use:           "hiroi",
		Short:         "Pick up the links of HTML documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `hiroi extracts hyperlinks from HTML documents.

It reads every URL-bearing attribute (href, src, srcset, action, poster, ...)
and reports where each link was found. Remote documents are fetched once and
their links are resolved against the document address:

  hiroi collect https://example.com/
  hiroi extract page.html
  curl -s https://example.com/ | hiroi extract -`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				log.SetDebug(true)
			}
		},
	}

	// Version information
	Version = api.Version
	Commit  = api.VersionCommit
	Date    = "unknown"

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about hiroi",
		Run: func(cmd *cobra.Command, args []string) {
			commit := Commit
			if commit == "" {
				commit = "none"
			} else if api.VersionDirty {
				commit += " (modified)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hiroi version %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", Date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log HTTP traffic and collection progress (same as HIROI_DEBUG=1)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command())
}

// Run executes the main CLI functionality
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer api.Shutdown()

	return rootCmd.ExecuteContext(ctx)
}
