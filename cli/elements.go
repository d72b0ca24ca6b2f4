package cli

import (
	"fmt"
	"strings"

	"github.com/ka2n/hiroi/api/extract"
	"github.com/spf13/cobra"
)

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List the element attributes links are read from",
	Long:  "Display every element/attribute pair the extractor reads links from, and the verbatim elements it can skip",
	Run:   runElements,
}

func init() {
	rootCmd.AddCommand(elementsCmd)
}

func runElements(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()

	// Group attributes by element, keeping rule order
	var elements []string
	attributes := make(map[string][]string)
	for _, r := range extract.Rules() {
		if _, ok := attributes[r.Element]; !ok {
			elements = append(elements, r.Element)
		}
		attributes[r.Element] = append(attributes[r.Element], r.Attribute)
	}

	fmt.Fprintln(w, "Link attributes:")
	for _, element := range elements {
		name := element
		if element == extract.AnyElement {
			name = "(any)"
		}
		note := ""
		if element == "meta" {
			note = ` (http-equiv="refresh" only)`
		}
		fmt.Fprintf(w, "  %-10s %s%s\n", name, strings.Join(attributes[element], ", "), note)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verbatim elements (skipped by collect, see extract --verbatim):")
	fmt.Fprintf(w, "  %s\n", strings.Join(extract.VerbatimElements(), ", "))
}
