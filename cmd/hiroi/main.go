// Command hiroi extracts and resolves the links of HTML documents.
package main

import (
	"fmt"
	"os"

	"github.com/ka2n/hiroi/cli"
	"github.com/ka2n/hiroi/log"
)

func main() {
	if err := cli.Run(); err != nil {
		if log.IsDebug() {
			log.Error("Command failed", "detail", fmt.Sprintf("%+v", err))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.UserMessage(err))
		os.Exit(1)
	}
}
