package source

import (
	"os"
	"strings"
)

// DetectKind guesses the kind of a user supplied input: "-" is stdin, an
// http(s) address is remote, an existing path is a file and anything else
// is literal markup.
func DetectKind(input string) Kind {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "":
		return KindUnknown
	case trimmed == "-":
		return KindStdin
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindRemoteURL
	}

	if info, err := os.Stat(trimmed); err == nil && !info.IsDir() {
		return KindFile
	}
	return KindString
}
