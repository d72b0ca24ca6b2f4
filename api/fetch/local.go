package fetch

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ka2n/hiroi/api/source"
	"github.com/morikuni/failure/v2"
)

// Local reads documents from files, stdin or literal strings. It never
// touches the network.
type Local struct {
	// Stdin is read for source.KindStdin inputs. Defaults to os.Stdin.
	Stdin io.Reader
}

var _ Fetcher = (*Local)(nil)

// Fetch reads a local document. Remote inputs are rejected.
func (l *Local) Fetch(ctx context.Context, in source.Input) (source.Data, error) {
	if err := ctx.Err(); err != nil {
		return source.Data{}, failure.Wrap(err, failure.WithCode(ErrRead))
	}

	var (
		body []byte
		err  error
	)
	switch in.Kind {
	case source.KindFile:
		body, err = os.ReadFile(in.Path)
	case source.KindStdin:
		r := l.Stdin
		if r == nil {
			r = os.Stdin
		}
		body, err = io.ReadAll(r)
	case source.KindString:
		body = []byte(in.Content)
	default:
		return source.Data{}, failure.New(ErrUnsupportedSource,
			failure.Message("Only files, stdin and literal markup can be read locally"),
			failure.Context{
				"kind": in.Kind.String(),
			},
		)
	}
	if err != nil {
		return source.Data{}, failure.Wrap(err,
			failure.WithCode(ErrRead),
			failure.Message("Failed to read "+in.String()),
		)
	}

	// Charset is sniffed from the markup itself.
	content := decode(body, "")
	if strings.TrimSpace(content) == "" {
		return source.Data{}, failure.New(ErrEmptyDocument,
			failure.Message(in.String()+" is empty"),
		)
	}

	return source.Data{
		Input:     in,
		Content:   content,
		FetchedAt: time.Now(),
	}, nil
}
