package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/api/extract"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeMarkdown writes markdown to w. On a terminal it is rendered with
// glamour and, unless noPager is set, shown in the pager.
func writeMarkdown(w io.Writer, markdown string, noPager bool) error {
	if !isTerminal(w) {
		_, err := io.WriteString(w, markdown)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(160),
	)
	if err != nil {
		return failure.Wrap(err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return failure.Wrap(err)
	}

	if noPager {
		_, err := io.WriteString(w, out)
		return err
	}
	if err := RunPager(out); err != nil {
		return failure.Wrap(err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// cell escapes a value for a Markdown table cell
func cell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

func table(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// linksMarkdown renders the outcome of collecting one document
func linksMarkdown(r api.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Document)

	if r.Err != nil {
		fmt.Fprintf(&b, "**Error:** %s\n\n", errorMessage(r.Err))
		return b.String()
	}
	if len(r.Links) == 0 {
		b.WriteString("No links found.\n\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d links\n\n", len(r.Links))
	rows := lo.Map(r.Links, func(l api.Link, i int) []string {
		return []string{strconv.Itoa(i + 1), cell(l.Element), cell(l.Attribute), cell(l.URL.Host), cell(l.URL.String())}
	})
	b.WriteString(table([]string{"#", "element", "attribute", "host", "url"}, rows))
	b.WriteString("\n")
	return b.String()
}

// occurrencesMarkdown renders raw extraction results
func occurrencesMarkdown(title string, occurrences []extract.Occurrence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(occurrences) == 0 {
		b.WriteString("No links found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d links\n\n", len(occurrences))
	rows := lo.Map(occurrences, func(o extract.Occurrence, i int) []string {
		return []string{strconv.Itoa(i + 1), cell(o.Element), cell(o.Attribute), cell(o.Text)}
	})
	b.WriteString(table([]string{"#", "element", "attribute", "link"}, rows))
	return b.String()
}

// errorMessage returns the user facing message of err
func errorMessage(err error) string {
	if fmsg := failure.MessageOf(err); fmsg != "" {
		return fmsg.String()
	}
	return err.Error()
}

// UserMessage returns the message shown for a failed command, followed by
// its error code when it carries one.
func UserMessage(err error) string {
	msg := errorMessage(err)
	if code, ok := failure.CodeOf(err).(interface{ ErrorCode() string }); ok {
		msg = fmt.Sprintf("%s (%s)", msg, code.ErrorCode())
	}
	return msg
}
