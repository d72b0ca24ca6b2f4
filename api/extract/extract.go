package extract

import (
	"iter"
	"slices"
	"strings"

	"github.com/ka2n/hiroi/api/uri"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"mvdan.cc/xurls/v2"
)

// Occurrence is one link reference found in a document, before resolution.
type Occurrence struct {
	// Text is the literal reference, e.g. "/docs" or "https://example.com".
	Text string `json:"text"`
	// Element is the tag name the reference was read from. It is empty for
	// URLs found in text content.
	Element string `json:"element,omitempty"`
	// Attribute is the attribute the reference was read from. It is empty for
	// URLs found in text content.
	Attribute string `json:"attribute,omitempty"`
}

// Options controls what the extractor reports besides URL attributes.
type Options struct {
	// IncludeTextLinks reports absolute URLs that appear in text content.
	IncludeTextLinks bool
	// IncludeVerbatim reports links inside verbatim elements such as <pre>
	// and <code>.
	IncludeVerbatim bool
}

// Links returns the link occurrences of src in document order.
//
// The sequence is restartable: every range over it scans src from the
// beginning and yields the same occurrences.
func Links(src string, opts Options) iter.Seq[Occurrence] {
	return func(yield func(Occurrence) bool) {
		s := scanner{opts: opts, yield: yield}
		s.run(html.NewTokenizer(strings.NewReader(src)))
	}
}

// Extract collects Links into a slice.
func Extract(src string, opts Options) []Occurrence {
	occurrences := slices.Collect(Links(src, opts))
	if occurrences == nil {
		return []Occurrence{}
	}
	return occurrences
}

type scanner struct {
	opts  Options
	yield func(Occurrence) bool

	// open elements, innermost last
	open []openElement
	// number of verbatim elements in open
	inVerbatim int
	// script or style element whose raw text is being read
	rawText string
	stopped bool
}

type openElement struct {
	name     string
	verbatim bool
}

func (s *scanner) push(tok html.Token) {
	if void[tok.DataAtom] {
		return
	}
	v := verbatim[tok.DataAtom]
	s.open = append(s.open, openElement{name: tok.Data, verbatim: v})
	if v {
		s.inVerbatim++
	}
}

// pop closes the innermost open element named name together with everything
// opened inside it. Stray end tags are ignored.
func (s *scanner) pop(name string) {
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i].name != name {
			continue
		}
		for _, e := range s.open[i:] {
			if e.verbatim {
				s.inVerbatim--
			}
		}
		s.open = s.open[:i]
		return
	}
}

func (s *scanner) emit(o Occurrence) {
	if s.stopped {
		return
	}
	if !s.yield(o) {
		s.stopped = true
	}
}

func (s *scanner) skipping() bool {
	return !s.opts.IncludeVerbatim && s.inVerbatim > 0
}

func (s *scanner) run(z *html.Tokenizer) {
	for !s.stopped {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF, or markup the tokenizer gave up on.
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			opens := tt == html.StartTagToken
			if opens {
				s.push(tok)
			}
			if opens && (tok.DataAtom == atom.Script || tok.DataAtom == atom.Style) {
				s.rawText = tok.Data
			}
			if s.skipping() {
				continue
			}
			s.element(tok)
		case html.EndTagToken:
			tok := z.Token()
			s.pop(tok.Data)
			if s.rawText == tok.Data {
				s.rawText = ""
			}
		case html.TextToken:
			if !s.opts.IncludeTextLinks || s.rawText != "" || s.skipping() {
				continue
			}
			s.text(string(z.Text()))
		}
	}
}

func (s *scanner) element(tok html.Token) {
	name := tok.Data
	if name == "link" && isHint(attr(tok, "rel")) {
		return
	}
	if name == "meta" && !strings.EqualFold(attr(tok, "http-equiv"), "refresh") {
		// Only refresh directives put a URL in content.
		name = ""
	}

	for _, a := range tok.Attr {
		if a.Namespace != "" || !isURLAttribute(name, a.Key) {
			continue
		}
		switch {
		case a.Key == "srcset":
			for _, candidate := range srcsetURLs(a.Val) {
				s.emit(Occurrence{Text: candidate, Element: tok.Data, Attribute: a.Key})
			}
		case name == "meta" && a.Key == "content":
			if target := refreshURL(a.Val); target != "" {
				s.emit(Occurrence{Text: target, Element: tok.Data, Attribute: a.Key})
			}
		default:
			if v := uri.Clean(a.Val); v != "" {
				s.emit(Occurrence{Text: v, Element: tok.Data, Attribute: a.Key})
			}
		}
	}
}

func (s *scanner) text(text string) {
	for _, m := range xurls.Strict().FindAllString(text, -1) {
		s.emit(Occurrence{Text: m})
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isHint(rel string) bool {
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if slices.Contains(hintRels, r) {
			return true
		}
	}
	return false
}

// srcsetURLs returns the URL of every image candidate in a srcset value,
// e.g. "a.png 1x, b.png 2x".
func srcsetURLs(v string) []string {
	var urls []string
	for _, candidate := range strings.Split(v, ",") {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// refreshURL returns the target of a meta refresh directive such as
// "5; url=/next", or "" when the directive only reloads the page.
func refreshURL(content string) string {
	i := strings.IndexAny(content, ";,")
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeft(content[i+1:], " \t\n\f\r")
	if len(rest) >= 3 && strings.EqualFold(rest[:3], "url") {
		if after := strings.TrimLeft(rest[3:], " \t\n\f\r"); strings.HasPrefix(after, "=") {
			rest = strings.TrimLeft(after[1:], " \t\n\f\r")
		}
	}
	if rest != "" && (rest[0] == '"' || rest[0] == '\'') {
		quote := rest[0]
		rest = rest[1:]
		if j := strings.IndexByte(rest, quote); j >= 0 {
			rest = rest[:j]
		}
	}
	return uri.Clean(rest)
}
