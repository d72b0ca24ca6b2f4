package extract

import (
	"slices"

	"golang.org/x/net/html/atom"
)

// AnyElement is the Rule.Element of attributes that carry a URL on every
// element.
const AnyElement = "*"

// Rule is one element/attribute pair whose value is scanned for a URL.
type Rule struct {
	Element   string `json:"element"`
	Attribute string `json:"attribute"`
}

var globalAttributes = []string{"href", "src", "srcset", "cite", "usemap"}

var elementAttributes = map[string][]string{
	"applet":  {"codebase"},
	"body":    {"background"},
	"button":  {"formaction"},
	"command": {"icon"},
	"form":    {"action"},
	"frame":   {"longdesc"},
	"head":    {"profile"},
	"html":    {"manifest"},
	"iframe":  {"longdesc"},
	"img":     {"longdesc"},
	"input":   {"formaction"},
	"meta":    {"content"},
	"object":  {"classid", "codebase", "data"},
	"video":   {"poster"},
}

// void elements never have an end tag.
var void = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// verbatim elements hold preformatted or literal text, usually code samples.
var verbatim = map[atom.Atom]bool{
	atom.Code:      true,
	atom.Kbd:       true,
	atom.Listing:   true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Pre:       true,
	atom.Samp:      true,
	atom.Textarea:  true,
	atom.Var:       true,
	atom.Xmp:       true,
}

// hintRels mark <link> elements that only warm up connections.
var hintRels = []string{"dns-prefetch", "preconnect"}

// isURLAttribute reports whether attr of element is known to carry a URL.
func isURLAttribute(element, attr string) bool {
	return slices.Contains(globalAttributes, attr) || slices.Contains(elementAttributes[element], attr)
}

// Rules returns every element/attribute pair the extractor reads, global
// attributes first, then per element in alphabetical order.
func Rules() []Rule {
	rules := make([]Rule, 0, len(globalAttributes)+len(elementAttributes))
	for _, attr := range globalAttributes {
		rules = append(rules, Rule{Element: AnyElement, Attribute: attr})
	}

	elements := make([]string, 0, len(elementAttributes))
	for element := range elementAttributes {
		elements = append(elements, element)
	}
	slices.Sort(elements)
	for _, element := range elements {
		for _, attr := range elementAttributes[element] {
			rules = append(rules, Rule{Element: element, Attribute: attr})
		}
	}
	return rules
}

// VerbatimElements returns the names of elements whose content is skipped
// unless Options.IncludeVerbatim is set.
func VerbatimElements() []string {
	names := make([]string, 0, len(verbatim))
	for a := range verbatim {
		names = append(names, a.String())
	}
	slices.Sort(names)
	return names
}
