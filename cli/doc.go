// Package cli implements the command-line interface for hiroi.
//
// The cli package provides:
// - collect: fetch documents and list their resolved links
// - extract: list the raw link references of local markup
// - elements: the element/attribute pairs links are read from
// - Markdown or JSON output, paged when writing to a terminal
package cli
