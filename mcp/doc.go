// Package mcp serves the link extractor over the Model Context Protocol.
//
// Two tools are exposed on stdio:
//   - extract_links lists the link references of an HTML string
//   - collect_links fetches a document and returns its resolved links
package mcp
