// Package extract scans HTML markup for link references.
//
// Extraction is a single streaming pass over the x/net/html tokenizer. It
// never fails: malformed markup simply yields fewer occurrences. Nothing is
// resolved or validated here; an Occurrence carries the literal reference
// text and where in the markup it was found.
package extract
