package api

import "github.com/ka2n/hiroi/api/extract"

// Extract returns every link occurrence in src in document order. Links in
// verbatim elements such as <pre> and <code> are included; absolute URLs in
// text content are included when includeTextLinks is set.
//
// Extract performs no network access and never fails.
func Extract(src string, includeTextLinks bool) []extract.Occurrence {
	return extract.Extract(src, extract.Options{
		IncludeTextLinks: includeTextLinks,
		IncludeVerbatim:  true,
	})
}
