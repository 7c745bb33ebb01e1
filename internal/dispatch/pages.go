package dispatch

import "strings"

// provider is an insurer with a dedicated landing page.
type provider struct {
	name    string
	slug    string
	matches []string
}

// insuranceURLMarkers identify insurance landing pages by suggested URL.
var insuranceURLMarkers = []string{"takes-cigna", "takes-bcbs", "takes-umr"}

// providers are matched against the query in order.
var providers = []provider{
	{name: "Cigna", slug: "psychiatrist-orlando-takes-cigna", matches: []string{"cigna"}},
	{name: "Blue Cross Blue Shield (BCBS)", slug: "psychiatrist-orlando-takes-bcbs", matches: []string{"bcbs", "blue cross"}},
	{name: "UMR", slug: "psychiatrist-orlando-takes-umr", matches: []string{"umr"}},
}

// serviceQueryMarker identifies service-category pages, which already exist.
const serviceQueryMarker = "orlando"

func isInsurancePage(suggestedURL string) bool {
	u := strings.ToLower(suggestedURL)
	for _, marker := range insuranceURLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

// resolveProvider finds the insurer named in query. The URL only decides
// that the page is an insurance page; the provider comes from the query.
func resolveProvider(query string) (provider, bool) {
	q := strings.ToLower(query)
	for _, p := range providers {
		for _, m := range p.matches {
			if strings.Contains(q, m) {
				return p, true
			}
		}
	}
	return provider{}, false
}

func isServicePage(query string) bool {
	return strings.Contains(strings.ToLower(query), serviceQueryMarker)
}
