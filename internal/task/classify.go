package task

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/seopilot/seopilot/internal/serp"
)

// Position thresholds of the classification table.
const (
	topThreeMax = 3
	pageOneMax  = 10
)

// Classifier maps rank observations to work items.
type Classifier struct {
	// SiteURL is the site the suggested URLs are built on, without a
	// trailing slash.
	SiteURL string

	// Window is how many results the oracle inspects. It only appears in
	// rationale text.
	Window int
}

// NewClassifier creates a Classifier for the site at siteURL.
func NewClassifier(siteURL string, window int) *Classifier {
	return &Classifier{
		SiteURL: strings.TrimRight(siteURL, "/"),
		Window:  window,
	}
}

// Classify builds the work item for obs. Rows are evaluated in order:
// unranked, top 3, page 1, page 2+.
func (c *Classifier) Classify(obs serp.Observation) WorkItem {
	item := WorkItem{
		TargetQuery:  obs.Keyword,
		SuggestedURL: c.SuggestedURL(obs.Keyword),
		SerpURL:      obs.URLValue(),
	}

	pos, ranked := obs.PositionValue()
	if ranked {
		p := pos
		item.SerpPosition = &p
	}

	switch {
	case !ranked:
		item.Kind = ActionCreateLanding
		item.Priority = TierHigh
		item.Rationale = fmt.Sprintf("Not ranking in top %d - create dedicated landing page", c.Window)
	case pos <= topThreeMax:
		item.Kind = ActionSupportingBlog
		item.Priority = TierLow
		item.Rationale = fmt.Sprintf("Position %d (Top 3) - defend with supporting content and internal links", pos)
	case pos <= pageOneMax:
		item.Kind = ActionImproveLanding
		item.Priority = TierMedium
		item.Rationale = fmt.Sprintf("Position %d (Page 1) - optimize title/meta/content to push into Top 3", pos)
	default:
		item.Kind = ActionImproveLanding
		item.Priority = TierHigh
		item.Rationale = fmt.Sprintf("Position %d (Page 2+) - significantly improve content and on-page SEO", pos)
		// Only page 2+ mismatches are actionable.
		item.RankOnWrongURL = item.SerpURL != "" && NormalizeURL(item.SerpURL) != NormalizeURL(item.SuggestedURL)
	}

	item.Action = item.Kind.String()
	item.PriorityScore = item.Priority.Score()
	return item
}

// SuggestedURL derives the landing page URL for keyword.
func (c *Classifier) SuggestedURL(keyword string) string {
	return c.SiteURL + "/" + Slug(keyword) + "/"
}

// Slug lowercases keyword, joins words with hyphens and rewrites the token
// "accepts" to "takes".
func Slug(keyword string) string {
	words := strings.Fields(cases.Lower(language.Und).String(keyword))
	for i, w := range words {
		if w == "accepts" {
			words[i] = "takes"
		}
	}
	return strings.Join(words, "-")
}

// NormalizeURL lowercases u and strips its scheme and a leading "www.".
func NormalizeURL(u string) string {
	n := strings.ToLower(strings.TrimSpace(u))
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(n, scheme) {
			n = strings.TrimPrefix(n, scheme)
			break
		}
	}
	return strings.TrimPrefix(n, "www.")
}
