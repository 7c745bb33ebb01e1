package task

import (
	"strconv"
	"strings"
)

// ActionKind identifies the handler a work item is routed to.
type ActionKind string

const (
	// ActionCreateLanding asks for a new dedicated landing page.
	ActionCreateLanding ActionKind = "create-landing"

	// ActionImproveLanding asks for on-page optimization of an existing page.
	ActionImproveLanding ActionKind = "improve-landing"

	// ActionTechFix asks for remediation of technical SEO issues.
	ActionTechFix ActionKind = "tech-fix"

	// ActionSupportingBlog asks for supporting content around a page that
	// already ranks in the top 3. It has no automated handler.
	ActionSupportingBlog ActionKind = "supporting-blog"

	// ActionUnknown is any action text that matches none of the above.
	ActionUnknown ActionKind = "unknown"
)

// actionOrder is the fixed match order used by ParseActionKind.
var actionOrder = []ActionKind{
	ActionCreateLanding,
	ActionImproveLanding,
	ActionTechFix,
	ActionSupportingBlog,
}

// ParseActionKind derives the kind from free-text action by case-insensitive
// substring match. The first kind in match order wins, so
// "improve-landing then create-landing" is ActionCreateLanding.
func ParseActionKind(action string) ActionKind {
	lower := strings.ToLower(action)
	for _, kind := range actionOrder {
		if strings.Contains(lower, string(kind)) {
			return kind
		}
	}
	return ActionUnknown
}

// String returns the string representation of the action kind.
func (k ActionKind) String() string {
	return string(k)
}

// Tier is the coarse priority assigned by the classifier.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Score returns the numeric priority score a classified item starts with.
func (t Tier) Score() float64 {
	switch t {
	case TierHigh:
		return 3.0
	case TierMedium:
		return 2.0
	case TierLow:
		return 1.0
	default:
		return 0
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// WorkItem is a single classified, scored candidate action for one keyword.
// Dispatchers read work items but never modify them.
type WorkItem struct {
	// TargetQuery is the keyword the item is about.
	TargetQuery string

	// SerpPosition is the observed rank, nil when not ranked in the window.
	SerpPosition *int

	// SerpURL is the URL the site ranks with, empty when unknown.
	SerpURL string

	// SuggestedURL is the page the keyword should rank with.
	SuggestedURL string

	// Action is the free-text action. Kind is derived from it.
	Action string
	Kind   ActionKind

	// PriorityScore is always finite.
	PriorityScore float64

	// Priority and Rationale are set by the classifier. Loaded rows may
	// leave them empty.
	Priority  Tier
	Rationale string

	// RankOnWrongURL is true when a page 2+ result ranks with a URL other
	// than SuggestedURL.
	RankOnWrongURL bool

	// TechIssues describes the issues a tech-fix item should remediate.
	TechIssues string

	// Extra holds source columns without a dedicated field.
	Extra map[string]string
}

// Position returns the observed rank and whether there is one.
func (w WorkItem) Position() (int, bool) {
	if w.SerpPosition == nil {
		return 0, false
	}
	return *w.SerpPosition, true
}

// PositionString formats the observed rank, or "" when absent.
func (w WorkItem) PositionString() string {
	if w.SerpPosition == nil {
		return ""
	}
	return strconv.Itoa(*w.SerpPosition)
}
