package serp

// Observation is the oracle's answer for one keyword. Its pointer and map
// fields are shared on copy; callers treat them as read-only and use Clone
// for an independent value.
type Observation struct {
	Keyword string
	// Position is the rank of the site, nil when outside the observed window.
	Position *int
	// URL is the page the oracle saw ranking, nil when not reported.
	URL *string
	// Competitors maps competitor domain to its position, nil when unranked.
	Competitors map[string]*int
}

// Ranked reports whether the site ranks inside the observed window.
func (o Observation) Ranked() bool {
	return o.Position != nil
}

// PositionValue returns the position and whether it is present.
func (o Observation) PositionValue() (int, bool) {
	if o.Position == nil {
		return 0, false
	}
	return *o.Position, true
}

// URLValue returns the reported URL or the empty string.
func (o Observation) URLValue() string {
	if o.URL == nil {
		return ""
	}
	return *o.URL
}

// CompetitorPosition returns a competitor's position and whether it ranks.
func (o Observation) CompetitorPosition(domain string) (int, bool) {
	p, ok := o.Competitors[domain]
	if !ok || p == nil {
		return 0, false
	}
	return *p, true
}

// Clone returns a deep copy of the observation.
func (o Observation) Clone() Observation {
	c := Observation{Keyword: o.Keyword}
	if o.Position != nil {
		c.Position = intPtr(*o.Position)
	}
	if o.URL != nil {
		u := *o.URL
		c.URL = &u
	}
	if o.Competitors != nil {
		c.Competitors = make(map[string]*int, len(o.Competitors))
		for domain, p := range o.Competitors {
			if p != nil {
				c.Competitors[domain] = intPtr(*p)
			} else {
				c.Competitors[domain] = nil
			}
		}
	}
	return c
}

func intPtr(v int) *int { return &v }
