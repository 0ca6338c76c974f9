package scoring

import "strings"

// Tier is the qualification level of an activity. It decides which point
// column applies when an event key carries no explicit sub-tier.
type Tier string

const (
	TierInside      Tier = "inside"
	TierOutsideZone Tier = "outsideZone"
	TierPremier     Tier = "premier"
	TierState       Tier = "state"
	TierNational    Tier = "national"
)

// tierRule binds keywords to a tier. Rules are evaluated in order and the
// first match wins, so the precedence below is the documented behaviour for
// keys that mention more than one level.
type tierRule struct {
	keywords []string
	tier     Tier
}

var tierRules = []tierRule{
	{keywords: []string{"inside"}, tier: TierInside},
	{keywords: []string{"outside", "zone"}, tier: TierOutsideZone},
	{keywords: []string{"premier"}, tier: TierPremier},
	{keywords: []string{"state"}, tier: TierState},
	{keywords: []string{"national", "international"}, tier: TierNational},
}

// Classify infers a tier from a free-text event key. The match is a
// case-insensitive substring check; submissions are tagged loosely so no
// canonical identifier can be assumed. The second return value is false when
// no rule matches, in which case callers fall back to DefaultUnitPoints.
func Classify(key string) (Tier, bool) {
	normalized := strings.ToLower(key)
	for _, rule := range tierRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.tier, true
			}
		}
	}
	return "", false
}

// Label returns the canonical display label for the tier. Labels round-trip
// through Classify.
func (t Tier) Label() string {
	switch t {
	case TierInside:
		return "Inside"
	case TierOutsideZone:
		return "Outside/Zone"
	case TierPremier:
		return "Premier"
	case TierState:
		return "State"
	case TierNational:
		return "National/International"
	default:
		return string(t)
	}
}
