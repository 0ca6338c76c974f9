package scoring

import "strings"

// Category keys used across the API. CategoryMiscellaneous collects
// everything the registry cannot attribute to a scored table.
const (
	CategoryPaperPresentation   = "paperPresentation"
	CategoryProjectPresentation = "projectPresentation"
	CategoryTechnoManagerial    = "technoManagerial"
	CategorySportsGames         = "sportsGames"
	CategoryMiscellaneous       = "miscellaneous"
)

// TierColumn is one scored column of an activity table: a sub-tier key such
// as "insidePresented" or "zonePrize" together with its per-unit point value.
type TierColumn struct {
	Key    string
	Label  string
	Points int
}

// ActivityCategory is an immutable scoring table for one class of activity.
type ActivityCategory struct {
	Key       string
	Title     string
	Columns   []TierColumn
	MaxPoints int
}

// Column returns the column registered under the given sub-tier key.
func (c ActivityCategory) Column(key string) (TierColumn, bool) {
	for _, column := range c.Columns {
		if column.Key == key {
			return column, true
		}
	}
	return TierColumn{}, false
}

var categories = []ActivityCategory{
	{
		Key:   CategoryPaperPresentation,
		Title: "Paper Presentation",
		Columns: []TierColumn{
			{Key: "insidePresented", Label: "Inside", Points: 5},
			{Key: "outsidePresented", Label: "Outside", Points: 10},
			{Key: "premierPresented", Label: "Premier", Points: 20},
			{Key: "insidePrize", Label: "Prize Inside", Points: 20},
			{Key: "outsidePrize", Label: "Prize Outside", Points: 30},
			{Key: "premierPrize", Label: "Prize Premier", Points: 50},
		},
		MaxPoints: 75,
	},
	{
		Key:   CategoryProjectPresentation,
		Title: "Project Presentation",
		Columns: []TierColumn{
			{Key: "insidePresented", Label: "Inside", Points: 10},
			{Key: "outsidePresented", Label: "Outside", Points: 15},
			{Key: "premierPresented", Label: "Premier", Points: 20},
			{Key: "insidePrize", Label: "Prize Inside", Points: 20},
			{Key: "outsidePrize", Label: "Prize Outside", Points: 30},
			{Key: "premierPrize", Label: "Prize Premier", Points: 50},
		},
		MaxPoints: 100,
	},
	{
		Key:   CategoryTechnoManagerial,
		Title: "Techno Managerial Events",
		Columns: []TierColumn{
			{Key: "insideParticipated", Label: "Inside", Points: 2},
			{Key: "outsideParticipated", Label: "Outside", Points: 5},
			{Key: "stateParticipated", Label: "State", Points: 10},
			{Key: "nationalParticipated", Label: "National/International", Points: 20},
			{Key: "insidePrize", Label: "Prize Inside", Points: 10},
			{Key: "outsidePrize", Label: "Prize Outside", Points: 20},
			{Key: "statePrize", Label: "Prize State", Points: 30},
			{Key: "nationalPrize", Label: "Prize National/International", Points: 50},
		},
		MaxPoints: 75,
	},
	{
		Key:   CategorySportsGames,
		Title: "Sports & Games",
		Columns: []TierColumn{
			{Key: "insideParticipated", Label: "Inside", Points: 2},
			{Key: "zoneParticipated", Label: "Zone/Outside", Points: 10},
			{Key: "stateParticipated", Label: "State/Inter Zone", Points: 20},
			{Key: "nationalParticipated", Label: "National/International", Points: 50},
			{Key: "insidePrize", Label: "Prize Inside", Points: 5},
			{Key: "zonePrize", Label: "Prize Zone/Outside", Points: 20},
			{Key: "statePrize", Label: "Prize State/Inter Zone", Points: 40},
			{Key: "nationalPrize", Label: "Prize National/International", Points: 100},
		},
		MaxPoints: 100,
	},
}

// categoryRule binds keywords to a table. Ordered, first match wins, same
// contract as the tier rules.
type categoryRule struct {
	keywords []string
	key      string
}

var categoryRules = []categoryRule{
	{keywords: []string{"paper"}, key: CategoryPaperPresentation},
	{keywords: []string{"project"}, key: CategoryProjectPresentation},
	{keywords: []string{"techno", "managerial"}, key: CategoryTechnoManagerial},
	{keywords: []string{"sports", "games"}, key: CategorySportsGames},
}

// Lookup resolves a free-text event key or title to its scoring table. The
// match is a case-insensitive substring check. A false return signals the
// caller to use the generic, un-tiered path.
func Lookup(key string) (ActivityCategory, bool) {
	normalized := strings.ToLower(key)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return categoryByKey(rule.key), true
			}
		}
	}
	return ActivityCategory{}, false
}

// Categories returns the scored tables in their canonical order.
func Categories() []ActivityCategory {
	out := make([]ActivityCategory, len(categories))
	copy(out, categories)
	return out
}

// CategoryKeys returns the scored table keys in canonical order.
func CategoryKeys() []string {
	keys := make([]string, 0, len(categories))
	for _, category := range categories {
		keys = append(keys, category.Key)
	}
	return keys
}

func categoryByKey(key string) ActivityCategory {
	for _, category := range categories {
		if category.Key == key {
			return category
		}
	}
	return ActivityCategory{}
}
