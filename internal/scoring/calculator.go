package scoring

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultUnitPoints is awarded per unit when neither the category nor the
// tier of an event can be determined. Loosely tagged submissions still score,
// at the cost of precision.
const DefaultUnitPoints = 5

// perUnitMarks is the legacy per-unit schedule used to estimate student
// marks from an event key when only a raw count is available.
var perUnitMarks = map[string]map[Tier]int{
	CategoryPaperPresentation: {
		TierInside:      5,
		TierOutsideZone: 20,
		TierState:       40,
		TierNational:    50,
	},
	CategoryProjectPresentation: {
		TierInside:      10,
		TierOutsideZone: 15,
		TierState:       20,
		TierNational:    100,
	},
}

// PointsFor returns count times the point value of the (category, sub-tier)
// column. Unknown pairs are worth 0; counts are coerced so malformed input
// can never produce a negative contribution.
func PointsFor(category ActivityCategory, subTier string, count any) int {
	column, ok := category.Column(subTier)
	if !ok {
		return 0
	}
	return CoerceCount(count) * column.Points
}

// CategoryTotal sums PointsFor over every sub-tier present in counts. The
// sum is deliberately not clamped to the category cap; the report builder
// applies MaxPoints when it presents a final aggregate.
func CategoryTotal(category ActivityCategory, counts map[string]any) int {
	total := 0
	for subTier, count := range counts {
		total += PointsFor(category, subTier, count)
	}
	return total
}

// MarksForEvent estimates the student marks of an event from its free-text
// key: count times the per-unit value of the inferred tier. Events whose
// tier or category has no schedule fall back to DefaultUnitPoints per unit.
func MarksForEvent(categoryKey, eventKey string, count int) int {
	if count < 0 {
		count = 0
	}
	if schedule, ok := perUnitMarks[categoryKey]; ok {
		if tier, classified := Classify(eventKey); classified {
			if unit, priced := schedule[tier]; priced {
				return count * unit
			}
		}
	}
	return count * DefaultUnitPoints
}

// CoerceCount converts an arbitrary JSON-decoded value into a non-negative
// integer count. Strings are parsed, floats truncated, parse failures and
// negatives resolve to 0. Bad data yields a zeroed total, never an error.
func CoerceCount(value any) int {
	count := 0
	switch v := value.(type) {
	case int:
		count = v
	case int64:
		count = int(v)
	case float64:
		count = int(v)
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			count = int(parsed)
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			count = int(parsed)
		}
	}
	if count < 0 {
		return 0
	}
	return count
}

// SumCounts folds CoerceCount over every value in a counts map.
func SumCounts(counts map[string]any) int {
	total := 0
	for _, value := range counts {
		total += CoerceCount(value)
	}
	return total
}
