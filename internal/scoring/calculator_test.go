package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointsForIsPure(t *testing.T) {
	paper, ok := Lookup("paperPresentation")
	require.True(t, ok)

	first := PointsFor(paper, "outsidePrize", 3)
	second := PointsFor(paper, "outsidePrize", 3)
	require.Equal(t, 90, first)
	require.Equal(t, first, second)
}

func TestPointsForZeroCountAndUnknownTier(t *testing.T) {
	for _, category := range Categories() {
		for _, column := range category.Columns {
			require.Zero(t, PointsFor(category, column.Key, 0))
		}
		require.Zero(t, PointsFor(category, "noSuchTier", 7))
	}
}

func TestCategoryTotalPaperScenario(t *testing.T) {
	// Two inside presentations plus one outside prize on the paper table.
	paper, ok := Lookup("paperPresentation")
	require.True(t, ok)

	total := CategoryTotal(paper, map[string]any{
		"insidePresented": 2,
		"outsidePrize":    1,
	})
	require.Equal(t, 40, total)
}

func TestCategoryTotalIsNotClamped(t *testing.T) {
	paper, ok := Lookup("paper")
	require.True(t, ok)

	total := CategoryTotal(paper, map[string]any{"premierPrize": 10})
	require.Equal(t, 500, total)
	require.Greater(t, total, paper.MaxPoints)
}

func TestCoerceCount(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  int
	}{
		{"int", 4, 4},
		{"float", 2.9, 2},
		{"numeric string", "3", 3},
		{"padded string", " 7 ", 7},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"negative int", -5, 0},
		{"negative string", "-2", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CoerceCount(tc.input))
		})
	}
}

func TestSumCounts(t *testing.T) {
	total := SumCounts(map[string]any{
		"insidePresented": "2",
		"outsidePrize":    1,
		"premierPrize":    "junk",
		"zonePrize":       -3,
	})
	require.Equal(t, 3, total)
}

func TestMarksForEvent(t *testing.T) {
	require.Equal(t, 10, MarksForEvent(CategoryPaperPresentation, "insidePresented", 2))
	require.Equal(t, 20, MarksForEvent(CategoryPaperPresentation, "Outside Zone Seminar", 1))
	require.Equal(t, 100, MarksForEvent(CategoryProjectPresentation, "nationalParticipated", 1))
	// Premier has no per-unit schedule, so the default applies.
	require.Equal(t, 5, MarksForEvent(CategoryPaperPresentation, "premierPresented", 1))
	// Unscored categories always use the default rate.
	require.Equal(t, 15, MarksForEvent(CategorySportsGames, "zoneParticipated", 3))
	require.Zero(t, MarksForEvent(CategoryPaperPresentation, "insidePresented", -4))
}
