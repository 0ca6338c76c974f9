package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupByKeyword(t *testing.T) {
	cases := []struct {
		key      string
		category string
	}{
		{"paperPresentation", CategoryPaperPresentation},
		{"IEEE Paper Reading", CategoryPaperPresentation},
		{"projectPresentation", CategoryProjectPresentation},
		{"technoManagerial", CategoryTechnoManagerial},
		{"Managerial Quiz", CategoryTechnoManagerial},
		{"sportsGames", CategorySportsGames},
		{"Inter College Games", CategorySportsGames},
	}

	for _, tc := range cases {
		category, ok := Lookup(tc.key)
		require.True(t, ok, "expected %q to resolve", tc.key)
		require.Equal(t, tc.category, category.Key, "key %q", tc.key)
	}
}

func TestLookupUnknownSignalsGenericPath(t *testing.T) {
	_, ok := Lookup("blood donation camp")
	require.False(t, ok)
}

func TestTablesMatchTheCollegeSchedule(t *testing.T) {
	paper, ok := Lookup("paper")
	require.True(t, ok)
	require.Equal(t, 75, paper.MaxPoints)

	column, ok := paper.Column("insidePresented")
	require.True(t, ok)
	require.Equal(t, 5, column.Points)

	column, ok = paper.Column("premierPrize")
	require.True(t, ok)
	require.Equal(t, 50, column.Points)

	project, ok := Lookup("project")
	require.True(t, ok)
	require.Equal(t, 100, project.MaxPoints)

	column, ok = project.Column("insidePresented")
	require.True(t, ok)
	require.Equal(t, 10, column.Points)

	sports, ok := Lookup("sports")
	require.True(t, ok)
	column, ok = sports.Column("nationalPrize")
	require.True(t, ok)
	require.Equal(t, 100, column.Points)
}

func TestCategoriesReturnsACopy(t *testing.T) {
	first := Categories()
	first[0].MaxPoints = -1

	second := Categories()
	require.Equal(t, 75, second[0].MaxPoints)
}
