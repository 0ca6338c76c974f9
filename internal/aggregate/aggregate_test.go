package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

func TestNormalizeGroupsEverySubmissionExactlyOnce(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, Email: "alice@example.com", Category: models.CategoryActivity},
		{ID: 2, Email: "bob@example.com", Category: models.CategoryActivity},
		{ID: 3, Email: "alice@example.com", Category: models.CategoryIndividualEvents},
	}

	aggregates := Normalize(submissions)
	require.Len(t, aggregates, 2)
	require.Len(t, aggregates["alice@example.com"].Submissions, 2)
	require.Len(t, aggregates["bob@example.com"].Submissions, 1)

	total := 0
	for _, agg := range aggregates {
		total += len(agg.Submissions)
	}
	require.Equal(t, len(submissions), total)
}

func TestNormalizeGroupsEmailsCaseInsensitively(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, Email: "Alice@Example.com", Name: "Alice"},
		{ID: 2, Email: "alice@example.com", RollNumber: "21CS042"},
		{ID: 3, Email: " ALICE@EXAMPLE.COM "},
	}

	aggregates := Normalize(submissions)
	require.Len(t, aggregates, 1)

	agg := aggregates["alice@example.com"]
	require.NotNil(t, agg)
	require.Equal(t, "alice@example.com", agg.Email)
	require.Len(t, agg.Submissions, 3)
	require.Equal(t, "Alice", agg.Name)
	require.Equal(t, "21CS042", agg.RollNumber)
}

func TestNormalizeSkipsRecordsWithoutEmail(t *testing.T) {
	aggregates := Normalize([]models.Submission{{ID: 1, Email: ""}})
	require.Empty(t, aggregates)
}

func TestNormalizeNameNonEmptyOverwrite(t *testing.T) {
	// An empty name must never erase one captured earlier, and a later
	// non-empty name wins.
	submissions := []models.Submission{
		{ID: 1, Email: "bob@example.com", Name: ""},
		{ID: 2, Email: "bob@example.com", Name: "Bob"},
		{ID: 3, Email: "bob@example.com", Name: ""},
	}

	aggregates := Normalize(submissions)
	require.Equal(t, "Bob", aggregates["bob@example.com"].Name)
}

func TestNormalizeIdentityMergeChain(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:         1,
			Email:      "carol@example.com",
			UserName:   "carol23",
			RollNumber: "23CSR001",
		},
		{
			ID:    2,
			Email: "carol@example.com",
			Details: datatypes.JSONMap{
				"studentName": "Carol S",
				"year":        "III",
			},
		},
	}

	aggregates := Normalize(submissions)
	agg := aggregates["carol@example.com"]
	require.Equal(t, "Carol S", agg.Name, "nested detail name outranks username")
	require.Equal(t, "23CSR001", agg.RollNumber, "sparse second record keeps earlier roll number")
	require.Equal(t, "III", agg.Year)
}

func TestNormalizeAccumulatesEventActivityData(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:       1,
			Email:    "alice@example.com",
			Category: models.CategoryIndividualEvents,
			Events: models.EventList{
				{
					Key: "paperPresentation",
					Values: models.EventValues{
						Counts: map[string]any{"insidePresented": 2, "outsidePrize": 1},
					},
					ProofURLs: []string{"/uploads/paper.png"},
				},
			},
		},
	}

	aggregates := Normalize(submissions)
	data := aggregates["alice@example.com"].ActivityData[scoring.CategoryPaperPresentation]
	require.Equal(t, 3, data.Count)
	require.Equal(t, 40, data.StudentMarks, "2x5 inside presented plus 1x30 outside prize")
	require.Equal(t, []string{"/uploads/paper.png"}, data.Proofs)
}

func TestNormalizeUsesCountFieldWhenValuesEmpty(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:       1,
			Email:    "dave@example.com",
			Category: models.CategoryIndividualEvents,
			Events: models.EventList{
				{Key: "projectPresentation insideExpo", Count: "2"},
			},
		},
	}

	aggregates := Normalize(submissions)
	data := aggregates["dave@example.com"].ActivityData[scoring.CategoryProjectPresentation]
	require.Equal(t, 2, data.Count)
	require.Equal(t, 20, data.StudentMarks, "two units at the inside project rate")
}

func TestNormalizeRoutesUnknownEventsToMiscellaneous(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:       1,
			Email:    "erin@example.com",
			Category: models.CategoryIndividualEvents,
			Events: models.EventList{
				{Key: "bloodDonation", Count: 3},
			},
		},
	}

	aggregates := Normalize(submissions)
	data := aggregates["erin@example.com"].ActivityData[scoring.CategoryMiscellaneous]
	require.Equal(t, 3, data.Count)
	require.Equal(t, 15, data.StudentMarks, "default five points per unit")
}

func TestNormalizeEmptyEventsYieldZeroActivityData(t *testing.T) {
	aggregates := Normalize([]models.Submission{
		{ID: 1, Email: "zoe@example.com", Category: models.CategoryIndividualEvents},
	})

	for _, data := range aggregates["zoe@example.com"].ActivityData {
		require.Zero(t, data.Count)
		require.Zero(t, data.StudentMarks)
		require.Empty(t, data.Proofs)
	}
}

func TestNormalizeAttributedSubmissionProofs(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:        1,
			Email:     "frank@example.com",
			Activity:  "National Paper Contest",
			ProofURLs: models.StringList{"/uploads/a.png"},
		},
	}

	aggregates := Normalize(submissions)
	agg := aggregates["frank@example.com"]
	require.Equal(t, []string{"/uploads/a.png"}, agg.ActivityData[scoring.CategoryPaperPresentation].Proofs)
	require.Empty(t, agg.ActivityData[scoring.CategorySportsGames].Proofs)
}

func TestNormalizeFansOutUnattributableProofs(t *testing.T) {
	submissions := []models.Submission{
		{
			ID:        1,
			Email:     "gina@example.com",
			Activity:  "volunteering",
			ProofURLs: models.StringList{"/uploads/v.png"},
		},
	}

	aggregates := Normalize(submissions)
	for key, data := range aggregates["gina@example.com"].ActivityData {
		require.Equal(t, []string{"/uploads/v.png"}, data.Proofs, "bucket %s", key)
	}
}

func TestOrderedKeepsFirstSeenOrder(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, Email: "z@example.com"},
		{ID: 2, Email: "a@example.com"},
		{ID: 3, Email: "z@example.com"},
	}

	ordered := Ordered(Normalize(submissions))
	require.Len(t, ordered, 2)
	require.Equal(t, "z@example.com", ordered[0].Email)
	require.Equal(t, "a@example.com", ordered[1].Email)
}

func TestLatestPicksNewestAndBreaksTiesByInputOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	submissions := []models.Submission{
		{ID: 1, Email: "s@example.com", Category: models.CategoryIndividualEvents, SubmittedAt: base},
		{ID: 2, Email: "s@example.com", Category: models.CategoryIndividualEvents, SubmittedAt: base.Add(time.Hour)},
		{ID: 3, Email: "s@example.com", Category: models.CategoryIndividualEvents, SubmittedAt: base.Add(time.Hour)},
		{ID: 4, Email: "s@example.com", Category: models.CategoryActivity, SubmittedAt: base.Add(2 * time.Hour)},
	}

	latest, ok := Latest(Normalize(submissions)["s@example.com"], models.CategoryIndividualEvents)
	require.True(t, ok)
	require.Equal(t, uint(2), latest.ID)
}

func TestLatestHandlesZeroTimestamps(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, Email: "s@example.com", Category: models.CategoryActivity},
		{ID: 2, Email: "s@example.com", Category: models.CategoryActivity, SubmittedAt: time.Unix(100, 0)},
	}

	latest, ok := Latest(Normalize(submissions)["s@example.com"], models.CategoryActivity)
	require.True(t, ok)
	require.Equal(t, uint(2), latest.ID)

	_, ok = Latest(Normalize(submissions)["s@example.com"], models.CategoryFullForm)
	require.False(t, ok)
}
