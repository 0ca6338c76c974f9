package aggregate

import (
	"sort"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

// CategoryBreakdown summarizes one category inside a student's report row.
// StudentMarks is clamped to the category cap here, at report time; the
// calculator itself never clamps.
type CategoryBreakdown struct {
	Count        int `json:"count"`
	StudentMarks int `json:"studentMarks"`
	MaxPoints    int `json:"maxPoints"`
}

// PerStudentTotal is one row of the mentor's aggregation report.
type PerStudentTotal struct {
	StudentEmail      string                       `json:"studentEmail"`
	StudentName       string                       `json:"studentName"`
	TotalSubmissions  int                          `json:"totalSubmissions"`
	PendingCount      int                          `json:"pendingCount"`
	AcceptedCount     int                          `json:"acceptedCount"`
	RejectedCount     int                          `json:"rejectedCount"`
	TotalMarksAwarded int                          `json:"totalMarksAwarded"`
	CategoryBreakdown map[string]CategoryBreakdown `json:"categoryBreakdown"`
}

// BuildReport folds the reviewed aggregates into per-student totals. It is a
// pure function of its input and orders rows by student email, so repeated
// refreshes over the same data produce identical output.
func BuildReport(aggregates map[string]*StudentAggregate) []PerStudentTotal {
	rows := make([]PerStudentTotal, 0, len(aggregates))

	for _, agg := range aggregates {
		row := PerStudentTotal{
			StudentEmail:      agg.Email,
			StudentName:       agg.DisplayName(),
			TotalSubmissions:  len(agg.Submissions),
			CategoryBreakdown: make(map[string]CategoryBreakdown, len(agg.ActivityData)),
		}

		for _, submission := range agg.Submissions {
			switch submission.Status {
			case models.StatusAccepted:
				row.AcceptedCount++
			case models.StatusRejected:
				row.RejectedCount++
			case models.StatusReviewed:
				// Reviewed closes the submission without a verdict count.
			default:
				row.PendingCount++
			}
			row.TotalMarksAwarded += submission.MarksAwarded
		}

		for key, data := range agg.ActivityData {
			if data.Count == 0 && data.StudentMarks == 0 && len(data.Proofs) == 0 {
				continue
			}
			row.CategoryBreakdown[key] = CategoryBreakdown{
				Count:        data.Count,
				StudentMarks: clampMarks(key, data.StudentMarks),
				MaxPoints:    categoryCap(key),
			}
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StudentEmail < rows[j].StudentEmail
	})
	return rows
}

// clampMarks enforces the category cap. The miscellaneous bucket carries no
// cap and passes through unchanged.
func clampMarks(categoryKey string, marks int) int {
	limit := categoryCap(categoryKey)
	if limit > 0 && marks > limit {
		return limit
	}
	return marks
}

func categoryCap(categoryKey string) int {
	for _, category := range scoring.Categories() {
		if category.Key == categoryKey {
			return category.MaxPoints
		}
	}
	return 0
}
