package dto

import (
	"github.com/noah-isme/sap-mentor-api/internal/aggregate"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

// ActivityDataResponse is one category bucket of a student aggregate.
type ActivityDataResponse struct {
	Count        int      `json:"count"`
	StudentMarks int      `json:"studentMarks"`
	Proofs       []string `json:"proofs"`
}

// StudentAggregateResponse is one normalized student with their merged
// identity and per-category activity data.
type StudentAggregateResponse struct {
	Email            string                          `json:"email"`
	Name             string                          `json:"name"`
	RollNumber       string                          `json:"rollNumber,omitempty"`
	Year             string                          `json:"year,omitempty"`
	Section          string                          `json:"section,omitempty"`
	Semester         string                          `json:"semester,omitempty"`
	TotalSubmissions int                             `json:"totalSubmissions"`
	ActivityData     map[string]ActivityDataResponse `json:"activityData"`
}

// NewStudentAggregateResponse maps an aggregate to its API shape.
func NewStudentAggregateResponse(agg *aggregate.StudentAggregate) StudentAggregateResponse {
	data := make(map[string]ActivityDataResponse, len(agg.ActivityData))
	for key, bucket := range agg.ActivityData {
		proofs := bucket.Proofs
		if proofs == nil {
			proofs = []string{}
		}
		data[key] = ActivityDataResponse{
			Count:        bucket.Count,
			StudentMarks: bucket.StudentMarks,
			Proofs:       proofs,
		}
	}
	return StudentAggregateResponse{
		Email:            agg.Email,
		Name:             agg.DisplayName(),
		RollNumber:       agg.RollNumber,
		Year:             agg.Year,
		Section:          agg.Section,
		Semester:         agg.Semester,
		TotalSubmissions: len(agg.Submissions),
		ActivityData:     data,
	}
}

// DashboardStats summarizes a mentor's whole queue.
type DashboardStats struct {
	TotalSubmissions int            `json:"totalSubmissions"`
	PendingCount     int            `json:"pendingCount"`
	AcceptedCount    int            `json:"acceptedCount"`
	RejectedCount    int            `json:"rejectedCount"`
	ReviewedCount    int            `json:"reviewedCount"`
	UniqueStudents   int            `json:"uniqueStudents"`
	TotalMarks       int            `json:"totalMarks"`
	CategoryCounts   map[string]int `json:"categoryCounts"`
}

// MentorReportResponse is the aggregation report for one mentor.
type MentorReportResponse struct {
	Stats DashboardStats              `json:"stats"`
	Rows  []aggregate.PerStudentTotal `json:"rows"`
}

// SapEventMarks is one reviewed event column of the SAP export.
type SapEventMarks struct {
	Title string `json:"title,omitempty"`
	Marks int    `json:"marks"`
	Note  string `json:"note,omitempty"`
}

// SapReportEntry is one student row of the SAP export, built from the
// latest individualEvents submission per student.
type SapReportEntry struct {
	StudentEmail string                   `json:"studentEmail"`
	StudentName  string                   `json:"studentName"`
	RollNumber   string                   `json:"rollNumber,omitempty"`
	Status       string                   `json:"status"`
	Events       map[string]SapEventMarks `json:"events"`
	TotalMarks   int                      `json:"totalMarks"`
}

// SapReportResponse keys the export by student email so spreadsheet
// clients can join rows without scanning.
type SapReportResponse struct {
	Entries map[string]SapReportEntry `json:"entries"`
	Total   int                       `json:"total"`
}

// CategoryScheduleResponse exposes the point tables so clients render
// the same schedule the server scores with.
type CategoryScheduleResponse struct {
	Categories []scoring.ActivityCategory `json:"categories"`
}
