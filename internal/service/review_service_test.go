package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
)

type recordedInvalidation struct {
	calls []string
}

func (r *recordedInvalidation) Invalidate(ctx context.Context, mentorEmail string) {
	r.calls = append(r.calls, mentorEmail)
}

func newReviewService(repo *fakeSubmissionRepo, invalidator CacheInvalidator) ReviewService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewReviewService(repo, validate, nil, invalidator, testLogger())
}

func TestReviewServiceDecideAccepts(t *testing.T) {
	repo := newFakeSubmissionRepo(models.Submission{
		ID:          1,
		MentorEmail: "mentor@college.edu",
		Email:       "alice@example.com",
		Status:      models.StatusPending,
	})
	invalidator := &recordedInvalidation{}
	svc := newReviewService(repo, invalidator)

	result, err := svc.Decide(context.Background(), 1, "mentor@college.edu", dto.DecisionRequest{
		Status:       models.StatusAccepted,
		MarksAwarded: 30,
		DecisionNote: "well documented",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, result.Status)
	require.Equal(t, 30, result.MarksAwarded)
	require.Equal(t, "well documented", result.DecisionNote)
	require.NotNil(t, result.DecidedAt)
	require.Equal(t, []string{"mentor@college.edu"}, invalidator.calls)
}

func TestReviewServiceDecideSanitizesNote(t *testing.T) {
	repo := newFakeSubmissionRepo(models.Submission{
		ID:          1,
		MentorEmail: "mentor@college.edu",
		Status:      models.StatusPending,
	})
	svc := newReviewService(repo, nil)

	result, err := svc.Decide(context.Background(), 1, "mentor@college.edu", dto.DecisionRequest{
		Status:       models.StatusRejected,
		DecisionNote: `<script>alert("x")</script>duplicate certificate`,
	})
	require.NoError(t, err)
	require.Equal(t, "duplicate certificate", result.DecisionNote)
}

func TestReviewServiceDecideRejectsReopening(t *testing.T) {
	decidedAt := time.Now().Add(-time.Hour)
	repo := newFakeSubmissionRepo(models.Submission{
		ID:           1,
		MentorEmail:  "mentor@college.edu",
		Status:       models.StatusAccepted,
		MarksAwarded: 20,
		DecidedAt:    &decidedAt,
	})
	svc := newReviewService(repo, nil)

	_, err := svc.Decide(context.Background(), 1, "mentor@college.edu", dto.DecisionRequest{
		Status: models.StatusRejected,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, 0, repo.updateCalls)
}

func TestReviewServiceDecideIdempotentRepeat(t *testing.T) {
	decidedAt := time.Now().Add(-time.Hour)
	repo := newFakeSubmissionRepo(models.Submission{
		ID:           1,
		MentorEmail:  "mentor@college.edu",
		Status:       models.StatusAccepted,
		MarksAwarded: 20,
		DecisionNote: "fine",
		DecidedAt:    &decidedAt,
	})
	svc := newReviewService(repo, nil)

	result, err := svc.Decide(context.Background(), 1, "mentor@college.edu", dto.DecisionRequest{
		Status:       models.StatusAccepted,
		MarksAwarded: 20,
		DecisionNote: "fine",
	})
	require.NoError(t, err)
	require.Equal(t, 20, result.MarksAwarded)
	require.Equal(t, 0, repo.updateCalls)
}

func TestReviewServiceDecideHidesForeignSubmissions(t *testing.T) {
	repo := newFakeSubmissionRepo(models.Submission{
		ID:          1,
		MentorEmail: "other@college.edu",
		Status:      models.StatusPending,
	})
	svc := newReviewService(repo, nil)

	_, err := svc.Decide(context.Background(), 1, "mentor@college.edu", dto.DecisionRequest{Status: models.StatusAccepted})
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = svc.Decide(context.Background(), 99, "mentor@college.edu", dto.DecisionRequest{Status: models.StatusAccepted})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestReviewServiceDecideEventUpdatesMarks(t *testing.T) {
	repo := newFakeSubmissionRepo(models.Submission{
		ID:          1,
		MentorEmail: "mentor@college.edu",
		Category:    models.CategoryIndividualEvents,
		Status:      models.StatusPending,
		Events: models.EventList{
			{Key: "paperPresentation", Values: models.EventValues{Counts: map[string]any{"insidePresented": 2}}},
			{Key: "sportsGames", Status: models.EventStatusReviewed, MentorMarks: map[string]int{"statePrize": 40}},
		},
	})
	svc := newReviewService(repo, nil)

	result, err := svc.DecideEvent(context.Background(), 1, "mentor@college.edu", dto.EventMarksRequest{
		EventKey:   "paperPresentation",
		EventMarks: map[string]dto.FlexInt{"insidePresented": 10},
		EventNote:  "verified",
	})
	require.NoError(t, err)
	require.Equal(t, 50, result.MarksAwarded, "10 paper marks plus 40 sports marks")
	require.Equal(t, models.StatusReviewed, result.Status, "all events reviewed closes the submission")

	var reviewed dto.EventResponse
	for _, event := range result.Events {
		if event.Key == "paperPresentation" {
			reviewed = event
		}
	}
	require.Equal(t, models.EventStatusReviewed, reviewed.Status)
	require.Equal(t, 10, reviewed.MentorMarks["insidePresented"])
	require.Equal(t, "verified", reviewed.Note)
}

func TestReviewServiceDecideEventKeepsSubmissionOpen(t *testing.T) {
	repo := newFakeSubmissionRepo(models.Submission{
		ID:          1,
		MentorEmail: "mentor@college.edu",
		Category:    models.CategoryIndividualEvents,
		Status:      models.StatusPending,
		Events: models.EventList{
			{Key: "paperPresentation"},
			{Key: "sportsGames"},
		},
	})
	svc := newReviewService(repo, nil)

	result, err := svc.DecideEvent(context.Background(), 1, "mentor@college.edu", dto.EventMarksRequest{
		EventKey:   "paperPresentation",
		EventMarks: map[string]dto.FlexInt{"insidePresented": 10},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, result.Status, "one unreviewed event keeps the submission pending")
}

func TestReviewServiceDecideEventErrors(t *testing.T) {
	repo := newFakeSubmissionRepo(
		models.Submission{
			ID:          1,
			MentorEmail: "mentor@college.edu",
			Category:    models.CategoryIndividualEvents,
			Status:      models.StatusPending,
			Events:      models.EventList{{Key: "paperPresentation"}},
		},
		models.Submission{
			ID:          2,
			MentorEmail: "mentor@college.edu",
			Category:    models.CategoryActivity,
			Status:      models.StatusPending,
		},
	)
	svc := newReviewService(repo, nil)

	_, err := svc.DecideEvent(context.Background(), 1, "mentor@college.edu", dto.EventMarksRequest{
		EventKey:   "unknownEvent",
		EventMarks: map[string]dto.FlexInt{"x": 1},
	})
	require.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.DecideEvent(context.Background(), 2, "mentor@college.edu", dto.EventMarksRequest{
		EventKey:   "paperPresentation",
		EventMarks: map[string]dto.FlexInt{"x": 1},
	})
	require.ErrorIs(t, err, ErrNotEventSubmission)
}
