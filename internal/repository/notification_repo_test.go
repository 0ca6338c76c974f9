package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sap-mentor-api/internal/models"
)

func TestNotificationRepositoryListByMentor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	for _, n := range []models.Notification{
		{MentorEmail: "m@college.edu", Type: models.NotificationPendingReview, Message: "first"},
		{MentorEmail: "m@college.edu", Type: models.NotificationPendingReview, Message: "second"},
		{MentorEmail: "other@college.edu", Type: models.NotificationPendingReview, Message: "elsewhere"},
	} {
		entry := n
		require.NoError(t, repo.Create(context.Background(), &entry))
	}

	listed, err := repo.ListByMentor(context.Background(), "m@college.edu", 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestNotificationRepositoryMarkReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	entry := models.Notification{MentorEmail: "m@college.edu", Type: models.NotificationPendingReview, Message: "ping"}
	require.NoError(t, repo.Create(context.Background(), &entry))

	first, err := repo.MarkRead(context.Background(), entry.ID, "m@college.edu")
	require.NoError(t, err)
	require.True(t, first.Read)

	again, err := repo.MarkRead(context.Background(), entry.ID, "m@college.edu")
	require.NoError(t, err)
	require.True(t, again.Read)

	_, err = repo.MarkRead(context.Background(), entry.ID, "stranger@college.edu")
	require.Error(t, err)
}

func TestActivityLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)

	id := uint(7)
	for _, entry := range []models.ActivityLog{
		{MentorEmail: "m@college.edu", Action: models.ActionSubmissionDecided, EntityType: "submission", EntityID: &id},
		{MentorEmail: "m@college.edu", Action: models.ActionEventReviewed, EntityType: "submission"},
		{MentorEmail: "other@college.edu", Action: models.ActionSubmissionDecided, EntityType: "submission"},
	} {
		log := entry
		require.NoError(t, repo.Create(context.Background(), &log))
	}

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{
		MentorEmail: "m@college.edu",
		Action:      models.ActionSubmissionDecided,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, &id, entries[0].EntityID)
}
