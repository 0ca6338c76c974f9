package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/sap-mentor-api/internal/dto"
	"github.com/noah-isme/sap-mentor-api/internal/models"
)

func seedNotifications(t *testing.T, db *gorm.DB) []models.Notification {
	t.Helper()

	notifications := []models.Notification{
		{MentorEmail: testMentor, Type: models.NotificationPendingReview, Message: "You have 2 submissions awaiting review"},
		{MentorEmail: testMentor, Type: models.NotificationPendingReview, Message: "You have 1 submission awaiting review"},
		{MentorEmail: "other@college.edu", Type: models.NotificationPendingReview, Message: "not yours"},
	}
	for i := range notifications {
		require.NoError(t, db.Create(&notifications[i]).Error)
	}
	return notifications
}

func TestNotificationListScopedToMentor(t *testing.T) {
	app, db := setupMentorApp(t)
	seedNotifications(t, db)

	resp := doJSON(t, app, http.MethodGet, "/api/mentor/notifications/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var notifications []dto.NotificationResponse
	decodeData(t, resp, &notifications)
	require.Len(t, notifications, 2)
	for _, notification := range notifications {
		require.Equal(t, testMentor, notification.MentorEmail)
		require.False(t, notification.Read)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	app, db := setupMentorApp(t)
	seeded := seedNotifications(t, db)

	resp := doJSON(t, app, http.MethodPatch, "/api/mentor/notifications/"+itoa(seeded[0].ID)+"/read", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var notification dto.NotificationResponse
	decodeData(t, resp, &notification)
	require.True(t, notification.Read)

	// Another mentor's notification stays untouchable.
	resp = doJSON(t, app, http.MethodPatch, "/api/mentor/notifications/"+itoa(seeded[2].ID)+"/read", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestNotificationPendingProbe(t *testing.T) {
	app, db := setupMentorApp(t)
	seedSubmissions(t, db)

	resp := doJSON(t, app, http.MethodGet, "/api/mentor/notifications/pending/mentor%40college.edu", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status dto.PendingStatusResponse
	decodeData(t, resp, &status)
	require.True(t, status.HasPending)
	require.Equal(t, 2, status.PendingCount)
}

func TestNotificationPendingProbeEmptyQueue(t *testing.T) {
	app, _ := setupMentorApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/mentor/notifications/pending/mentor%40college.edu", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status dto.PendingStatusResponse
	decodeData(t, resp, &status)
	require.False(t, status.HasPending)
	require.Zero(t, status.PendingCount)
}
