package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeSubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
	updateCalls int
	listCalls   int
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
	for _, submission := range submissions {
		if submission.ID == 0 {
			submission.ID = repo.nextID
		}
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
		repo.submissions[submission.ID] = submission
	}
	return repo
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	f.listCalls++
	var out []models.Submission
	for _, submission := range f.submissions {
		if filter.MentorEmail != "" && !strings.EqualFold(submission.MentorEmail, filter.MentorEmail) {
			continue
		}
		if filter.Status != "" {
			if filter.Status == models.StatusPending {
				if submission.Status != models.StatusPending && submission.Status != "" {
					continue
				}
			} else if submission.Status != filter.Status {
				continue
			}
		}
		if filter.Category != "" && submission.Category != filter.Category {
			continue
		}
		out = append(out, submission)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == 0 {
		submission.ID = f.nextID
		f.nextID++
	}
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	f.updateCalls++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) CountPendingByMentor(ctx context.Context, mentorEmail string) (int64, error) {
	var count int64
	for _, submission := range f.submissions {
		if strings.EqualFold(submission.MentorEmail, mentorEmail) &&
			(submission.Status == models.StatusPending || submission.Status == "") {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubmissionRepo) PendingMentors(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var mentors []string
	for _, submission := range f.submissions {
		if submission.MentorEmail == "" {
			continue
		}
		if submission.Status != models.StatusPending && submission.Status != "" {
			continue
		}
		if _, ok := seen[submission.MentorEmail]; ok {
			continue
		}
		seen[submission.MentorEmail] = struct{}{}
		mentors = append(mentors, submission.MentorEmail)
	}
	sort.Strings(mentors)
	return mentors, nil
}
