package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/sap-mentor-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	MentorEmail string
	Status      string
	Category    string
	Search      string
}

// SubmissionRepository defines data operations for activity submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	CountPendingByMentor(ctx context.Context, mentorEmail string) (int64, error)
	PendingMentors(ctx context.Context) ([]string, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.MentorEmail != "" {
		query = query.Where("mentor_email = ?", filter.MentorEmail)
	}

	if filter.Status != "" {
		if filter.Status == models.StatusPending {
			// Legacy rows predate the status column and count as pending.
			query = query.Where("status = ? OR status = ''", models.StatusPending)
		} else {
			query = query.Where("status = ?", filter.Status)
		}
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR LOWER(user_name) LIKE ? OR LOWER(student_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at ASC, id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) CountPendingByMentor(ctx context.Context, mentorEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("mentor_email = ?", mentorEmail).
		Where("status = ? OR status = ''", models.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) PendingMentors(ctx context.Context) ([]string, error) {
	var mentors []string
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("status = ? OR status = ''", models.StatusPending).
		Where("mentor_email <> ''").
		Distinct().
		Pluck("mentor_email", &mentors).Error
	if err != nil {
		return nil, err
	}
	return mentors, nil
}
