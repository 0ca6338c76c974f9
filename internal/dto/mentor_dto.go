package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/sap-mentor-api/internal/aggregate"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

// FlexInt decodes any JSON scalar into a non-negative integer. Clients have
// historically sent marks as numbers, numeric strings and occasionally
// garbage; all of it must coerce rather than fail the request.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*f = FlexInt(scoring.CoerceCount(raw))
	return nil
}

// Int returns the coerced value.
func (f FlexInt) Int() int {
	return int(f)
}

// DecisionRequest is the payload for deciding a whole submission.
type DecisionRequest struct {
	Status       string  `json:"status" validate:"required,oneof=accepted rejected reviewed"`
	MarksAwarded FlexInt `json:"marksAwarded"`
	DecisionNote string  `json:"decisionNote"`
}

// EventMarksRequest is the payload for reviewing one event inside an
// individualEvents submission.
type EventMarksRequest struct {
	EventKey   string             `json:"eventKey" validate:"required"`
	EventMarks map[string]FlexInt `json:"eventMarks" validate:"required"`
	EventNote  string             `json:"eventNote"`
}

// SubmissionListFilter narrows and orders the mentor's submission list.
type SubmissionListFilter struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending accepted rejected reviewed"`
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort" validate:"omitempty,oneof=newest oldest name status"`
}

// EventResponse serializes one nested event.
type EventResponse struct {
	Key          string         `json:"key"`
	Title        string         `json:"title,omitempty"`
	Counts       map[string]any `json:"counts,omitempty"`
	StudentMarks map[string]any `json:"studentMarks,omitempty"`
	MentorMarks  map[string]int `json:"mentorMarks,omitempty"`
	Note         string         `json:"note,omitempty"`
	ProofURLs    []string       `json:"proofUrls,omitempty"`
	Status       string         `json:"status"`
}

// SubmissionResponse is returned whenever a submission is listed or decided.
// Proofs carries the resolved, de-duplicated references from every legacy
// field so clients never re-implement the lookup.
type SubmissionResponse struct {
	ID           uint            `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	RollNumber   string          `json:"rollNumber,omitempty"`
	Activity     string          `json:"activity,omitempty"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	MarksAwarded int             `json:"marksAwarded"`
	DecisionNote string          `json:"decisionNote,omitempty"`
	DecidedAt    *time.Time      `json:"mentorDecisionAt,omitempty"`
	Proofs       []string        `json:"proofs"`
	Events       []EventResponse `json:"events,omitempty"`
	SubmittedAt  time.Time       `json:"submittedAt"`
}

// NewSubmissionResponse maps a model to its API shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	name := submission.BestName()
	if name == "" {
		name = aggregate.UnknownStudentName
	}

	events := make([]EventResponse, 0, len(submission.Events))
	for _, event := range submission.Events {
		status := event.Status
		if status == "" {
			status = models.EventStatusPending
		}
		events = append(events, EventResponse{
			Key:          event.Key,
			Title:        event.Title,
			Counts:       event.Values.Counts,
			StudentMarks: event.Values.StudentMarks,
			MentorMarks:  event.MentorMarks,
			Note:         event.Note,
			ProofURLs:    event.ProofURLs,
			Status:       status,
		})
	}

	return SubmissionResponse{
		ID:           submission.ID,
		Email:        submission.Email,
		Name:         name,
		RollNumber:   submission.RollNumber,
		Activity:     submission.Activity,
		Category:     submission.Category,
		Status:       submission.Status,
		MarksAwarded: submission.MarksAwarded,
		DecisionNote: submission.DecisionNote,
		DecidedAt:    submission.DecidedAt,
		Proofs:       aggregate.ResolveProofs(submission),
		Events:       events,
		SubmittedAt:  submission.SubmittedAt,
	}
}

// NewSubmissionResponseSlice maps a list of models.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		out = append(out, NewSubmissionResponse(submission))
	}
	return out
}
