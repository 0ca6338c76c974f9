package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Submission is one activity-points record as reported by a student and
// assigned to a mentor. The shape has evolved through several generations of
// the intake form, so identity and proof fields exist in multiple places;
// the aggregate package reconciles them. The engine treats everything except
// the review fields (status, marks, note) as read-only.
type Submission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MentorEmail string `gorm:"size:255;index;not null" json:"mentorEmail"`
	Email       string `gorm:"size:255;index;not null" json:"email"`

	// Identity fields, oldest to newest form generation.
	Name        string            `gorm:"size:255" json:"name,omitempty"`
	UserName    string            `gorm:"size:255" json:"userName,omitempty"`
	StudentName string            `gorm:"size:255" json:"studentName,omitempty"`
	RollNumber  string            `gorm:"size:64" json:"rollNumber,omitempty"`
	Year        string            `gorm:"size:32" json:"year,omitempty"`
	Section     string            `gorm:"size:32" json:"section,omitempty"`
	Semester    string            `gorm:"size:32" json:"semester,omitempty"`
	Details     datatypes.JSONMap `gorm:"type:json" json:"details,omitempty"`

	Activity string `gorm:"size:255" json:"activity,omitempty"`
	Category string `gorm:"size:32;index" json:"category"`

	Status       string     `gorm:"size:32;index;not null" json:"status"`
	MarksAwarded int        `json:"marksAwarded"`
	DecisionNote string     `gorm:"type:text" json:"decisionNote,omitempty"`
	DecidedAt    *time.Time `json:"mentorDecisionAt,omitempty"`

	// Proof references. ProofURL is the legacy singular field; older records
	// may additionally carry proof fields inside Legacy.
	ProofURL  string            `gorm:"size:512" json:"proofUrl,omitempty"`
	ProofURLs StringList        `gorm:"type:json" json:"proofUrls,omitempty"`
	Legacy    datatypes.JSONMap `gorm:"type:json" json:"legacy,omitempty"`

	Events EventList `gorm:"type:json" json:"events,omitempty"`

	SubmittedAt time.Time `gorm:"index" json:"submittedAt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Submission categories. Unrecognized values are routed to the
// miscellaneous bucket during aggregation.
const (
	CategoryActivity         = "activity"
	CategoryFullForm         = "fullForm"
	CategoryIndividualEvents = "individualEvents"
)

// Submission review states.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusReviewed = "reviewed"
)

// Event review states. Events share pending/rejected with submissions but
// close through reviewed once mentor marks are stored.
const (
	EventStatusPending  = "pending"
	EventStatusReviewed = "reviewed"
	EventStatusRejected = "rejected"
)

// CanTransition reports whether a submission may move between the two review
// states. Terminal states never reopen; repeating the current state is
// allowed so a replayed decision stays idempotent.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	if from == "" || from == StatusPending {
		switch to {
		case StatusAccepted, StatusRejected, StatusReviewed:
			return true
		}
	}
	return false
}

// IsDecided reports whether the submission has left the pending state.
func (s Submission) IsDecided() bool {
	return s.Status != "" && s.Status != StatusPending
}

// BestName resolves the display name using the merge priority chain: generic
// name, then username, then the explicit student name, then the nested detail
// fields. Later non-empty sources win.
func (s Submission) BestName() string {
	name := ""
	for _, candidate := range []string{s.Name, s.UserName, s.StudentName} {
		if strings.TrimSpace(candidate) != "" {
			name = candidate
		}
	}
	for _, key := range []string{"name", "studentName"} {
		if s.Details == nil {
			break
		}
		if value, ok := s.Details[key].(string); ok && strings.TrimSpace(value) != "" {
			name = value
		}
	}
	return name
}

// MentorMarksTotal sums the mentor-entered marks across every event of the
// submission. Events without marks contribute zero.
func (s Submission) MentorMarksTotal() int {
	total := 0
	for _, event := range s.Events {
		total += event.MentorMarksTotal()
	}
	return total
}

// DetailString fetches a string field from the nested details map.
func (s Submission) DetailString(key string) string {
	if s.Details == nil {
		return ""
	}
	if value, ok := s.Details[key].(string); ok {
		return value
	}
	return ""
}

// Event is one discrete activity instance inside an individualEvents
// submission.
type Event struct {
	Key         string         `json:"key"`
	Title       string         `json:"title,omitempty"`
	Values      EventValues    `json:"values,omitempty"`
	MentorMarks map[string]int `json:"mentorMarks,omitempty"`
	Note        string         `json:"note,omitempty"`
	ProofURLs   []string       `json:"proofUrls,omitempty"`
	Status      string         `json:"status,omitempty"`
	Count       any            `json:"count,omitempty"`
}

// EventValues carries the student-entered numbers. Counts and marks are kept
// loosely typed because legacy forms submitted strings where numbers were
// expected; the scoring package coerces on read.
type EventValues struct {
	Counts       map[string]any `json:"counts,omitempty"`
	StudentMarks map[string]any `json:"studentMarks,omitempty"`
}

// MentorMarksTotal sums the mentor-entered marks across sub-tiers.
func (e Event) MentorMarksTotal() int {
	total := 0
	for _, marks := range e.MentorMarks {
		total += marks
	}
	return total
}

// EventList stores the nested events as a JSON column.
type EventList []Event

// Value implements driver.Valuer.
func (l EventList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (l *EventList) Scan(value any) error {
	return scanJSON(value, l)
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

func scanJSON(value any, target any) error {
	if value == nil {
		return nil
	}
	var payload []byte
	switch v := value.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, target)
}
