// Package aggregate reconciles the heterogeneous submission shapes into a
// canonical per-student view and folds reviewed submissions into report
// totals. Everything here is pure: malformed records degrade to zeroed
// values, never to errors.
package aggregate

import (
	"strings"

	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/scoring"
)

// UnknownStudentName is the display fallback when no submission carried a
// usable name field.
const UnknownStudentName = "Unknown User"

// ActivityData accumulates one category's counts, self-reported marks and
// proof references for a student.
type ActivityData struct {
	Count        int      `json:"count"`
	StudentMarks int      `json:"studentMarks"`
	Proofs       []string `json:"proofs"`
}

// StudentAggregate is the normalized per-student view assembled from one or
// more raw submissions. It is recomputed wholesale on every fetch.
type StudentAggregate struct {
	Email        string
	Name         string
	RollNumber   string
	Year         string
	Section      string
	Semester     string
	Submissions  []models.Submission
	ActivityData map[string]*ActivityData

	firstSeen int
}

// DisplayName returns the resolved student name or the unknown fallback.
func (a *StudentAggregate) DisplayName() string {
	if strings.TrimSpace(a.Name) == "" {
		return UnknownStudentName
	}
	return a.Name
}

// Normalize groups raw submissions by student email and accumulates
// per-category activity data. Submissions are visited in input order; a
// later submission only overwrites identity fields it actually fills in, so
// a sparse record never erases detail captured earlier.
func Normalize(submissions []models.Submission) map[string]*StudentAggregate {
	aggregates := make(map[string]*StudentAggregate)

	for _, submission := range submissions {
		// Emails are the sole join key; casing differences must not split a
		// student across aggregates.
		email := strings.ToLower(strings.TrimSpace(submission.Email))
		if email == "" {
			continue
		}

		agg, ok := aggregates[email]
		if !ok {
			agg = newAggregate(email, len(aggregates))
			aggregates[email] = agg
		}

		mergeIdentity(agg, submission)
		agg.Submissions = append(agg.Submissions, submission)

		for _, event := range submission.Events {
			accumulateEvent(agg, event)
		}

		attachSubmissionProofs(agg, submission)
	}

	return aggregates
}

// Ordered returns the aggregates in first-seen input order.
func Ordered(aggregates map[string]*StudentAggregate) []*StudentAggregate {
	out := make([]*StudentAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		out = append(out, agg)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].firstSeen > out[j].firstSeen; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Latest selects the student's most recent submission of the given category
// by submittedAt. Unparseable timestamps decode to the zero time and sort
// earliest; ties keep the first submission in input order.
func Latest(agg *StudentAggregate, category string) (models.Submission, bool) {
	var latest models.Submission
	found := false
	for _, submission := range agg.Submissions {
		if submission.Category != category {
			continue
		}
		if !found || submission.SubmittedAt.After(latest.SubmittedAt) {
			latest = submission
			found = true
		}
	}
	return latest, found
}

func newAggregate(email string, position int) *StudentAggregate {
	data := make(map[string]*ActivityData, len(scoring.CategoryKeys())+1)
	for _, key := range scoring.CategoryKeys() {
		data[key] = &ActivityData{}
	}
	data[scoring.CategoryMiscellaneous] = &ActivityData{}

	return &StudentAggregate{
		Email:        email,
		ActivityData: data,
		firstSeen:    position,
	}
}

func mergeIdentity(agg *StudentAggregate, submission models.Submission) {
	setNonEmpty(&agg.Name, submission.BestName())
	setNonEmpty(&agg.RollNumber, submission.RollNumber)
	setNonEmpty(&agg.Year, submission.Year)
	setNonEmpty(&agg.Section, submission.Section)
	setNonEmpty(&agg.Semester, submission.Semester)

	// Nested detail fields are the most specific source and win last.
	setNonEmpty(&agg.RollNumber, submission.DetailString("rollNumber"))
	setNonEmpty(&agg.Year, submission.DetailString("year"))
	setNonEmpty(&agg.Section, submission.DetailString("section"))
	setNonEmpty(&agg.Semester, submission.DetailString("semester"))
}

func accumulateEvent(agg *StudentAggregate, event models.Event) {
	label := event.Key
	if label == "" {
		label = event.Title
	}

	bucket := scoring.CategoryMiscellaneous
	category, scored := scoring.Lookup(label)
	if scored {
		bucket = category.Key
	}

	data := agg.ActivityData[bucket]
	count := eventCount(event)
	data.Count += count

	// Per-tier counts score against the category table; a bare count only
	// supports the legacy per-unit estimate.
	if scored && len(event.Values.Counts) > 0 {
		data.StudentMarks += scoring.CategoryTotal(category, event.Values.Counts)
	} else {
		data.StudentMarks += scoring.MarksForEvent(bucket, label, count)
	}
	for _, proof := range event.ProofURLs {
		data.Proofs = appendUnique(data.Proofs, proof)
	}
}

// eventCount derives the unit count of an event: the sum of the numeric
// values inside values.counts, falling back to the explicit count field.
func eventCount(event models.Event) int {
	if count := scoring.SumCounts(event.Values.Counts); count > 0 {
		return count
	}
	if event.Count != nil {
		return scoring.CoerceCount(event.Count)
	}
	return 0
}

// attachSubmissionProofs files submission-level proofs under the category
// inferred from the activity label. When no category can be determined the
// proofs fan out to every bucket; lossy, but old records stay visible.
func attachSubmissionProofs(agg *StudentAggregate, submission models.Submission) {
	proofs := submissionProofs(submission)
	if len(proofs) == 0 {
		return
	}

	if category, ok := scoring.Lookup(submission.Activity); ok {
		data := agg.ActivityData[category.Key]
		for _, proof := range proofs {
			data.Proofs = appendUnique(data.Proofs, proof)
		}
		return
	}

	for _, data := range agg.ActivityData {
		for _, proof := range proofs {
			data.Proofs = appendUnique(data.Proofs, proof)
		}
	}
}

func setNonEmpty(target *string, value string) {
	if strings.TrimSpace(value) != "" {
		*target = value
	}
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
