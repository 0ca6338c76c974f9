package aggregate

import (
	"sort"
	"strings"

	"github.com/noah-isme/sap-mentor-api/internal/models"
)

// ResolveProofs extracts every proof reference from a submission regardless
// of which generation of the form shape it lives in. Four phases, in order:
// the singular legacy proofUrl, the proofUrls array, each nested event's
// proofUrls, and finally any legacy field whose name mentions both "proof"
// and "url". The result preserves first-seen order and never repeats a
// reference.
func ResolveProofs(submission models.Submission) []string {
	var proofs []string
	proofs = appendUnique(proofs, submission.ProofURL)
	for _, proof := range submission.ProofURLs {
		proofs = appendUnique(proofs, proof)
	}
	for _, event := range submission.Events {
		for _, proof := range event.ProofURLs {
			proofs = appendUnique(proofs, proof)
		}
	}
	for _, proof := range legacyProofs(submission) {
		proofs = appendUnique(proofs, proof)
	}
	return proofs
}

// submissionProofs gathers the submission-level references only (phases one,
// two and four), which is what the normalizer attributes by activity label.
func submissionProofs(submission models.Submission) []string {
	var proofs []string
	proofs = appendUnique(proofs, submission.ProofURL)
	for _, proof := range submission.ProofURLs {
		proofs = appendUnique(proofs, proof)
	}
	for _, proof := range legacyProofs(submission) {
		proofs = appendUnique(proofs, proof)
	}
	return proofs
}

// legacyProofs scans the retained legacy fields for proof-reference naming
// conventions. Keys are visited in sorted order so the scan is
// deterministic; within a list-valued field the stored order is kept.
func legacyProofs(submission models.Submission) []string {
	if len(submission.Legacy) == 0 {
		return nil
	}

	keys := make([]string, 0, len(submission.Legacy))
	for key := range submission.Legacy {
		lowered := strings.ToLower(key)
		if strings.Contains(lowered, "proof") && strings.Contains(lowered, "url") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var proofs []string
	for _, key := range keys {
		switch value := submission.Legacy[key].(type) {
		case string:
			proofs = appendUnique(proofs, value)
		case []any:
			for _, item := range value {
				if ref, ok := item.(string); ok {
					proofs = appendUnique(proofs, ref)
				}
			}
		case []string:
			for _, ref := range value {
				proofs = appendUnique(proofs, ref)
			}
		}
	}
	return proofs
}
