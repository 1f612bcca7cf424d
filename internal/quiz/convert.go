package quiz

import (
	"encoding/json"
	"fmt"
)

// CanonicalQuestions resolves an exam's stored question_sources into the
// canonical ordered QuestionSource list, whatever version it was stored
// under. This is the single dispatch point on DataModelVersion: v0 takes the
// expansion path (inv required), v1 and v2 take the normalizer (which is
// idempotent, so v2 passthrough reuses it).
func CanonicalQuestions(e Exam, inv Inventory) ([]QuestionSource, error) {
	switch e.DataModelVersion {
	case V0:
		if inv == nil {
			return nil, ErrMissingInventory
		}
		var legacy []LegacyQuestionSource
		if len(e.QuestionSources) > 0 {
			if err := json.Unmarshal(e.QuestionSources, &legacy); err != nil {
				return nil, fmt.Errorf("decode legacy question_sources: %w", err)
			}
		}
		return ExpandLegacySources(legacy, e.Seed, inv)
	case V1, V2:
		return NormalizeQuestionSources(e.QuestionSources)
	default:
		return nil, fmt.Errorf("unsupported data model version %d", e.DataModelVersion)
	}
}
