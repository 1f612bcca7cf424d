package quiz

import (
	"errors"
	"fmt"

	"github.com/openclass/quizcore/internal/shuffle"
)

var (
	// ErrMissingInventory means a v0 expansion was requested without an
	// inventory entry for a referenced exercise. Callers must supply the full
	// inventory whenever data_model_version is 0; there is no silent default.
	ErrMissingInventory = errors.New("question inventory missing for exercise")

	// ErrIncompleteInventory means an exercise's inventory holds fewer
	// questions than the legacy source requested.
	ErrIncompleteInventory = errors.New("question inventory smaller than requested count")
)

type placeholder struct {
	exerciseID string
	title      string
	// 0-based position within this legacy source's run of placeholders.
	questionNumber int
}

// ExpandLegacySources expands sparse v0 sources into concrete QuestionSource
// entries. The result is pure in (legacy, seed, inv): calling it again with
// the same inputs reproduces the same expansion, which is what lets the
// expanded list stay unpersisted.
//
// Two kinds of shuffle happen, both restarted from the caller's original
// seed: one across the flattened placeholders (the learner-visible question
// order) and one per exercise inventory (which question each placeholder
// resolves to). Threading a single generator through all of them would
// change historical outputs.
func ExpandLegacySources(legacy []LegacyQuestionSource, seed int64, inv Inventory) ([]QuestionSource, error) {
	total := 0
	for _, src := range legacy {
		total += src.NumberOfQuestions
	}
	flat := make([]placeholder, 0, total)
	for _, src := range legacy {
		ids, ok := inv[src.ExerciseID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingInventory, src.ExerciseID)
		}
		if src.NumberOfQuestions > len(ids) {
			return nil, fmt.Errorf("%w: %s has %d, want %d",
				ErrIncompleteInventory, src.ExerciseID, len(ids), src.NumberOfQuestions)
		}
		for qn := 0; qn < src.NumberOfQuestions; qn++ {
			flat = append(flat, placeholder{
				exerciseID:     src.ExerciseID,
				title:          src.Title,
				questionNumber: qn,
			})
		}
	}

	ordered := shuffle.Seeded(flat, seed)

	shuffledIDs := make(map[string][]string, len(inv))
	positions := make(map[string]map[string]int, len(inv))
	for exID, ids := range inv {
		shuffledIDs[exID] = shuffle.Seeded(ids, seed)
		pos := make(map[string]int, len(ids))
		for i, id := range ids {
			pos[id] = i
		}
		positions[exID] = pos
	}

	out := make([]QuestionSource, 0, len(ordered))
	for _, p := range ordered {
		questionID := shuffledIDs[p.exerciseID][p.questionNumber]
		out = append(out, QuestionSource{
			ExerciseID: p.exerciseID,
			QuestionID: questionID,
			Title:      p.title,
			// Position in the unshuffled inventory: a stable label,
			// independent of the per-learner ordering.
			CounterInExercise: 1 + positions[p.exerciseID][questionID],
		})
	}
	return out, nil
}
