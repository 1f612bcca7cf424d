package quiz

import "encoding/json"

type rawQuestionSource struct {
	ExerciseID        string `json:"exercise_id"`
	QuestionID        string `json:"question_id"`
	Title             string `json:"title"`
	CounterInExercise *int   `json:"counter_in_exercise"`
	// v1 records carried the counter under a camelCase key.
	LegacyCounter *int `json:"counterInExercise"`
}

// NormalizeQuestionSources lifts already-expanded (v1 or v2) sources into
// canonical form: exercise_id, question_id and title pass through unchanged,
// the counter is read from counter_in_exercise with a fallback to the legacy
// counterInExercise key. Input order is preserved; no shuffling happens here.
// Idempotent on canonical input.
func NormalizeQuestionSources(raw json.RawMessage) ([]QuestionSource, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []rawQuestionSource
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]QuestionSource, len(rows))
	for i, r := range rows {
		counter := 0
		switch {
		case r.CounterInExercise != nil:
			counter = *r.CounterInExercise
		case r.LegacyCounter != nil:
			counter = *r.LegacyCounter
		}
		out[i] = QuestionSource{
			ExerciseID:        r.ExerciseID,
			QuestionID:        r.QuestionID,
			Title:             r.Title,
			CounterInExercise: counter,
		}
	}
	return out, nil
}
