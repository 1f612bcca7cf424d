package quiz

import "encoding/json"

// DataModelVersion identifies the storage format of an exam's question_sources.
type DataModelVersion int

const (
	// V0 stores sparse "N questions from exercise X" sources; expansion needs
	// the per-exercise question inventory.
	V0 DataModelVersion = iota
	// V1 stores expanded sources with the legacy camelCase counter field.
	V1
	// V2 stores expanded sources in canonical snake_case form.
	V2
)

// QuestionSource is one canonical question reference. Array order is
// significant: it defines the quiz question order.
type QuestionSource struct {
	ExerciseID        string `json:"exercise_id"`
	QuestionID        string `json:"question_id"`
	Title             string `json:"title"`
	CounterInExercise int    `json:"counter_in_exercise"`
}

// LegacyQuestionSource is a pre-expansion (v0) source: an exercise plus a
// count of questions to draw from it.
type LegacyQuestionSource struct {
	ExerciseID        string `json:"exercise_id"`
	NumberOfQuestions int    `json:"number_of_questions"`
	Title             string `json:"title"`
}

// Exam is the stored quiz record as the assignment service persists it.
// QuestionSources stays raw because its element shape depends on
// DataModelVersion; CanonicalQuestions decodes it. Seed is fixed at quiz
// creation and is the sole source of (reproducible) randomness.
type Exam struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	DataModelVersion DataModelVersion `json:"data_model_version"`
	Seed             int64            `json:"seed"`
	QuestionSources  json.RawMessage  `json:"question_sources"`
	CreatedAt        int64            `json:"created_at,omitempty"`
}

// ExerciseIDs returns the distinct exercise IDs referenced by the stored
// question_sources, in first-seen order. Works for every data model version
// since all of them carry exercise_id per entry.
func (e Exam) ExerciseIDs() ([]string, error) {
	if len(e.QuestionSources) == 0 {
		return nil, nil
	}
	var rows []struct {
		ExerciseID string `json:"exercise_id"`
	}
	if err := json.Unmarshal(e.QuestionSources, &rows); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ExerciseID]; ok {
			continue
		}
		seen[r.ExerciseID] = struct{}{}
		out = append(out, r.ExerciseID)
	}
	return out, nil
}

// Inventory maps an exercise ID to the ordered list of assessment-item IDs
// belonging to that exercise, as derived from content metadata.
type Inventory map[string][]string

// Interaction is one entry of an attempt's interaction history.
type Interaction struct {
	Type      string          `json:"type,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Correct   float64         `json:"correct,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// AttemptLog records one learner's answer activity for one question. Several
// may exist per (learner, question) pair; the most recently completed one is
// authoritative. CompletionTimestamp is the serialized form (ISO 8601), which
// orders lexicographically.
type AttemptLog struct {
	ID                  string        `json:"id,omitempty"`
	UserID              string        `json:"user,omitempty"`
	Item                string        `json:"item"`
	ContentID           string        `json:"content_id"`
	Correct             bool          `json:"correct"`
	CompletionTimestamp string        `json:"completion_timestamp,omitempty"`
	InteractionHistory  []Interaction `json:"interaction_history"`
	NoAttempt           bool          `json:"noattempt,omitempty"`
}

// ExamLog records one learner's overall progress through one exam.
type ExamLog struct {
	ID                  string `json:"id,omitempty"`
	ExamID              string `json:"exam"`
	UserID              string `json:"user"`
	Closed              bool   `json:"closed"`
	CompletionTimestamp string `json:"completion_timestamp,omitempty"`
}

// User is the learner record the report is assembled for.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// ContentNode carries the assessment metadata of one exercise.
type ContentNode struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Kind          string   `json:"kind,omitempty"`
	AssessmentIDs []string `json:"assessment_ids"`
}

// InventoryFromNodes derives a question inventory from fetched content nodes.
func InventoryFromNodes(nodes []ContentNode) Inventory {
	inv := make(Inventory, len(nodes))
	for _, n := range nodes {
		inv[n.ID] = n.AssessmentIDs
	}
	return inv
}
