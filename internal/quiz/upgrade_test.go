package quiz

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func fixtureInventory() Inventory {
	exercises := []struct {
		id     string
		prefix string
		count  int
	}{
		{"exercise-1", "e1", 19},
		{"exercise-2", "e2", 22},
		{"exercise-3", "e3", 20},
	}
	inv := Inventory{}
	for _, ex := range exercises {
		ids := make([]string, 0, ex.count)
		for i := 1; i <= ex.count; i++ {
			ids = append(ids, fmt.Sprintf("%s-q%02d", ex.prefix, i))
		}
		inv[ex.id] = ids
	}
	return inv
}

func fixtureLegacySources() []LegacyQuestionSource {
	return []LegacyQuestionSource{
		{ExerciseID: "exercise-1", NumberOfQuestions: 3, Title: "Addition"},
		{ExerciseID: "exercise-2", NumberOfQuestions: 4, Title: "Subtraction"},
		{ExerciseID: "exercise-3", NumberOfQuestions: 3, Title: "Multiplication"},
	}
}

// Regression fixture: the exact expansion a seed-423 quiz produced under the
// legacy implementation. Any drift here would reorder existing quizzes.
func TestExpandLegacySourcesGolden(t *testing.T) {
	got, err := ExpandLegacySources(fixtureLegacySources(), 423, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}
	want := []QuestionSource{
		{ExerciseID: "exercise-2", QuestionID: "e2-q10", Title: "Subtraction", CounterInExercise: 10},
		{ExerciseID: "exercise-3", QuestionID: "e3-q10", Title: "Multiplication", CounterInExercise: 10},
		{ExerciseID: "exercise-2", QuestionID: "e2-q12", Title: "Subtraction", CounterInExercise: 12},
		{ExerciseID: "exercise-3", QuestionID: "e3-q02", Title: "Multiplication", CounterInExercise: 2},
		{ExerciseID: "exercise-3", QuestionID: "e3-q09", Title: "Multiplication", CounterInExercise: 9},
		{ExerciseID: "exercise-2", QuestionID: "e2-q14", Title: "Subtraction", CounterInExercise: 14},
		{ExerciseID: "exercise-2", QuestionID: "e2-q09", Title: "Subtraction", CounterInExercise: 9},
		{ExerciseID: "exercise-1", QuestionID: "e1-q11", Title: "Addition", CounterInExercise: 11},
		{ExerciseID: "exercise-1", QuestionID: "e1-q14", Title: "Addition", CounterInExercise: 14},
		{ExerciseID: "exercise-1", QuestionID: "e1-q09", Title: "Addition", CounterInExercise: 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expansion drifted:\n got %+v\nwant %+v", got, want)
	}
}

func TestExpandLegacySourcesTotals(t *testing.T) {
	legacy := fixtureLegacySources()
	wantTotal := 0
	for _, src := range legacy {
		wantTotal += src.NumberOfQuestions
	}
	for _, seed := range []int64{0, 1, 7, 423, 99999} {
		got, err := ExpandLegacySources(legacy, seed, fixtureInventory())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(got) != wantTotal {
			t.Fatalf("seed %d: %d entries, want %d", seed, len(got), wantTotal)
		}
	}
}

func TestExpandLegacySourcesDeterministic(t *testing.T) {
	a, err := ExpandLegacySources(fixtureLegacySources(), 423, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}
	b, err := ExpandLegacySources(fixtureLegacySources(), 423, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two expansions disagree:\n%+v\n%+v", a, b)
	}
}

// Changing the seed changes which questions are drawn and in what order, but
// the counter attached to any given question is its fixed inventory position.
func TestCounterStableAcrossSeeds(t *testing.T) {
	first, err := ExpandLegacySources(fixtureLegacySources(), 423, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ExpandLegacySources(fixtureLegacySources(), 7, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}

	firstIDs := make([]string, len(first))
	counters := map[string]int{}
	for i, q := range first {
		firstIDs[i] = q.QuestionID
		counters[q.ExerciseID+"/"+q.QuestionID] = q.CounterInExercise
	}
	secondIDs := make([]string, len(second))
	for i, q := range second {
		secondIDs[i] = q.QuestionID
	}
	if reflect.DeepEqual(firstIDs, secondIDs) {
		t.Fatalf("question selection ignored the seed: %v", firstIDs)
	}
	for _, q := range second {
		if c, ok := counters[q.ExerciseID+"/"+q.QuestionID]; ok && c != q.CounterInExercise {
			t.Fatalf("counter for %s/%s changed with seed: %d vs %d",
				q.ExerciseID, q.QuestionID, c, q.CounterInExercise)
		}
	}
}

func TestExpandLegacySourcesMissingInventory(t *testing.T) {
	inv := fixtureInventory()
	delete(inv, "exercise-3")
	_, err := ExpandLegacySources(fixtureLegacySources(), 423, inv)
	if !errors.Is(err, ErrMissingInventory) {
		t.Fatalf("err = %v, want ErrMissingInventory", err)
	}
}

func TestExpandLegacySourcesShortInventory(t *testing.T) {
	inv := fixtureInventory()
	inv["exercise-3"] = inv["exercise-3"][:2] // 3 requested
	_, err := ExpandLegacySources(fixtureLegacySources(), 423, inv)
	if !errors.Is(err, ErrIncompleteInventory) {
		t.Fatalf("err = %v, want ErrIncompleteInventory", err)
	}
}

func TestExpandLegacySourcesEmpty(t *testing.T) {
	got, err := ExpandLegacySources(nil, 423, fixtureInventory())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}
