package report

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openclass/quizcore/internal/quiz"
)

// Backend is the data layer the assembler reads from. Every method is a
// read-only fetch; failures propagate unchanged out of Assemble and retry
// policy belongs to the caller.
type Backend interface {
	GetExam(ctx context.Context, id string) (quiz.Exam, error)
	GetExamLogs(ctx context.Context, examID, userID string) ([]quiz.ExamLog, error)
	GetAttemptLogs(ctx context.Context, examID, userID string) ([]quiz.AttemptLog, error)
	GetUser(ctx context.Context, id string) (quiz.User, error)
	GetContentNodes(ctx context.Context, ids []string) ([]quiz.ContentNode, error)
}

type Assembler struct {
	backend Backend
}

func NewAssembler(b Backend) *Assembler { return &Assembler{backend: b} }

// QuestionStatus is one question's per-learner attempt summary, used for
// report navigation. QuestionNumber is 1-based canonical position, distinct
// from the question's counter_in_exercise.
type QuestionStatus struct {
	QuestionNumber int             `json:"questionNumber"`
	Attempt        quiz.AttemptLog `json:"attempt"`
}

// ExamLogView is the stored exam log plus its completion timestamp parsed
// into a structured time when present.
type ExamLogView struct {
	quiz.ExamLog
	CompletionTime *time.Time `json:"completion_time,omitempty"`
}

// Payload is the render-ready report for one question of one learner's exam.
// When the exam resolves to zero questions only Exam, ExamLog and User are
// populated.
type Payload struct {
	Exam               *quiz.Exam                  `json:"exam"`
	ExamLog            *ExamLogView                `json:"examLog,omitempty"`
	User               *quiz.User                  `json:"user"`
	ContentNodes       map[string]quiz.ContentNode `json:"contentNodeMap,omitempty"`
	ItemID             string                      `json:"itemId,omitempty"`
	Questions          []quiz.QuestionSource       `json:"questions,omitempty"`
	CurrentQuestion    *quiz.QuestionSource        `json:"currentQuestion,omitempty"`
	QuestionNumber     int                         `json:"questionNumber"`
	CurrentAttempt     *quiz.AttemptLog            `json:"currentAttempt,omitempty"`
	Exercise           *quiz.ContentNode           `json:"exercise,omitempty"`
	InteractionIndex   int                         `json:"interactionIndex"`
	CurrentInteraction *quiz.Interaction           `json:"currentInteraction,omitempty"`
	Interactions       []quiz.Interaction          `json:"interactions,omitempty"`
	QuestionStatuses   []QuestionStatus            `json:"questionStatuses,omitempty"`
}

// Assemble builds the report payload for one (exam, learner) pair.
// questionNumber is a 0-based index into the canonical question list and
// interactionIndex a 0-based index into the filtered interaction history;
// out-of-range values leave the corresponding fields absent rather than
// failing. Exam, logs and user are fetched concurrently; content nodes are
// fetched once the referenced exercise IDs are known; everything after that
// is synchronous and side-effect free.
func (a *Assembler) Assemble(ctx context.Context, examID, userID string, questionNumber, interactionIndex int) (*Payload, error) {
	var (
		exam     quiz.Exam
		examLogs []quiz.ExamLog
		attempts []quiz.AttemptLog
		user     quiz.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exam, err = a.backend.GetExam(gctx, examID)
		return err
	})
	g.Go(func() error {
		var err error
		examLogs, err = a.backend.GetExamLogs(gctx, examID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		attempts, err = a.backend.GetAttemptLogs(gctx, examID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = a.backend.GetUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	exerciseIDs, err := exam.ExerciseIDs()
	if err != nil {
		return nil, err
	}
	var nodes []quiz.ContentNode
	if len(exerciseIDs) > 0 {
		if nodes, err = a.backend.GetContentNodes(ctx, exerciseIDs); err != nil {
			return nil, err
		}
	}

	payload := &Payload{
		Exam:             &exam,
		User:             &user,
		QuestionNumber:   questionNumber,
		InteractionIndex: interactionIndex,
	}
	if len(examLogs) > 0 {
		lv := ExamLogView{ExamLog: examLogs[0]}
		if ts := lv.CompletionTimestamp; ts != "" {
			if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
				lv.CompletionTime = &t
			}
		}
		payload.ExamLog = &lv
	}

	var questions []quiz.QuestionSource
	if exam.DataModelVersion == quiz.V0 {
		// Referenced exercises may have been deleted since the quiz was
		// made. No resolvable node at all is the legitimate empty state;
		// a partial inventory is still an error inside the expansion.
		if len(nodes) > 0 {
			questions, err = quiz.CanonicalQuestions(exam, quiz.InventoryFromNodes(nodes))
			if err != nil {
				return nil, err
			}
		}
	} else {
		if questions, err = quiz.CanonicalQuestions(exam, nil); err != nil {
			return nil, err
		}
	}
	if len(questions) == 0 {
		return payload, nil
	}

	statuses := make([]QuestionStatus, len(questions))
	for i, q := range questions {
		att := latestAttempt(attempts, q)
		if att == nil {
			att = &quiz.AttemptLog{
				Item:               q.QuestionID,
				ContentID:          q.ExerciseID,
				NoAttempt:          true,
				InteractionHistory: []quiz.Interaction{},
			}
		}
		statuses[i] = QuestionStatus{QuestionNumber: i + 1, Attempt: *att}
	}

	nodeMap := make(map[string]quiz.ContentNode, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}
	payload.ContentNodes = nodeMap
	payload.Questions = questions
	payload.QuestionStatuses = statuses

	if questionNumber >= 0 && questionNumber < len(questions) {
		q := questions[questionNumber]
		payload.CurrentQuestion = &q
		payload.ItemID = q.QuestionID
		att := statuses[questionNumber].Attempt
		payload.CurrentAttempt = &att
		if node, ok := nodeMap[q.ExerciseID]; ok {
			payload.Exercise = &node
		}
		filtered := filterInteractions(att.InteractionHistory)
		payload.Interactions = filtered
		if interactionIndex >= 0 && interactionIndex < len(filtered) {
			it := filtered[interactionIndex]
			payload.CurrentInteraction = &it
		}
	}
	return payload, nil
}

// latestAttempt picks the attempt with the greatest completion timestamp for
// the question, or nil if the learner never attempted it. ISO timestamps
// order lexicographically; a later list entry wins ties, preserving the
// legacy reverse-sort tie break.
func latestAttempt(attempts []quiz.AttemptLog, q quiz.QuestionSource) *quiz.AttemptLog {
	var best *quiz.AttemptLog
	for i := range attempts {
		a := &attempts[i]
		if a.Item != q.QuestionID || a.ContentID != q.ExerciseID {
			continue
		}
		if best == nil || a.CompletionTimestamp >= best.CompletionTimestamp {
			best = a
		}
	}
	return best
}

// filterInteractions keeps answer submissions, hints and errors, dropping
// noise entries such as pure navigation events.
func filterInteractions(history []quiz.Interaction) []quiz.Interaction {
	out := make([]quiz.Interaction, 0, len(history))
	for _, it := range history {
		if answerPresent(it.Answer) || it.Type == "hint" || it.Type == "error" {
			out = append(out, it)
		}
	}
	return out
}

// answerPresent mirrors JS truthiness on the raw answer value: null, false,
// zero and the empty string all count as absent.
func answerPresent(raw []byte) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
