package http_test

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/openclass/quizcore/internal/api/http"
	"github.com/openclass/quizcore/internal/db"
	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/rbac"
	"github.com/openclass/quizcore/internal/report"
	"github.com/openclass/quizcore/internal/store"
)

func seedStore(t *testing.T) *store.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	st := store.NewSQLStore(dbh, "sqlite")

	ctx := context.Background()
	if err := st.PutExam(ctx, quiz.Exam{
		ID: "exam-1", Title: "T", DataModelVersion: quiz.V2, Seed: 423,
		QuestionSources: json.RawMessage(`[
			{"exercise_id":"ex-a","question_id":"qa1","title":"A","counter_in_exercise":1}
		]`),
	}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutUser(ctx, quiz.User{ID: "u1", Username: "pat"}, "pw"); err != nil {
		t.Fatal(err)
	}
	if err := st.PutContentNode(ctx, quiz.ContentNode{ID: "ex-a", Title: "A", AssessmentIDs: []string{"qa1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddAttemptLog(ctx, "exam-1", quiz.AttemptLog{
		UserID: "u1", Item: "qa1", ContentID: "ex-a", Correct: true,
		CompletionTimestamp: "2024-03-01T10:00:00Z",
	}); err != nil {
		t.Fatal(err)
	}
	return st
}

func newRouter(st *store.SQLStore) chi.Router {
	r := chi.NewRouter()
	r.Get("/exams/{examID}/users/{userID}/report", api.QuizReportHandler(report.NewAssembler(st)))
	return r
}

func doAs(t *testing.T, r gohttp.Handler, target, sub, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(gohttp.MethodGet, target, nil)
	ctx := rbac.WithSubject(req.Context(), sub)
	ctx = rbac.WithRole(ctx, role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req.WithContext(ctx))
	return w
}

func TestQuizReportHandler(t *testing.T) {
	r := newRouter(seedStore(t))

	w := doAs(t, r, "/exams/exam-1/users/u1/report?question=0&interaction=0", "teacher-1", "teacher")
	if w.Code != gohttp.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var p report.Payload
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ItemID != "qa1" || p.CurrentAttempt == nil || !p.CurrentAttempt.Correct {
		t.Fatalf("payload %+v", p)
	}
}

func TestQuizReportHandlerStudentOwnOnly(t *testing.T) {
	r := newRouter(seedStore(t))

	// students may read their own report
	if w := doAs(t, r, "/exams/exam-1/users/u1/report", "u1", "student"); w.Code != gohttp.StatusOK {
		t.Fatalf("own report: status %d", w.Code)
	}
	// but not anyone else's
	if w := doAs(t, r, "/exams/exam-1/users/u1/report", "u2", "student"); w.Code != gohttp.StatusForbidden {
		t.Fatalf("foreign report: status %d, want 403", w.Code)
	}
}

func TestQuizReportHandlerUnknownExam(t *testing.T) {
	r := newRouter(seedStore(t))
	if w := doAs(t, r, "/exams/nope/users/u1/report", "teacher-1", "teacher"); w.Code != gohttp.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}
