package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/rbac"
	"github.com/openclass/quizcore/internal/report"
	"github.com/openclass/quizcore/internal/store"
)

// GET /exams/{examID}/users/{userID}/report?question=N&interaction=I
//
// question is a 0-based index into the canonical question list, interaction a
// 0-based index into the filtered interaction history. Students can only view
// their own report.
func QuizReportHandler(asm *report.Assembler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		userID := chi.URLParam(r, "userID")

		role := rbac.RoleFromContext(r.Context())
		if !rbac.Has(role, "report:view") && userID != rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		question := parseIntDefault(r.URL.Query().Get("question"), 0)
		interaction := parseIntDefault(r.URL.Query().Get("interaction"), 0)

		payload, err := asm.Assemble(r.Context(), examID, userID, question, interaction)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrExamNotFound), errors.Is(err, store.ErrUserNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, quiz.ErrMissingInventory), errors.Is(err, quiz.ErrIncompleteInventory):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, err.Error(), 500)
			}
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}
