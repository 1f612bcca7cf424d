package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/rbac"
	"github.com/openclass/quizcore/internal/store"
)

// POST /exams/{examID}/attemptlogs
// Students may only write their own logs; the user field is forced to the
// token subject unless the caller can view all reports.
func AddAttemptLogHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l quiz.AttemptLog
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !rbac.Has(rbac.RoleFromContext(r.Context()), "report:view") {
			l.UserID = rbac.SubjectFromContext(r.Context())
		}
		saved, err := st.AddAttemptLog(r.Context(), chi.URLParam(r, "examID"), l)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

// POST /exams/{examID}/examlogs
func AddExamLogHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l quiz.ExamLog
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		l.ExamID = chi.URLParam(r, "examID")
		if !rbac.Has(rbac.RoleFromContext(r.Context()), "report:view") {
			l.UserID = rbac.SubjectFromContext(r.Context())
		}
		saved, err := st.AddExamLog(r.Context(), l)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}
