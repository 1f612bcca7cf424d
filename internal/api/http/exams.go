package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/store"
)

// PUT /exams/{examID}
// Upserts an exam record in whatever data model version the assignment
// service stored it.
func PutExamHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e quiz.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e.ID = chi.URLParam(r, "examID")
		if e.ID == "" {
			http.Error(w, "missing exam id", http.StatusBadRequest)
			return
		}
		if err := st.PutExam(r.Context(), e); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// GET /exams/{examID}
func GetExamHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := st.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			if errors.Is(err, store.ErrExamNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// GET /exams/{examID}/content
// Content nodes (question inventories) for the exercises the exam references.
func GetExamContentHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := st.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			if errors.Is(err, store.ErrExamNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		ids, err := e.ExerciseIDs()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		nodes, err := st.GetContentNodes(r.Context(), ids)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if nodes == nil {
			nodes = []quiz.ContentNode{}
		}
		writeJSON(w, http.StatusOK, nodes)
	}
}
