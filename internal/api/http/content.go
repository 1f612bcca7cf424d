package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/store"
)

// PUT /content/{nodeID}
// Upserts an exercise content node with its ordered assessment-item IDs.
func PutContentNodeHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n quiz.ContentNode
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		n.ID = chi.URLParam(r, "nodeID")
		if n.ID == "" {
			http.Error(w, "missing node id", http.StatusBadRequest)
			return
		}
		if n.Kind == "" {
			n.Kind = "exercise"
		}
		if err := st.PutContentNode(r.Context(), n); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}
