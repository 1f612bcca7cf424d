package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclass/quizcore/internal/quiz"
	"github.com/openclass/quizcore/internal/store"
)

// PUT /users/{userID}
// Upserts a user; the password field is optional and, when present, replaces
// the stored bcrypt hash.
func PutUserHandler(st *store.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			quiz.User
			Password string `json:"password,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.User.ID = chi.URLParam(r, "userID")
		if req.User.ID == "" {
			http.Error(w, "missing user id", http.StatusBadRequest)
			return
		}
		if req.User.Role == "" {
			req.User.Role = "student"
		}
		if err := st.PutUser(r.Context(), req.User, req.Password); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, req.User)
	}
}
