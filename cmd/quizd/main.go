package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/openclass/quizcore/internal/api/http"
	"github.com/openclass/quizcore/internal/auth"
	"github.com/openclass/quizcore/internal/config"
	"github.com/openclass/quizcore/internal/db"
	"github.com/openclass/quizcore/internal/rbac"
	"github.com/openclass/quizcore/internal/report"
	"github.com/openclass/quizcore/internal/store"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	st := store.NewSQLStore(dbh, cfg.DBDriver)
	asm := report.NewAssembler(st)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, func(ctx context.Context, username, password string) (string, string, error) {
			u, err := st.Authenticate(ctx, username, password)
			if err != nil {
				return "", "", err
			}
			return u.ID, u.Role, nil
		}))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:create")).
			Put("/exams/{examID}", api.PutExamHandler(st))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(st))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}/content", api.GetExamContentHandler(st))

		pr.With(rbac.Require("log:write")).
			Post("/exams/{examID}/attemptlogs", api.AddAttemptLogHandler(st))
		pr.With(rbac.Require("log:write")).
			Post("/exams/{examID}/examlogs", api.AddExamLogHandler(st))

		pr.With(rbac.RequireAny("report:view", "report:view-own")).
			Get("/exams/{examID}/users/{userID}/report", api.QuizReportHandler(asm))

		pr.With(rbac.Require("content:write")).
			Put("/content/{nodeID}", api.PutContentNodeHandler(st))
		pr.With(rbac.Require("users:manage")).
			Put("/users/{userID}", api.PutUserHandler(st))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
