package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/surajktr/scoresight/internal/api/http"
	"github.com/surajktr/scoresight/internal/auth"
	"github.com/surajktr/scoresight/internal/config"
	"github.com/surajktr/scoresight/internal/db"
	"github.com/surajktr/scoresight/internal/examcfg"
	"github.com/surajktr/scoresight/internal/fetch"
	"github.com/surajktr/scoresight/internal/rbac"
	"github.com/surajktr/scoresight/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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

	// --- Exam profiles ---
	reg := examcfg.NewRegistry()
	if cfg.ExamConfigDir != "" {
		if err := reg.LoadDir(cfg.ExamConfigDir); err != nil {
			log.Fatalf("exam config: %v", err)
		}
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	admin := auth.AdminCredentials{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash}

	fetcher := fetch.NewClient(cfg.FetchTimeout)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, admin))
	r.Post("/auth/guest", auth.GuestLoginHandler(authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:list")).
			Get("/exams", api.ListExamsHandler(reg))

		pr.With(rbac.Require("analysis:create")).
			Post("/analyses", api.AnalyzeHandler(reg, st))
		pr.With(rbac.Require("analysis:create")).
			Post("/analyses/fetch", api.FetchAnalyzeHandler(reg, st, fetcher))

		// Ownership is enforced inside the handlers; the route-level check
		// only requires some view/delete permission.
		pr.With(rbac.RequireAny("analysis:view-own", "analysis:view-all")).
			Get("/analyses", api.ListAnalysesHandler(st))
		pr.With(rbac.RequireAny("analysis:view-own", "analysis:view-all")).
			Get("/analyses/{analysisID}", api.GetAnalysisHandler(st))
		pr.With(rbac.RequireAny("analysis:delete-own", "analysis:delete-all")).
			Delete("/analyses/{analysisID}", api.DeleteAnalysisHandler(st))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
