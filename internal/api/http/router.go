package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/quiz"
	"github.com/classleaf/quizport/internal/rbac"
	"github.com/classleaf/quizport/internal/session"
	"github.com/classleaf/quizport/internal/verify"
)

// Deps collects everything the router mounts.
type Deps struct {
	Store       quiz.Store
	Service     *quiz.Service
	Verifier    *verify.Service
	Auth        *auth.Service
	Sessions    *session.Controller
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: login, respondent flow, verification.
	r.Post("/auth/login", LoginHandler(d.Auth))
	r.Get("/quizzes/{quizID}", GetStudentQuizHandler(d.Service))
	r.Get("/quizzes/{quizID}/session", SessionHandler(d.Service, d.Sessions))
	r.Post("/quizzes/{quizID}/submissions", SubmitHandler(d.Service))
	r.Get("/verify/{token}", VerifyByTokenHandler(d.Verifier))
	r.Post("/lookup", LookupHandler(d.Verifier))
	r.Post("/history", HistoryHandler(d.Verifier))
	r.Post("/history/email", EmailHistoryHandler(d.Verifier))

	// Issuer surface (JWT → claims in context → RBAC).
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(d.Auth))

		pr.With(rbac.Require("issuer:self")).Get("/issuer/settings", GetIssuerHandler(d.Store))
		pr.With(rbac.Require("issuer:self")).Put("/issuer/settings", UpdateIssuerSettingsHandler(d.Store))
		pr.With(rbac.Require("issuer:self")).Post("/issuer/password", ChangePasswordHandler(d.Store))

		pr.With(rbac.Require("quiz:create")).Post("/quizzes", CreateQuizHandler(d.Service))
		pr.With(rbac.Require("quiz:list")).Get("/quizzes", ListQuizzesHandler(d.Service))
		pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}/full", GetOwnedQuizHandler(d.Service))
		pr.With(rbac.Require("quiz:update")).Put("/quizzes/{quizID}", UpdateQuizHandler(d.Service))
		pr.With(rbac.Require("quiz:delete")).Delete("/quizzes/{quizID}", DeleteQuizHandler(d.Service))

		pr.With(rbac.Require("submission:list")).Get("/submissions/pending", ListPendingHandler(d.Service))
		pr.With(rbac.Require("submission:list")).Get("/quizzes/{quizID}/submissions", ListByQuizHandler(d.Service))
		pr.With(rbac.Require("submission:grade")).Get("/submissions/{submissionID}/grading", GradingItemsHandler(d.Service))
		pr.With(rbac.Require("submission:grade")).Post("/submissions/{submissionID}/grading", ApplyGradesHandler(d.Service, d.Verifier))
		pr.With(rbac.Require("submission:export")).Get("/quizzes/{quizID}/export", ExportHandler(d.Service))

		pr.With(rbac.Require("issuer:provision")).Post("/admin/issuers", ProvisionIssuerHandler(d.Store))
		pr.With(rbac.Require("issuer:list")).Get("/admin/issuers", ListIssuersHandler(d.Store))
		pr.With(rbac.Require("issuer:suspend")).Put("/admin/issuers/{issuerID}/active", SuspendIssuerHandler(d.Store))
		pr.With(rbac.Require("issuer:delete")).Delete("/admin/issuers/{issuerID}", DeleteIssuerHandler(d.Store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
