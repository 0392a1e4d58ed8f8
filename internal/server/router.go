// Package server assembles the HTTP routing tree.
package server

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skillSwapAPI/handlers"
	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/respond"
	"skillSwapAPI/internal/store"
	"skillSwapAPI/middleware"
	"skillSwapAPI/services"
)

type Deps struct {
	Store       store.Store
	Verifier    middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
	Log         *zap.SugaredLogger

	MetricsUser string
	MetricsPass string
	PprofSecret string

	// Optional overrides, mostly for tests.
	CohortService   *services.CohortService
	ReferralService *services.ReferralService
}

func NewRouter(d Deps) *mux.Router {
	log := d.Log

	cohortService := d.CohortService
	if cohortService == nil {
		cohortService = services.NewCohortService(d.Store, d.Store, d.Store)
	}
	referralService := d.ReferralService
	if referralService == nil {
		referralService = services.NewReferralService(d.Store, d.Store)
	}

	healthHandler := handlers.NewHealthHandler(d.Store, log)
	availabilityHandler := handlers.NewAvailabilityHandler(services.NewAvailabilityService(d.Store), log)
	userHandler := handlers.NewUserHandler(services.NewUserService(d.Store), log)
	skillHandler := handlers.NewSkillHandler(services.NewSkillService(d.Store, d.Store), log)
	connectionHandler := handlers.NewConnectionHandler(services.NewConnectionService(d.Store, d.Store), log)
	cohortHandler := handlers.NewCohortHandler(cohortService, log)
	referralHandler := handlers.NewReferralHandler(referralService, log)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respond.Error(w, req, log, apperr.NotFound("Route not found"))
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respond.Error(w, req, log, apperr.New(apperr.CodeMethodNotAllowed, "Method not allowed"))
	})

	r := mux.NewRouter()
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed

	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}
	r.Use(middleware.MonitorMiddleware)
	r.Use(middleware.RequestLogger(log))

	r.Handle("/metrics", middleware.BasicAuthMiddleware(d.MetricsUser, d.MetricsPass)(promhttp.Handler())).Methods("GET")
	if d.PprofSecret != "" {
		debug := r.PathPrefix("/debug/pprof").Subrouter()
		debug.Use(middleware.PprofSecurityMiddleware(d.PprofSecret))
		debug.HandleFunc("/cmdline", pprof.Cmdline)
		debug.HandleFunc("/profile", pprof.Profile)
		debug.HandleFunc("/symbol", pprof.Symbol)
		debug.HandleFunc("/trace", pprof.Trace)
		debug.PathPrefix("/").HandlerFunc(pprof.Index)
	}

	// Subrouters answer their own misses; the root handlers never see them.
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.NotFoundHandler = notFound
	v1.MethodNotAllowedHandler = methodNotAllowed

	// Routes are wrapped one by one rather than split into public and
	// protected subrouters: several paths serve both kinds depending on the
	// method, and /users/me must be tried before /users/{id}.
	requireAuth := middleware.Authenticate(d.Verifier, log)
	optionalAuth := middleware.OptionalAuthenticate(d.Verifier)
	public := func(path string, h http.HandlerFunc, methods ...string) {
		v1.Handle(path, optionalAuth(h)).Methods(methods...)
	}
	protected := func(path string, h http.HandlerFunc, methods ...string) {
		v1.Handle(path, requireAuth(h)).Methods(methods...)
	}

	public("/health", healthHandler.Health, "GET")

	protected("/availability", availabilityHandler.GetAvailability, "GET")
	protected("/availability", availabilityHandler.UpdateAvailability, "PUT")

	protected("/users", userHandler.CreateUser, "POST")
	public("/users", userHandler.ListUsers, "GET")
	protected("/users/me", userHandler.GetProfile, "GET")
	protected("/users/me", userHandler.UpdateProfile, "PATCH")
	protected("/users/me/skills", skillHandler.AddMySkill, "POST")
	protected("/users/me/skills/{skillId}", skillHandler.RemoveMySkill, "DELETE")
	public("/users/{id}", userHandler.GetUser, "GET")
	public("/users/{id}/skills", skillHandler.ListUserSkills, "GET")

	public("/skills", skillHandler.ListSkills, "GET")
	protected("/skills", skillHandler.CreateSkill, "POST")

	protected("/connections", connectionHandler.ListConnections, "GET")
	protected("/connections", connectionHandler.RequestConnection, "POST")
	protected("/connections/{id}", connectionHandler.RespondToConnection, "PATCH")
	protected("/connections/{id}", connectionHandler.RemoveConnection, "DELETE")

	public("/cohorts", cohortHandler.ListCohorts, "GET")
	protected("/cohorts", cohortHandler.CreateCohort, "POST")
	public("/cohorts/{id}", cohortHandler.GetCohort, "GET")
	protected("/cohorts/{id}/members", cohortHandler.JoinCohort, "POST")
	protected("/cohorts/{id}/members/me", cohortHandler.LeaveCohort, "DELETE")
	protected("/cohorts/{id}/progress", cohortHandler.GetProgress, "GET")
	public("/cohorts/{id}/sessions", cohortHandler.ListSessions, "GET")
	protected("/cohorts/{id}/sessions", cohortHandler.CreateSession, "POST")
	protected("/sessions/{id}", cohortHandler.UpdateSession, "PATCH")
	protected("/sessions/{id}", cohortHandler.DeleteSession, "DELETE")

	protected("/referrals", referralHandler.ListReferrals, "GET")
	protected("/referrals", referralHandler.CreateReferral, "POST")

	protected("/matches", handlers.NotImplemented("Matches", log), "GET")
	protected("/messages", handlers.NotImplemented("Messages", log), "GET", "POST")
	protected("/artifacts", handlers.NotImplemented("Artifacts", log), "GET", "POST")
	protected("/feedback", handlers.NotImplemented("Feedback", log), "GET", "POST")
	protected("/endorsements", handlers.NotImplemented("Endorsements", log), "GET", "POST")

	return r
}
