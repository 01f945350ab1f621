// Package devserver is an in-memory implementation of the workout backend,
// used for local development and as the far end of integration tests.
package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store
	secret   []byte
	tokenTTL time.Duration
	loc      *time.Location
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured and an empty store.
func New(secret []byte, tokenTTL time.Duration, log *slog.Logger) *Server {
	s := &Server{
		store:    newStore(),
		secret:   secret,
		tokenTTL: tokenTTL,
		loc:      time.UTC,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetLocation sets the timezone that decides which calendar day a session
// instant belongs to. Clients should use the same zone. Defaults to UTC.
func (s *Server) SetLocation(loc *time.Location) {
	s.loc = loc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Post("/auth/register", s.handleRegister)
	s.router.Post("/auth/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(JWTAuth(s.secret))
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Post("/workouts/{id}/exercises", s.handleCreateExercise)
		r.Post("/workouts/{id}/exercises/{exerciseID}/sets", s.handleCreateSet)
		r.Post("/recommendations", s.handleRecommend)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
}
