package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	switch {
	case req.Username == "":
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username cannot be empty"})
		return
	case req.Email == "":
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email cannot be empty"})
		return
	case len(req.Password) < 8:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Password must be at least 8 characters long"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email format"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hashing password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
		return
	}
	if _, err := s.store.createUser(req.Username, req.Email, hash); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Username or email already exists"})
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{Message: "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	u, err := s.store.userByEmail(req.Email)
	if err != nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	token, err := issueToken(s.secret, u.ID, s.tokenTTL)
	if err != nil {
		s.log.Error("signing token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var day *time.Time
	if v := q.Get("date"); v != "" {
		t, err := s.parseDay(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		day = &t
	}
	var id int64
	if v := q.Get("id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
			return
		}
		id = n
	}

	sessions := s.store.listSessions(userIDFromContext(r), day, id)
	writeJSON(w, http.StatusOK, models.ListWorkoutsResponse{Workouts: sessions})
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	day, err := s.parseDay(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	// The body's user_id is ignored; the token decides ownership.
	wk := s.store.createSession(userIDFromContext(r), day)
	writeJSON(w, http.StatusCreated, models.WorkoutResponse{Workout: wk})
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	wk, err := s.store.workout(userIDFromContext(r), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.WorkoutResponse{Workout: wk})
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.ExerciseName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "exercise_name is required"})
		return
	}

	ex, err := s.store.createExercise(userIDFromContext(r), id, req.ExerciseName)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.ExerciseResponse{Exercise: ex})
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	var req models.CreateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if req.Weight < 0 || req.Reps <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "weight must be >= 0 and reps > 0"})
		return
	}

	sets, err := s.store.createSet(userIDFromContext(r), id, exerciseID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.SetsResponse{Sets: sets})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.TrainingProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if req.TrainingGoal == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "training_goal is required"})
		return
	}
	writeJSON(w, http.StatusOK, models.RecommendationResponse{Recommendation: buildMenu(req)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	case errors.Is(err, errForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid " + name})
		return 0, false
	}
	return id, true
}

// parseDay reduces an RFC 3339 instant (or a bare day) to its calendar day
// in the server's location.
func (s *Server) parseDay(v string) (time.Time, error) {
	t, err := models.ParseSessionDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc), nil
}
