package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/models"
)

var (
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("forbidden")
	errConflict  = errors.New("conflict")
)

type user struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
}

type session struct {
	ID     int64
	UserID int64
	Day    time.Time
}

// store is the in-memory database. Ids are global and increase monotonically.
type store struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*user
	sessions  map[int64]*session
	exercises map[int64]*models.Exercise
	sets      map[int64]*models.Set
}

func newStore() *store {
	return &store{
		users:     map[int64]*user{},
		sessions:  map[int64]*session{},
		exercises: map[int64]*models.Exercise{},
		sets:      map[int64]*models.Set{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) createUser(username, email string, hash []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return 0, errConflict
		}
	}
	u := &user{ID: s.id(), Username: username, Email: email, PasswordHash: hash}
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *store) userByEmail(email string) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

// listSessions returns the user's sessions, optionally restricted to one
// calendar day (UTC) and one id, ordered by id.
func (s *store) listSessions(userID int64, day *time.Time, id int64) []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WorkoutSession{}
	for _, sess := range s.sessions {
		if sess.UserID != userID {
			continue
		}
		if day != nil && !sess.Day.Equal(*day) {
			continue
		}
		if id > 0 && sess.ID != id {
			continue
		}
		out = append(out, sessionHeader(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) createSession(userID int64, day time.Time) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{ID: s.id(), UserID: userID, Day: day}
	s.sessions[sess.ID] = sess
	return models.Workout{ID: sess.ID, Date: day.Format(models.Day), UserID: userID, Exercises: []models.Exercise{}}
}

// workout returns the session with exercises in creation order and sets by set_id.
func (s *store) workout(userID, id int64) (models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.ownedSession(userID, id)
	if err != nil {
		return models.Workout{}, err
	}
	w := models.Workout{ID: sess.ID, Date: sess.Day.Format(models.Day), UserID: sess.UserID, Exercises: []models.Exercise{}}
	for _, ex := range s.exercises {
		if ex.SessionID == sess.ID {
			cp := *ex
			cp.Sets = s.setsOf(ex.ID)
			w.Exercises = append(w.Exercises, cp)
		}
	}
	sort.Slice(w.Exercises, func(i, j int) bool { return w.Exercises[i].ID < w.Exercises[j].ID })
	return w, nil
}

func (s *store) createExercise(userID, sessionID int64, name string) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return models.Exercise{}, err
	}
	ex := &models.Exercise{ID: s.id(), SessionID: sessionID, Name: name}
	s.exercises[ex.ID] = ex
	out := *ex
	out.Sets = []models.Set{}
	return out, nil
}

func (s *store) createSet(userID, sessionID, exerciseID int64, in models.CreateSetRequest) ([]models.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return nil, err
	}
	ex, ok := s.exercises[exerciseID]
	if !ok || ex.SessionID != sessionID {
		return nil, errNotFound
	}
	set := &models.Set{ID: s.id(), ExerciseID: exerciseID, SetNumber: in.SetNumber, Weight: in.Weight, Reps: in.Reps}
	s.sets[set.ID] = set
	return s.setsOf(exerciseID), nil
}

// ownedSession must be called with mu held.
func (s *store) ownedSession(userID, id int64) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	if sess.UserID != userID {
		return nil, errForbidden
	}
	return sess, nil
}

// setsOf must be called with mu held.
func (s *store) setsOf(exerciseID int64) []models.Set {
	out := []models.Set{}
	for _, set := range s.sets {
		if set.ExerciseID == exerciseID {
			out = append(out, *set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sessionHeader(sess *session) models.WorkoutSession {
	return models.WorkoutSession{ID: sess.ID, Date: sess.Day.Format(models.Day), UserID: sess.UserID}
}
