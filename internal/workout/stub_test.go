package workout

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/models"
)

// stubAPI is an in-memory backend that records every call.
type stubAPI struct {
	mu sync.Mutex

	sessions []models.WorkoutSession
	details  map[int64]*models.Workout
	sets     map[int64][]models.Set
	nextID   int64

	listErr     error
	createErr   error
	getErr      error
	exerciseErr error
	setErr      error

	// When set, CreateExercise signals entered and waits on release.
	entered chan struct{}
	release chan struct{}

	// When set, CreateSet signals setEntered and waits on setRelease.
	setEntered chan struct{}
	setRelease chan struct{}

	listCalls     []api.ListParams
	createCalls   []time.Time
	createHints   []int64
	getCalls      []int64
	exerciseCalls []string
	setCalls      []models.CreateSetRequest
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		details: map[int64]*models.Workout{},
		sets:    map[int64][]models.Set{},
		nextID:  100,
	}
}

func (s *stubAPI) ListSessions(_ context.Context, p api.ListParams) ([]models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, p)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]models.WorkoutSession(nil), s.sessions...), nil
}

func (s *stubAPI) GetSession(_ context.Context, id int64) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls = append(s.getCalls, id)
	if s.getErr != nil {
		return nil, s.getErr
	}
	w, ok := s.details[id]
	if !ok {
		return nil, &api.BackendError{Status: 404, Message: "Not Found"}
	}
	out := *w
	return &out, nil
}

func (s *stubAPI) CreateSession(_ context.Context, date time.Time, hint int64) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls = append(s.createCalls, date)
	s.createHints = append(s.createHints, hint)
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	return &models.Workout{ID: s.nextID, Date: date.UTC().Format(models.Day), UserID: 1}, nil
}

func (s *stubAPI) CreateExercise(_ context.Context, sessionID int64, name string) (*models.Exercise, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exerciseCalls = append(s.exerciseCalls, name)
	if s.exerciseErr != nil {
		return nil, s.exerciseErr
	}
	s.nextID++
	return &models.Exercise{ID: s.nextID, SessionID: sessionID, Name: name}, nil
}

func (s *stubAPI) CreateSet(_ context.Context, _, exerciseID int64, in models.CreateSetRequest) ([]models.Set, error) {
	if s.setEntered != nil {
		s.setEntered <- struct{}{}
		<-s.setRelease
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls = append(s.setCalls, in)
	if s.setErr != nil {
		return nil, s.setErr
	}
	s.nextID++
	s.sets[exerciseID] = append(s.sets[exerciseID], models.Set{
		ID:         s.nextID,
		ExerciseID: exerciseID,
		SetNumber:  in.SetNumber,
		Weight:     in.Weight,
		Reps:       in.Reps,
	})
	return append([]models.Set(nil), s.sets[exerciseID]...), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
