package workout

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/models"
)

// API is everything the Manager calls on the backend. *api.Client satisfies it.
type API interface {
	SessionAPI
	CreateExercise(ctx context.Context, sessionID int64, name string) (*models.Exercise, error)
	CreateSet(ctx context.Context, sessionID, exerciseID int64, in models.CreateSetRequest) ([]models.Set, error)
}

// SetEntry is an open set input targeting one exercise.
type SetEntry struct {
	ExerciseID int64
	Buffer     SetBuffer
}

// Manager holds the active session and applies server responses to it.
// State only changes after a call succeeds. The lock is never held across a
// network call; each action has its own busy flag instead.
type Manager struct {
	api      API
	resolver *Resolver
	log      *slog.Logger

	mu        sync.Mutex
	session   *models.WorkoutSession
	exercises []models.Exercise
	menuName  string
	entry     *SetEntry

	starting       bool
	addingExercise bool
	addingSet      bool
}

// NewManager creates a Manager with no active session.
func NewManager(a API, loc *time.Location, log *slog.Logger) *Manager {
	return &Manager{
		api:       a,
		resolver:  NewResolver(a, loc, log),
		log:       log,
		exercises: []models.Exercise{},
	}
}

// Start resolves the session for date and installs it. On failure the
// previous state is kept.
func (m *Manager) Start(ctx context.Context, date string) (*models.Workout, error) {
	if err := m.acquire(&m.starting); err != nil {
		return nil, err
	}
	defer m.release(&m.starting)

	w, err := m.resolver.Resolve(ctx, date)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &models.WorkoutSession{ID: w.ID, Date: w.Date, UserID: w.UserID}
	m.exercises = ExercisesOf(w)
	m.entry = nil

	out := *w
	out.Exercises = ExercisesOf(w)
	return &out, nil
}

// Session returns the active session header.
func (m *Manager) Session() (models.WorkoutSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return models.WorkoutSession{}, false
	}
	return *m.session, true
}

// Exercises returns a copy of the displayed exercises, newest first.
func (m *Manager) Exercises() []models.Exercise {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneExercises(m.exercises)
}

// Snapshot returns the active session with its displayed exercises.
func (m *Manager) Snapshot() (*models.Workout, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, false
	}
	return &models.Workout{
		ID:        m.session.ID,
		Date:      m.session.Date,
		UserID:    m.session.UserID,
		Exercises: cloneExercises(m.exercises),
	}, true
}

// SelectMenu fills the menu-name input.
func (m *Manager) SelectMenu(name string) {
	m.mu.Lock()
	m.menuName = name
	m.mu.Unlock()
}

// MenuName returns the menu-name input.
func (m *Manager) MenuName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.menuName
}

// AddExercise creates an exercise in the active session and puts it first in
// the displayed list. The menu-name input is cleared only on success.
func (m *Manager) AddExercise(ctx context.Context, name string) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, api.NewValidationError("exercise name is required")
	}
	if err := m.acquire(&m.addingExercise); err != nil {
		return nil, err
	}
	defer m.release(&m.addingExercise)

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil, api.NewValidationError("no active session")
	}
	sessionID := m.session.ID
	m.mu.Unlock()

	ex, err := m.api.CreateExercise(ctx, sessionID, name)
	if err != nil {
		m.log.Warn(MsgExercise, "session_id", sessionID, "name", name, "error", err)
		return nil, &ActionError{Message: MsgExercise, Stage: StageExercise, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.ID != sessionID {
		m.log.Info("session changed during add exercise, not displaying", "exercise_id", ex.ID)
		return ex, nil
	}
	m.exercises = PrependExercise(m.exercises, *ex)
	m.menuName = ""
	out := m.exercises[0]
	return &out, nil
}

// OpenSetEntry targets exerciseID with a default buffer, replacing any entry
// already open.
func (m *Manager) OpenSetEntry(exerciseID int64) SetEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &SetEntry{ExerciseID: exerciseID, Buffer: DefaultSetBuffer()}
	return *m.entry
}

// Entry returns the open set entry, if any.
func (m *Manager) Entry() (SetEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return SetEntry{}, false
	}
	return *m.entry, true
}

// CloseSetEntry discards the open set entry.
func (m *Manager) CloseSetEntry() {
	m.mu.Lock()
	m.entry = nil
	m.mu.Unlock()
}

// SubmitSet sends buf for the targeted exercise. With no active session or no
// open entry it does nothing and returns nil, nil. On success the exercise's
// sets become the server's collection and the entry closes; on failure the
// entry stays open holding buf.
func (m *Manager) SubmitSet(ctx context.Context, buf SetBuffer) ([]models.Set, error) {
	if err := m.acquire(&m.addingSet); err != nil {
		return nil, err
	}
	defer m.release(&m.addingSet)

	m.mu.Lock()
	if m.session == nil || m.entry == nil {
		m.mu.Unlock()
		return nil, nil
	}
	sessionID := m.session.ID
	target := m.entry.ExerciseID
	m.entry.Buffer = buf
	m.mu.Unlock()

	return m.createSet(ctx, sessionID, target, buf)
}

// RecordSet targets exerciseID and submits buf as one action, so a concurrent
// caller cannot retarget the entry between the two steps. Unlike SubmitSet, a
// missing session is reported as a validation error.
func (m *Manager) RecordSet(ctx context.Context, exerciseID int64, buf SetBuffer) ([]models.Set, error) {
	if err := m.acquire(&m.addingSet); err != nil {
		return nil, err
	}
	defer m.release(&m.addingSet)

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil, api.NewValidationError("no active session")
	}
	sessionID := m.session.ID
	m.entry = &SetEntry{ExerciseID: exerciseID, Buffer: buf}
	m.mu.Unlock()

	return m.createSet(ctx, sessionID, exerciseID, buf)
}

// createSet must be called holding the addingSet flag.
func (m *Manager) createSet(ctx context.Context, sessionID, target int64, buf SetBuffer) ([]models.Set, error) {
	sets, err := m.api.CreateSet(ctx, sessionID, target, buf.Request())
	if err != nil {
		m.log.Warn(MsgSet, "session_id", sessionID, "exercise_id", target, "error", err)
		return nil, &ActionError{Message: MsgSet, Stage: StageSet, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil && m.session.ID == sessionID {
		m.exercises = ReplaceSets(m.exercises, target, sets)
	}
	if m.entry != nil && m.entry.ExerciseID == target {
		m.entry = nil
	}
	return cloneSets(sets), nil
}

func (m *Manager) acquire(flag *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *flag {
		return ErrBusy
	}
	*flag = true
	return nil
}

func (m *Manager) release(flag *bool) {
	m.mu.Lock()
	*flag = false
	m.mu.Unlock()
}
