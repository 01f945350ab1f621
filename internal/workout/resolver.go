// Package workout resolves the session for a date and manages the exercises
// and sets recorded in it.
package workout

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/models"
)

// SessionAPI is the part of the backend the Resolver needs. *api.Client satisfies it.
type SessionAPI interface {
	ListSessions(ctx context.Context, p api.ListParams) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, id int64) (*models.Workout, error)
	CreateSession(ctx context.Context, date time.Time, userIDHint int64) (*models.Workout, error)
}

// userIDHint is sent on create. The backend replaces it with the token's identity.
const userIDHint int64 = -1

// Resolver finds or creates the one session for a date.
type Resolver struct {
	api SessionAPI
	loc *time.Location
	log *slog.Logger
}

// NewResolver creates a Resolver. Bare dates are taken as start-of-day in loc
// (UTC when nil).
func NewResolver(a SessionAPI, loc *time.Location, log *slog.Logger) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{api: a, loc: loc, log: log}
}

// Resolve returns the session for date with its exercises and sets. When no
// session exists, exactly one is created. When several exist, the one with the
// lowest id is used.
func (r *Resolver) Resolve(ctx context.Context, date string) (*models.Workout, error) {
	day, err := models.NormalizeDate(date, r.loc)
	if err != nil {
		return nil, api.NewValidationError(err.Error())
	}

	sessions, err := r.api.ListSessions(ctx, api.ListParams{Date: day})
	if err != nil {
		return nil, r.fail(StageLookup, day, err)
	}

	if len(sessions) == 0 {
		w, err := r.api.CreateSession(ctx, day, userIDHint)
		if err != nil {
			return nil, r.fail(StageCreate, day, err)
		}
		r.log.Info("session created", "id", w.ID, "date", models.WireDate(day))
		out := *w
		out.Exercises = ExercisesOf(w)
		return &out, nil
	}
	return r.detail(ctx, day, sessions)
}

// Find is the read-only half of Resolve: it returns the session for date, or
// nil when there is none, and never creates one.
func (r *Resolver) Find(ctx context.Context, date string) (*models.Workout, error) {
	day, err := models.NormalizeDate(date, r.loc)
	if err != nil {
		return nil, api.NewValidationError(err.Error())
	}

	sessions, err := r.api.ListSessions(ctx, api.ListParams{Date: day})
	if err != nil {
		return nil, r.fail(StageLookup, day, err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return r.detail(ctx, day, sessions)
}

func (r *Resolver) detail(ctx context.Context, day time.Time, sessions []models.WorkoutSession) (*models.Workout, error) {
	chosen := lowestID(sessions)
	if len(sessions) > 1 {
		// Two clients can both see an empty list and both create.
		r.log.Warn("multiple sessions for one date, using lowest id",
			"date", models.WireDate(day), "count", len(sessions), "id", chosen.ID)
	}
	w, err := r.api.GetSession(ctx, chosen.ID)
	if err != nil {
		return nil, r.fail(StageDetail, day, err)
	}

	out := *w
	out.Exercises = ExercisesOf(w)
	return &out, nil
}

func (r *Resolver) fail(stage Stage, day time.Time, err error) error {
	r.log.Warn(MsgSession, "stage", stage, "date", models.WireDate(day), "error", err)
	return &ActionError{Message: MsgSession, Stage: stage, Err: err}
}

func lowestID(sessions []models.WorkoutSession) models.WorkoutSession {
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.ID < best.ID {
			best = s
		}
	}
	return best
}
