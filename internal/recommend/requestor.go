// Package recommend requests a training menu for a profile.
package recommend

import (
	"context"
	"log/slog"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/workout"
)

// Msg is the user-facing failure message.
const Msg = "could not fetch recommendation"

// StageRecommend marks a failed recommendation call.
const StageRecommend workout.Stage = "recommend"

// Backend is the recommendation endpoint. *api.Client satisfies it.
type Backend interface {
	Recommend(ctx context.Context, p models.TrainingProfile) (string, error)
}

// Requestor sends profiles and returns the menu text verbatim.
type Requestor struct {
	backend Backend
	log     *slog.Logger
}

func NewRequestor(b Backend, log *slog.Logger) *Requestor {
	return &Requestor{backend: b, log: log}
}

// Request fills a zero AvailableTime with DefaultAvailableTime and asks the
// backend for a menu.
func (r *Requestor) Request(ctx context.Context, p models.TrainingProfile) (string, error) {
	if p.AvailableTime <= 0 {
		p.AvailableTime = DefaultAvailableTime
	}
	if p.TargetParts == nil {
		p.TargetParts = []string{}
	}

	text, err := r.backend.Recommend(ctx, p)
	if err != nil {
		r.log.Warn(Msg, "goal", p.TrainingGoal, "error", err)
		return "", &workout.ActionError{Message: Msg, Stage: StageRecommend, Err: err}
	}
	return text, nil
}
