// Package importer replays plain-text training logs into the backend.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/state"
	"github.com/claude/gymlog/internal/workout"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsReplayed int
	ExercisesAdded   int
	SetsAdded        int
}

// Recorder is the workflow a log is replayed through. *workout.Manager satisfies it.
type Recorder interface {
	Start(ctx context.Context, date string) (*models.Workout, error)
	AddExercise(ctx context.Context, name string) (*models.Exercise, error)
	RecordSet(ctx context.Context, exerciseID int64, buf workout.SetBuffer) ([]models.Set, error)
}

// Ledger remembers which files were already replayed. *state.DB satisfies it.
type Ledger interface {
	IsImported(path string, size int64, hash string) (bool, error)
	MarkImported(path string, size int64, hash string, sessions int) error
}

// Importer parses log files and replays them through a Recorder.
type Importer struct {
	rec    Recorder
	ledger Ledger
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates an Importer. ledger may be nil, in which case every file is replayed.
func New(rec Recorder, ledger Ledger, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{rec: rec, ledger: ledger, log: log, dryRun: dryRun}
}

// Import processes each file in order. A file that fails is counted and
// logged; the remaining files are still processed. The first error is returned.
func (imp *Importer) Import(ctx context.Context, paths ...string) (*Stats, error) {
	var firstErr error
	for _, p := range paths {
		if err := imp.importFile(ctx, p); err != nil {
			imp.stats.FilesErrored++
			imp.log.Warn("import failed", "file", p, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("importing %s: %w", filepath.Base(p), err)
			}
		}
	}
	return &imp.stats, firstErr
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	hash, err := state.HashFile(abs)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	if imp.ledger != nil {
		done, err := imp.ledger.IsImported(abs, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking ledger: %w", err)
		}
		if done {
			imp.log.Info("skipping already imported file", "file", abs)
			imp.stats.FilesSkipped++
			return nil
		}
	}

	f, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer f.Close()

	sessions, err := Parse(f)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	imp.stats.FilesProcessed++
	if imp.dryRun {
		for _, s := range sessions {
			imp.stats.SessionsReplayed++
			imp.stats.ExercisesAdded += len(s.Exercises)
			for _, ex := range s.Exercises {
				imp.stats.SetsAdded += len(ex.Sets)
			}
		}
		return nil
	}

	for _, s := range sessions {
		if err := imp.replaySession(ctx, s); err != nil {
			// Sessions before this one stay recorded; the file is not marked.
			return fmt.Errorf("session %s: %w", s.Date, err)
		}
	}

	if imp.ledger != nil {
		if err := imp.ledger.MarkImported(abs, info.Size(), hash, len(sessions)); err != nil {
			return fmt.Errorf("updating ledger: %w", err)
		}
	}
	imp.log.Info("imported log", "file", abs, "sessions", len(sessions))
	return nil
}

func (imp *Importer) replaySession(ctx context.Context, s models.LogSession) error {
	if _, err := imp.rec.Start(ctx, s.Date); err != nil {
		return err
	}
	imp.stats.SessionsReplayed++

	for _, ex := range s.Exercises {
		created, err := imp.rec.AddExercise(ctx, ex.Name)
		if err != nil {
			return fmt.Errorf("exercise %q: %w", ex.Name, err)
		}
		imp.stats.ExercisesAdded++

		for _, set := range ex.Sets {
			buf := workout.SetBuffer{SetNumber: set.Number, Weight: set.WeightKg, Reps: set.Reps}
			if !buf.Offered() {
				imp.log.Debug("set outside offered choices", "exercise", ex.Name, "set", set.Number, "weight", set.WeightKg, "reps", set.Reps)
			}
			sets, err := imp.rec.RecordSet(ctx, created.ID, buf)
			if err != nil {
				return fmt.Errorf("exercise %q set %d: %w", ex.Name, set.Number, err)
			}
			if sets == nil {
				return fmt.Errorf("exercise %q set %d: not recorded", ex.Name, set.Number)
			}
			imp.stats.SetsAdded++
		}
	}
	return nil
}
