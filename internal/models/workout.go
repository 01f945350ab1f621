package models

import (
	"fmt"
	"strings"
	"time"
)

// WorkoutSession is one entry of GET /workouts. The list endpoint never
// carries exercises.
type WorkoutSession struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	UserID int64  `json:"user_id"`
}

// Workout is a session with its nested exercises, as returned by
// GET /workouts/{id} and POST /workouts.
type Workout struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	UserID    int64      `json:"user_id"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a named movement recorded within a session.
// Sets are in display order.
type Exercise struct {
	ID        int64  `json:"exercise_id"`
	SessionID int64  `json:"session_id"`
	Name      string `json:"exercise_name"`
	Sets      []Set  `json:"sets"`
}

// Set is one weight × reps group within an exercise. SetNumber is chosen by
// the user and is neither sequential nor unique.
type Set struct {
	ID         int64   `json:"set_id"`
	ExerciseID int64   `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
}

// Day is the calendar-day layout the backend renders session dates with.
const Day = "2006-01-02"

// ParseSessionDate reads a session date as rendered by the backend. Both the
// bare day and a full RFC3339 timestamp are accepted.
func ParseSessionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(Day, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing session date %q: %w", s, err)
	}
	return t, nil
}

// NormalizeDate expands user input to the instant sent on the wire. A bare
// YYYY-MM-DD becomes start-of-day in loc; RFC3339 input is kept as given.
func NormalizeDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(Day, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
	}
	return t, nil
}

// WireDate formats an instant the way the backend expects it in queries and
// request bodies.
func WireDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
