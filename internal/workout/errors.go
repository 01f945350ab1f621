package workout

import "errors"

// ErrBusy is returned when the same action is already in flight.
var ErrBusy = errors.New("action already in progress")

// User-facing messages, one per action.
const (
	MsgSession  = "could not fetch or create session"
	MsgExercise = "could not add exercise"
	MsgSet      = "could not add set"
)

// Stage names the call that failed inside an action.
type Stage string

const (
	StageLookup   Stage = "lookup"
	StageCreate   Stage = "create"
	StageDetail   Stage = "detail"
	StageExercise Stage = "exercise"
	StageSet      Stage = "set"
)

// ActionError is the single error an action reports when a network call
// fails. Message is safe to show; Err keeps the cause for errors.Is/As.
type ActionError struct {
	Message string
	Stage   Stage
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error { return e.Err }
