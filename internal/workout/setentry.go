package workout

import (
	"math"

	"github.com/claude/gymlog/internal/models"
)

// Bounds of the choices offered for a set. The backend accepts wider values.
const (
	MaxSetNumber = 10
	MaxReps      = 30
	MaxWeight    = 100.0
	WeightStep   = 0.5
)

var menuCatalog = []string{
	"ベンチプレス",
	"スクワット",
	"デッドリフト",
	"ショルダープレス",
	"ラットプルダウン",
}

// MenuCatalog returns the known exercise names. Exercise names are free-form;
// the catalog is only a list of suggestions.
func MenuCatalog() []string {
	out := make([]string, len(menuCatalog))
	copy(out, menuCatalog)
	return out
}

// SetBuffer is the pending input for one set.
type SetBuffer struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

// DefaultSetBuffer is what a freshly opened set entry holds.
func DefaultSetBuffer() SetBuffer {
	return SetBuffer{SetNumber: 1, Weight: WeightStep, Reps: 1}
}

// Request converts the buffer to the wire payload.
func (b SetBuffer) Request() models.CreateSetRequest {
	return models.CreateSetRequest{SetNumber: b.SetNumber, Weight: b.Weight, Reps: b.Reps}
}

// Offered reports whether every field is one of the offered choices.
func (b SetBuffer) Offered() bool {
	if b.SetNumber < 1 || b.SetNumber > MaxSetNumber {
		return false
	}
	if b.Reps < 1 || b.Reps > MaxReps {
		return false
	}
	halves := b.Weight / WeightStep
	if halves != math.Trunc(halves) {
		return false
	}
	return b.Weight >= WeightStep && b.Weight <= MaxWeight
}

// SetNumberChoices returns 1..MaxSetNumber.
func SetNumberChoices() []int {
	return intRange(1, MaxSetNumber)
}

// RepsChoices returns 1..MaxReps.
func RepsChoices() []int {
	return intRange(1, MaxReps)
}

// WeightChoices returns 0.5..100 in 0.5 steps. Values are computed from
// integer halves so every entry is exact.
func WeightChoices() []float64 {
	n := int(MaxWeight / WeightStep)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) * WeightStep
	}
	return out
}

func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
