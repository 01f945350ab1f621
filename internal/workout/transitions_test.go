package workout

import (
	"testing"

	"github.com/claude/gymlog/internal/models"
)

// TestPrependExerciseDoesNotMutate verifies the input list is left as it was.
func TestPrependExerciseDoesNotMutate(t *testing.T) {
	in := []models.Exercise{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	out := PrependExercise(in, models.Exercise{ID: 3, Name: "c"})

	if len(in) != 2 || in[0].ID != 1 {
		t.Errorf("input changed: %+v", in)
	}
	if len(out) != 3 || out[0].ID != 3 || out[1].ID != 1 || out[2].ID != 2 {
		t.Errorf("out = %+v", out)
	}
	if out[0].Sets == nil {
		t.Error("new exercise sets should be empty, not nil")
	}
}

// TestReplaceSetsMatchesByID verifies only the matching exercise changes and
// the input slices are not shared.
func TestReplaceSetsMatchesByID(t *testing.T) {
	in := []models.Exercise{
		{ID: 1, Sets: []models.Set{{ID: 10}}},
		{ID: 2, Sets: []models.Set{{ID: 20}}},
	}
	sets := []models.Set{{ID: 21}, {ID: 22}}
	out := ReplaceSets(in, 2, sets)

	if len(out[1].Sets) != 2 || out[1].Sets[1].ID != 22 {
		t.Errorf("target sets = %+v", out[1].Sets)
	}
	if len(out[0].Sets) != 1 || out[0].Sets[0].ID != 10 {
		t.Errorf("other sets = %+v", out[0].Sets)
	}
	if len(in[1].Sets) != 1 {
		t.Error("input changed")
	}
	sets[0].ID = 99
	if out[1].Sets[0].ID != 21 {
		t.Error("result shares the server slice")
	}
}

// TestReplaceSetsUnknownID verifies an unmatched id leaves every exercise as is.
func TestReplaceSetsUnknownID(t *testing.T) {
	in := []models.Exercise{{ID: 1, Sets: []models.Set{{ID: 10}}}}
	out := ReplaceSets(in, 5, []models.Set{{ID: 50}})
	if len(out) != 1 || len(out[0].Sets) != 1 || out[0].Sets[0].ID != 10 {
		t.Errorf("out = %+v", out)
	}
}

// TestExercisesOfNil verifies a nil or exercise-less session gives an empty list.
func TestExercisesOfNil(t *testing.T) {
	if got := ExercisesOf(nil); got == nil || len(got) != 0 {
		t.Errorf("ExercisesOf(nil) = %#v", got)
	}
	if got := ExercisesOf(&models.Workout{}); got == nil || len(got) != 0 {
		t.Errorf("ExercisesOf(empty) = %#v", got)
	}
}
