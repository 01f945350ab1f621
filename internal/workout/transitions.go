package workout

import "github.com/claude/gymlog/internal/models"

// ExercisesOf returns the displayable exercise list of a resolved session.
// The result is never nil and shares no slices with w.
func ExercisesOf(w *models.Workout) []models.Exercise {
	if w == nil {
		return []models.Exercise{}
	}
	return cloneExercises(w.Exercises)
}

// PrependExercise returns a new list with ex first. A created exercise starts
// with an empty set list.
func PrependExercise(list []models.Exercise, ex models.Exercise) []models.Exercise {
	ex.Sets = cloneSets(ex.Sets)
	out := make([]models.Exercise, 0, len(list)+1)
	out = append(out, ex)
	return append(out, cloneExercises(list)...)
}

// ReplaceSets returns a new list in which the exercise with exerciseID carries
// exactly sets. Every other exercise is copied unchanged. If no exercise
// matches, the result equals list.
func ReplaceSets(list []models.Exercise, exerciseID int64, sets []models.Set) []models.Exercise {
	out := cloneExercises(list)
	for i := range out {
		if out[i].ID == exerciseID {
			out[i].Sets = cloneSets(sets)
		}
	}
	return out
}

func cloneExercises(list []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, len(list))
	for i, ex := range list {
		ex.Sets = cloneSets(ex.Sets)
		out[i] = ex
	}
	return out
}

func cloneSets(sets []models.Set) []models.Set {
	out := make([]models.Set, len(sets))
	copy(out, sets)
	return out
}
