package models

// LogSession is one dated block of a plain-text training log.
type LogSession struct {
	Date      string
	Exercises []LogExercise
}

// LogExercise is a numbered exercise header and the sets below it.
type LogExercise struct {
	Number int
	Name   string
	Sets   []LogSet
}

// LogSet is one "n;kg;reps" line.
type LogSet struct {
	Number   int
	WeightKg float64
	Reps     int
}
