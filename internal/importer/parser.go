package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

var (
	// sessionHeaderRe matches: 2024-03-01
	sessionHeaderRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`)

	// exerciseHeaderRe matches: 1. ベンチプレス
	exerciseHeaderRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

	// setDataRe matches: 1;62,5;8
	setDataRe = regexp.MustCompile(`^(\d+);([^;]+);(\d+)$`)

	// columnHeaderRe matches: #;KG;REPS
	columnHeaderRe = regexp.MustCompile(`(?i)^#;KG;REPS$`)
)

// Parse reads a training log and returns its sessions in file order.
//
// A log is a sequence of blocks separated by blank lines. Each block starts
// with a YYYY-MM-DD line, followed by numbered exercise headers, each with
// "set;kg;reps" lines below. Weights may use a decimal comma. Lines that match
// nothing are notes and are skipped.
func Parse(r io.Reader) ([]models.LogSession, error) {
	scanner := bufio.NewScanner(r)
	var sessions []models.LogSession
	var current *models.LogSession
	var currentExercise *models.LogExercise
	lineNo := 0

	flushExercise := func() {
		if current != nil && currentExercise != nil {
			current.Exercises = append(current.Exercises, *currentExercise)
		}
		currentExercise = nil
	}
	flushSession := func() {
		flushExercise()
		if current != nil {
			sessions = append(sessions, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			flushSession()
			continue
		}

		if columnHeaderRe.MatchString(line) {
			continue
		}

		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			flushSession()
			current = &models.LogSession{Date: m[1]}
			continue
		}

		if m := setDataRe.FindStringSubmatch(line); m != nil {
			if currentExercise == nil {
				return nil, fmt.Errorf("line %d: set without exercise: %q", lineNo, line)
			}
			setNum, _ := strconv.Atoi(m[1])
			weight, err := parseEuropeanFloat(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: weight %q: %w", lineNo, m[2], err)
			}
			reps, _ := strconv.Atoi(m[3])
			currentExercise.Sets = append(currentExercise.Sets, models.LogSet{
				Number:   setNum,
				WeightKg: weight,
				Reps:     reps,
			})
			continue
		}

		if m := exerciseHeaderRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("line %d: exercise without date: %q", lineNo, line)
			}
			flushExercise()
			num, _ := strconv.Atoi(m[1])
			currentExercise = &models.LogExercise{
				Number: num,
				Name:   strings.TrimSpace(m[2]),
			}
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	flushSession()
	return sessions, nil
}

// parseEuropeanFloat converts "62,5" or "62.5" to 62.5.
func parseEuropeanFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
