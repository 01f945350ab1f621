package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/claude/gymlog/internal/importer"
	gymmcp "github.com/claude/gymlog/internal/mcp"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/recommend"
	"github.com/claude/gymlog/internal/workout"
	"github.com/mark3labs/mcp-go/server"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":     runRegister,
	"login":        runLogin,
	"logout":       runLogout,
	"start":        runStart,
	"show":         runShow,
	"add-exercise": runAddExercise,
	"add-set":      runAddSet,
	"menu":         runMenu,
	"recommend":    runRecommend,
	"import":       runImport,
	"mcp":          runMCP,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	username := fs.String("username", "", "account name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", os.Getenv("GYMLOG_PASSWORD"), "password, at least 8 characters (or GYMLOG_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return usagef("register: %v", err)
	}

	msg, err := a.client.Register(ctx, models.RegisterRequest{Username: *username, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	fmt.Println("Run `gymlog login` to sign in.")
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", os.Getenv("GYMLOG_PASSWORD"), "password (or GYMLOG_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return usagef("login: %v", err)
	}

	token, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.tokens.Set(token); err != nil {
		return err
	}
	a.log.Info("logged in", "email", *email)
	fmt.Println("Logged in.")
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runStart(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("start")
	date := fs.String("date", a.today(), "session day (YYYY-MM-DD or RFC 3339)")
	if err := fs.Parse(args); err != nil {
		return usagef("start: %v", err)
	}

	w, err := a.manager().Start(ctx, *date)
	if err != nil {
		return err
	}
	fmt.Printf("Session %d on %s (%d exercises)\n", w.ID, w.Date, len(w.Exercises))
	return nil
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("show")
	date := fs.String("date", a.today(), "session day (YYYY-MM-DD or RFC 3339)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return usagef("show: %v", err)
	}

	w, err := workout.NewResolver(a.client, a.loc, a.log).Find(ctx, *date)
	if err != nil {
		return err
	}
	if w == nil {
		if *asJSON {
			fmt.Println("null")
			return nil
		}
		fmt.Printf("No session on %s\n", *date)
		return nil
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(w)
	}
	printWorkout(w)
	return nil
}

func runAddExercise(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-exercise")
	date := fs.String("date", a.today(), "session day (YYYY-MM-DD or RFC 3339)")
	name := fs.String("name", "", "exercise name (any text; see `gymlog menu`)")
	if err := fs.Parse(args); err != nil {
		return usagef("add-exercise: %v", err)
	}
	if *name == "" && fs.NArg() > 0 {
		*name = strings.Join(fs.Args(), " ")
	}

	m := a.manager()
	if _, err := m.Start(ctx, *date); err != nil {
		return err
	}
	ex, err := m.AddExercise(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (exercise_id %d)\n", ex.Name, ex.ID)
	return nil
}

func runAddSet(ctx context.Context, a *app, args []string) error {
	def := workout.DefaultSetBuffer()
	fs := newFlagSet("add-set")
	date := fs.String("date", a.today(), "session day (YYYY-MM-DD or RFC 3339)")
	exerciseID := fs.Int64("exercise", 0, "exercise_id (required)")
	setNumber := fs.Int("set", def.SetNumber, fmt.Sprintf("set number, 1-%d", workout.MaxSetNumber))
	weight := fs.Float64("weight", def.Weight, fmt.Sprintf("weight in kg, %.1f-%.0f in %.1f steps", workout.WeightStep, workout.MaxWeight, workout.WeightStep))
	reps := fs.Int("reps", def.Reps, fmt.Sprintf("repetitions, 1-%d", workout.MaxReps))
	if err := fs.Parse(args); err != nil {
		return usagef("add-set: %v", err)
	}
	if *exerciseID <= 0 {
		return usagef("add-set: -exercise is required")
	}
	buf := workout.SetBuffer{SetNumber: *setNumber, Weight: *weight, Reps: *reps}
	if !buf.Offered() {
		return usagef("add-set: set %d, %.1f kg x %d is outside the offered choices", buf.SetNumber, buf.Weight, buf.Reps)
	}

	m := a.manager()
	w, err := m.Start(ctx, *date)
	if err != nil {
		return err
	}
	if !hasExercise(w, *exerciseID) {
		return usagef("add-set: exercise %d is not part of the session on %s", *exerciseID, w.Date)
	}

	sets, err := m.RecordSet(ctx, *exerciseID, buf)
	if err != nil {
		return err
	}
	fmt.Printf("Exercise %d now has %d sets:\n", *exerciseID, len(sets))
	printSets(sets)
	return nil
}

func runMenu(_ context.Context, _ *app, _ []string) error {
	fmt.Println("Exercises:")
	for _, name := range workout.MenuCatalog() {
		fmt.Printf("  %s\n", name)
	}
	printOptions("Goals", recommend.Goals())
	printOptions("Body parts", recommend.BodyParts())
	printOptions("Levels", recommend.Levels())
	return nil
}

func runRecommend(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("recommend")
	goal := fs.String("goal", "", "goal id (see `gymlog menu`)")
	parts := fs.String("parts", "", "comma-separated body part ids")
	level := fs.String("level", "", "experience level id")
	minutes := fs.Int("time", recommend.DefaultAvailableTime, "minutes available")
	if err := fs.Parse(args); err != nil {
		return usagef("recommend: %v", err)
	}
	if *goal == "" {
		return usagef("recommend: -goal is required")
	}

	profile := models.TrainingProfile{
		TrainingGoal:    recommend.GoalValue(*goal),
		ExperienceLevel: recommend.LevelValue(*level),
		AvailableTime:   *minutes,
	}
	if *parts != "" {
		profile.TargetParts = recommend.PartValues(strings.Split(*parts, ","))
	}

	text, err := recommend.NewRequestor(a.client, a.log).Request(ctx, profile)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("import")
	dryRun := fs.Bool("dry-run", false, "parse and count without sending anything")
	if err := fs.Parse(args); err != nil {
		return usagef("import: %v", err)
	}
	if fs.NArg() == 0 {
		return usagef("import: at least one log file is required")
	}

	if *dryRun {
		a.log.Info("DRY RUN mode: files will be parsed but not sent")
	}

	imp := importer.New(a.manager(), a.db, a.log, *dryRun)
	stats, err := imp.Import(ctx, fs.Args()...)
	printStats(stats)
	if err != nil {
		return err
	}
	a.log.Info("import complete")
	return nil
}

func runMCP(_ context.Context, a *app, _ []string) error {
	s := gymmcp.New(a.manager(), recommend.NewRequestor(a.client, a.log), Version, a.log)
	a.log.Info("mcp server starting", "transport", "stdio", "api", a.cfg.API.BaseURL)
	return server.ServeStdio(s)
}

func hasExercise(w *models.Workout, id int64) bool {
	for _, ex := range w.Exercises {
		if ex.ID == id {
			return true
		}
	}
	return false
}

func printWorkout(w *models.Workout) {
	fmt.Printf("Session %d on %s\n", w.ID, w.Date)
	if len(w.Exercises) == 0 {
		fmt.Println("  (no exercises)")
		return
	}
	for _, ex := range w.Exercises {
		fmt.Printf("  [%d] %s\n", ex.ID, ex.Name)
		printSets(ex.Sets)
	}
}

func printSets(sets []models.Set) {
	for _, s := range sets {
		fmt.Printf("      set %d: %g kg x %d\n", s.SetNumber, s.Weight, s.Reps)
	}
}

func printOptions(title string, opts []recommend.Option) {
	fmt.Printf("%s:\n", title)
	for _, o := range opts {
		fmt.Printf("  %-16s %s (%s)\n", o.ID, o.Label, o.Value)
	}
}

func printStats(stats *importer.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files processed:  %d\n", stats.FilesProcessed)
	fmt.Printf("  Files skipped:    %d (already imported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions:         %d\n", stats.SessionsReplayed)
	fmt.Printf("  Exercises:        %d\n", stats.ExercisesAdded)
	fmt.Printf("  Sets:             %d\n", stats.SetsAdded)
	fmt.Println()
}
