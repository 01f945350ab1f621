package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/recommend"
	"github.com/claude/gymlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeBackend is a minimal in-memory backend for one user.
type fakeBackend struct {
	nextID    int64
	sessions  map[string]*models.Workout
	exercises map[int64]*models.Exercise
	profile   models.TrainingProfile
	recErr    error

	// When set, CreateSet signals setEntered and waits on setRelease.
	setEntered chan int64
	setRelease chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sessions: map[string]*models.Workout{}, exercises: map[int64]*models.Exercise{}}
}

func (f *fakeBackend) ListSessions(_ context.Context, p api.ListParams) ([]models.WorkoutSession, error) {
	if w, ok := f.sessions[p.Date.UTC().Format(models.Day)]; ok {
		return []models.WorkoutSession{{ID: w.ID, Date: w.Date, UserID: w.UserID}}, nil
	}
	return nil, nil
}

func (f *fakeBackend) GetSession(_ context.Context, id int64) (*models.Workout, error) {
	for _, w := range f.sessions {
		if w.ID == id {
			out := *w
			return &out, nil
		}
	}
	return nil, &api.BackendError{Status: 404, Message: "Not Found"}
}

func (f *fakeBackend) CreateSession(_ context.Context, date time.Time, _ int64) (*models.Workout, error) {
	f.nextID++
	w := &models.Workout{ID: f.nextID, Date: date.UTC().Format(models.Day), UserID: 1}
	f.sessions[w.Date] = w
	out := *w
	return &out, nil
}

func (f *fakeBackend) CreateExercise(_ context.Context, sessionID int64, name string) (*models.Exercise, error) {
	f.nextID++
	ex := &models.Exercise{ID: f.nextID, SessionID: sessionID, Name: name}
	f.exercises[ex.ID] = ex
	out := *ex
	return &out, nil
}

func (f *fakeBackend) CreateSet(_ context.Context, _, exerciseID int64, in models.CreateSetRequest) ([]models.Set, error) {
	if f.setEntered != nil {
		f.setEntered <- exerciseID
		<-f.setRelease
	}
	ex, ok := f.exercises[exerciseID]
	if !ok {
		return nil, &api.BackendError{Status: 404, Message: "exercise not found"}
	}
	f.nextID++
	ex.Sets = append(ex.Sets, models.Set{ID: f.nextID, ExerciseID: exerciseID, SetNumber: in.SetNumber, Weight: in.Weight, Reps: in.Reps})
	return append([]models.Set(nil), ex.Sets...), nil
}

func (f *fakeBackend) Recommend(_ context.Context, p models.TrainingProfile) (string, error) {
	f.profile = p
	return "menu for " + p.TrainingGoal, f.recErr
}

func newTestHandlers() (*handlers, *fakeBackend) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := newFakeBackend()
	return &handlers{
		rec:         workout.NewManager(b, time.UTC, log),
		recommender: recommend.NewRequestor(b, log),
		log:         log,
	}, b
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return tc.Text
}

// TestToolWorkflow verifies start_session, add_exercise and add_set operate on
// one shared session and get_session reflects them.
func TestToolWorkflow(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := context.Background()

	res, err := h.startSession(ctx, call(map[string]any{"date": "2024-03-01"}))
	if err != nil || res.IsError {
		t.Fatalf("start_session: %v %s", err, resultText(t, res))
	}

	res, _ = h.addExercise(ctx, call(map[string]any{"name": "スクワット"}))
	if res.IsError {
		t.Fatalf("add_exercise: %s", resultText(t, res))
	}
	var ex models.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &ex); err != nil {
		t.Fatal(err)
	}

	res, _ = h.addSet(ctx, call(map[string]any{
		"exercise_id": float64(ex.ID), "set_number": float64(1), "weight": 42.5, "reps": float64(10),
	}))
	if res.IsError {
		t.Fatalf("add_set: %s", resultText(t, res))
	}
	var sets struct {
		Sets []models.Set `json:"sets"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &sets); err != nil {
		t.Fatal(err)
	}
	if len(sets.Sets) != 1 || sets.Sets[0].Weight != 42.5 || sets.Sets[0].Reps != 10 {
		t.Errorf("sets = %+v", sets.Sets)
	}

	res, _ = h.getSession(ctx, call(nil))
	var w models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &w); err != nil {
		t.Fatal(err)
	}
	if w.Date != "2024-03-01" || len(w.Exercises) != 1 || len(w.Exercises[0].Sets) != 1 {
		t.Errorf("session = %+v", w)
	}
}

// TestAddSetDefaults verifies omitted set fields take the entry defaults.
func TestAddSetDefaults(t *testing.T) {
	h, b := newTestHandlers()
	ctx := context.Background()
	h.startSession(ctx, call(map[string]any{"date": "2024-03-01"}))
	h.addExercise(ctx, call(map[string]any{"name": "a"}))

	var id int64
	for k := range b.exercises {
		id = k
	}
	res, _ := h.addSet(ctx, call(map[string]any{"exercise_id": float64(id)}))
	if res.IsError {
		t.Fatalf("add_set: %s", resultText(t, res))
	}
	got := b.exercises[id].Sets[0]
	if got.SetNumber != 1 || got.Weight != 0.5 || got.Reps != 1 {
		t.Errorf("set = %+v, want defaults", got)
	}
}

// TestConcurrentAddSet verifies overlapping add_set calls for different
// exercises each record on their own exercise.
func TestConcurrentAddSet(t *testing.T) {
	h, b := newTestHandlers()
	ctx := context.Background()
	h.startSession(ctx, call(map[string]any{"date": "2024-03-01"}))
	exA := addTestExercise(t, h, "a")
	exB := addTestExercise(t, h, "b")

	b.setEntered = make(chan int64, 2)
	b.setRelease = make(chan struct{})

	results := make(chan *mcp.CallToolResult, 2)
	record := func(id int64, weight float64) {
		results <- must(h.addSet(ctx, call(map[string]any{"exercise_id": float64(id), "weight": weight})))
	}
	go record(exA, 11)
	if got := <-b.setEntered; got != exA {
		t.Fatalf("first call targets %d, want %d", got, exA)
	}
	go record(exB, 22)
	close(b.setRelease)

	for range 2 {
		if res := <-results; res.IsError {
			t.Errorf("add_set: %s", resultText(t, res))
		}
	}
	if sets := b.exercises[exA].Sets; len(sets) != 1 || sets[0].Weight != 11 {
		t.Errorf("exercise a sets = %+v", sets)
	}
	if sets := b.exercises[exB].Sets; len(sets) != 1 || sets[0].Weight != 22 {
		t.Errorf("exercise b sets = %+v", sets)
	}
}

func addTestExercise(t *testing.T, h *handlers, name string) int64 {
	t.Helper()
	res := must(h.addExercise(context.Background(), call(map[string]any{"name": name})))
	if res.IsError {
		t.Fatalf("add_exercise: %s", resultText(t, res))
	}
	var ex models.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &ex); err != nil {
		t.Fatal(err)
	}
	return ex.ID
}

// TestToolsRequireSession verifies tools report a clear error before start_session.
func TestToolsRequireSession(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := context.Background()

	for name, res := range map[string]*mcp.CallToolResult{
		"add_exercise": must(h.addExercise(ctx, call(map[string]any{"name": "a"}))),
		"add_set":      must(h.addSet(ctx, call(map[string]any{"exercise_id": float64(1)}))),
		"get_session":  must(h.getSession(ctx, call(nil))),
	} {
		if !res.IsError {
			t.Errorf("%s: expected error result", name)
		}
	}
}

// TestMissingParams verifies required parameters are enforced.
func TestMissingParams(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := context.Background()

	if res := must(h.startSession(ctx, call(map[string]any{}))); !res.IsError {
		t.Error("start_session without date should fail")
	}
	if res := must(h.addSet(ctx, call(map[string]any{}))); !res.IsError {
		t.Error("add_set without exercise_id should fail")
	}
	if res := must(h.recommendTrainingMenu(ctx, call(map[string]any{}))); !res.IsError {
		t.Error("recommend without goal should fail")
	}
}

// TestRecommendTool verifies ids are mapped to backend values and the text is
// returned verbatim.
func TestRecommendTool(t *testing.T) {
	h, b := newTestHandlers()
	res := must(h.recommendTrainingMenu(context.Background(), call(map[string]any{
		"goal": "fat-loss", "target_parts": "legs, abs", "available_time": float64(45),
	})))
	if res.IsError {
		t.Fatalf("recommend: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "menu for ダイエット" {
		t.Errorf("text = %q", got)
	}
	if b.profile.AvailableTime != 45 || b.profile.ExperienceLevel != "初心者" {
		t.Errorf("profile = %+v", b.profile)
	}
	if strings.Join(b.profile.TargetParts, ",") != "脚,腹筋" {
		t.Errorf("parts = %v", b.profile.TargetParts)
	}
}

// TestRecommendUnauthorized verifies an expired token yields a login hint.
func TestRecommendUnauthorized(t *testing.T) {
	h, b := newTestHandlers()
	b.recErr = &api.BackendError{Status: 401, Message: "invalid token"}

	res := must(h.recommendTrainingMenu(context.Background(), call(map[string]any{"goal": "health"})))
	if !res.IsError || !strings.Contains(resultText(t, res), "gymlog login") {
		t.Errorf("result = %+v", res)
	}
}

// TestListMenuCatalog verifies the catalog tool lists every choice.
func TestListMenuCatalog(t *testing.T) {
	h, _ := newTestHandlers()
	res := must(h.listMenuCatalog(context.Background(), call(nil)))

	var c catalogView
	if err := json.Unmarshal([]byte(resultText(t, res)), &c); err != nil {
		t.Fatal(err)
	}
	if len(c.Menu) != 5 || len(c.Goals) != 4 || len(c.BodyParts) != 7 || len(c.Levels) != 3 {
		t.Errorf("catalog = %+v", c)
	}
}

// TestNewRegistersServer verifies the server builds with all tools attached.
func TestNewRegistersServer(t *testing.T) {
	h, _ := newTestHandlers()
	if s := New(h.rec, h.recommender, "test", h.log); s == nil {
		t.Fatal("New returned nil")
	}
}

func must(res *mcp.CallToolResult, err error) *mcp.CallToolResult {
	if err != nil {
		panic(err)
	}
	return res
}
