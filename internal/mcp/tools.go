package mcp

import (
	"context"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/recommend"
	"github.com/claude/gymlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Open the workout session for a date, creating it if none exists. Returns the session with its exercises and sets."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Session date (YYYY-MM-DD or RFC 3339)")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Add an exercise to the active session. Requires start_session first."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name, e.g. ベンチプレス. Any name is accepted.")),
)

var toolAddSet = mcp.NewTool("add_set",
	mcp.WithDescription("Record one set for an exercise of the active session. Returns every set of that exercise."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("exercise_id from add_exercise or get_session")),
	mcp.WithNumber("set_number", mcp.Description("Set number. Defaults to 1.")),
	mcp.WithNumber("weight", mcp.Description("Weight in kg, 0.5 steps. Defaults to 0.5.")),
	mcp.WithNumber("reps", mcp.Description("Repetitions. Defaults to 1.")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Return the active session with its exercises (newest first) and sets."),
)

var toolListMenuCatalog = mcp.NewTool("list_menu_catalog",
	mcp.WithDescription("List suggested exercise names and the goal, body part and level ids for recommend_training_menu."),
)

var toolRecommendTrainingMenu = mcp.NewTool("recommend_training_menu",
	mcp.WithDescription("Ask the backend for a training menu matching a profile. Returns free text."),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Training goal id"),
		mcp.Enum("muscle-building", "fat-loss", "health", "performance")),
	mcp.WithString("target_parts", mcp.Description("Comma-separated body part ids (full-body, chest, back, shoulders, arms, legs, abs)")),
	mcp.WithString("experience_level", mcp.Description("Experience level id"),
		mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithNumber("available_time", mcp.Description("Minutes available. Defaults to 30.")),
)

// --- Tool handlers ---

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}

	w, err := h.rec.Start(ctx, date)
	if err != nil {
		h.log.Error("mcp start_session", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	ex, err := h.rec.AddExercise(ctx, name)
	if err != nil {
		h.log.Error("mcp add_exercise", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(ex)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) addSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	if _, ok := h.rec.Snapshot(); !ok {
		return mcp.NewToolResultError("no active session; call start_session first"), nil
	}

	def := workout.DefaultSetBuffer()
	buf := workout.SetBuffer{
		SetNumber: req.GetInt("set_number", def.SetNumber),
		Weight:    req.GetFloat("weight", def.Weight),
		Reps:      req.GetInt("reps", def.Reps),
	}

	h.setMu.Lock()
	sets, err := h.rec.RecordSet(ctx, int64(exerciseID), buf)
	h.setMu.Unlock()
	if err != nil {
		h.log.Error("mcp add_set", "exercise_id", exerciseID, "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"sets": sets})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, ok := h.rec.Snapshot()
	if !ok {
		return mcp.NewToolResultError("no active session; call start_session first"), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMenuCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(catalog())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recommendTrainingMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}

	profile := models.TrainingProfile{
		TrainingGoal:    recommend.GoalValue(goal),
		TargetParts:     recommend.PartValues(strings.Split(req.GetString("target_parts", ""), ",")),
		ExperienceLevel: recommend.LevelValue(req.GetString("experience_level", "beginner")),
		AvailableTime:   req.GetInt("available_time", recommend.DefaultAvailableTime),
	}

	text, err := h.recommender.Request(ctx, profile)
	if err != nil {
		h.log.Error("mcp recommend_training_menu", "error", err)
		return toolError(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

type catalogView struct {
	Menu      []string           `json:"menu"`
	Goals     []recommend.Option `json:"goals"`
	BodyParts []recommend.Option `json:"body_parts"`
	Levels    []recommend.Option `json:"experience_levels"`
}

func catalog() catalogView {
	return catalogView{
		Menu:      workout.MenuCatalog(),
		Goals:     recommend.Goals(),
		BodyParts: recommend.BodyParts(),
		Levels:    recommend.Levels(),
	}
}
