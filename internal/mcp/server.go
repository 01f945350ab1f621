package mcp

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Recorder is the session workflow the tools drive. *workout.Manager satisfies it.
type Recorder interface {
	Start(ctx context.Context, date string) (*models.Workout, error)
	AddExercise(ctx context.Context, name string) (*models.Exercise, error)
	RecordSet(ctx context.Context, exerciseID int64, buf workout.SetBuffer) ([]models.Set, error)
	Snapshot() (*models.Workout, bool)
}

// Recommender fetches a training menu. *recommend.Requestor satisfies it.
type Recommender interface {
	Request(ctx context.Context, p models.TrainingProfile) (string, error)
}

// New creates an MCP server with all tools and resources registered. Every
// tool call shares rec, so a session started by one call is the one later
// calls record into.
func New(rec Recorder, recommender Recommender, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("gymlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("gymlog workout recorder. Call start_session with a date first, then add_exercise and add_set. Exercise names are free-form; list_menu_catalog suggests common ones."),
	)

	h := &handlers{rec: rec, recommender: recommender, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolStartSession, Handler: h.startSession},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolAddSet, Handler: h.addSet},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolListMenuCatalog, Handler: h.listMenuCatalog},
		server.ServerTool{Tool: toolRecommendTrainingMenu, Handler: h.recommendTrainingMenu},
	)

	s.AddResources(
		server.ServerResource{Resource: resCurrentSession, Handler: h.currentSession},
		server.ServerResource{Resource: resMenuCatalog, Handler: h.menuCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	// setMu queues concurrent add_set calls instead of refusing them as busy.
	setMu sync.Mutex

	rec         Recorder
	recommender Recommender
	log         *slog.Logger
}

// toolError turns a workflow error into a tool result the model can act on.
func toolError(err error) *mcp.CallToolResult {
	var ve *api.ValidationError
	var ae *workout.ActionError
	switch {
	case errors.Is(err, workout.ErrBusy):
		return mcp.NewToolResultError("another call of this tool is still running; retry shortly")
	case errors.As(err, &ve):
		return mcp.NewToolResultError(ve.Error())
	case api.IsUnauthorized(err):
		return mcp.NewToolResultError("not logged in or session expired; run `gymlog login` and restart the MCP server")
	case errors.As(err, &ae):
		return mcp.NewToolResultError(ae.Message)
	}
	return mcp.NewToolResultError(err.Error())
}

// --- Resource definitions ---

var resCurrentSession = mcp.NewResource(
	"gymlog://current_session",
	"Current Session",
	mcp.WithResourceDescription("The active workout session with its exercises (newest first) and sets"),
	mcp.WithMIMEType("application/json"),
)

var resMenuCatalog = mcp.NewResource(
	"gymlog://menu_catalog",
	"Menu Catalog",
	mcp.WithResourceDescription("Suggested exercise names and the training-profile choices accepted by recommend_training_menu"),
	mcp.WithMIMEType("application/json"),
)
