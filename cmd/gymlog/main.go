package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymlog/internal/api"
	"github.com/claude/gymlog/internal/auth"
	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/state"
	"github.com/claude/gymlog/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: gymlog [-config file] <command> [flags]

Commands:
  register      create an account
  login         sign in and store the token
  logout        forget the stored token
  start         fetch or create the session for a day
  show          print a day's session if one exists (read-only)
  add-exercise  add an exercise to a day's session
  add-set       record a set for an exercise
  menu          list suggested exercise names and recommendation choices
  recommend     request a training menu
  import        replay training log files
  mcp           serve the workout tools over MCP (stdio)
  version       print the version
`

// app holds what every command needs once config is loaded.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *state.DB
	tokens *auth.Store
	client *api.Client
	loc    *time.Location
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	name, args := flag.Arg(0), flag.Args()[1:]
	if name == "version" {
		fmt.Println("gymlog", Version)
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "gymlog: unknown command %q\n\n", name)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gymlog: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to command output (and to the MCP transport).
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, a, args); err != nil {
		os.Exit(a.report(err))
	}
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := state.Open(cfg.State.Dir)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.Load(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		tokens: tokens,
		client: api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, tokens, log),
		loc:    loc,
	}, nil
}

func (a *app) manager() *workout.Manager {
	return workout.NewManager(a.client, a.loc, a.log)
}

// today is the current calendar day in the configured timezone.
func (a *app) today() string {
	return time.Now().In(a.loc).Format("2006-01-02")
}

// report prints err for the user and returns the exit code. A rejected token
// is dropped so the next command starts from a clean login.
func (a *app) report(err error) int {
	var ve *api.ValidationError
	var ae *workout.ActionError
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(os.Stderr, "gymlog: %v\n", err)
		return 2
	case api.IsUnauthorized(err):
		if cerr := a.tokens.Clear(); cerr != nil {
			a.log.Warn("clearing token", "error", cerr)
		}
		fmt.Fprintln(os.Stderr, "gymlog: not logged in or session expired; run `gymlog login`")
	case errors.As(err, &ve):
		fmt.Fprintf(os.Stderr, "gymlog: %v\n", ve)
	case errors.As(err, &ae):
		fmt.Fprintf(os.Stderr, "gymlog: %s\n", ae.Message)
		a.log.Debug("action failed", "stage", ae.Stage, "error", ae.Err)
	default:
		fmt.Fprintf(os.Stderr, "gymlog: %v\n", err)
	}
	return 1
}

// usageError marks bad command-line input.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
