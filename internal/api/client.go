// Package api is the HTTP client for the workout backend.
//
// Every call goes to one configured origin. Calls outside /auth/ carry
// "Authorization: Bearer <token>" when the token source holds a token.
// Failures come back as *ValidationError (rejected locally, nothing sent),
// *BackendError (non-2xx; 401 also matches ErrUnauthorized) or
// *TransportError (no response). The client never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

// TokenSource yields the current bearer token. *auth.Store satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// Client calls the workout backend's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	validator  *requestValidator
	log        *slog.Logger
}

// NewClient creates a Client targeting baseURL. tokens may be nil, in which
// case every call is anonymous.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		validator:  newRequestValidator(),
		log:        log,
	}
}

// ListParams filters GET /workouts. Zero values are omitted from the query.
type ListParams struct {
	Date time.Time
	ID   int64
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored; storing it is the caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.validator.check(req); err != nil {
		return "", err
	}

	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("api: login response carried no token")
	}
	return resp.Token, nil
}

// Register creates an account and returns the backend's acknowledgement.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if err := c.validator.check(req); err != nil {
		return "", err
	}

	var resp models.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListSessions returns the caller's sessions matching p. The list carries no
// exercises; use GetSession for detail.
func (c *Client) ListSessions(ctx context.Context, p ListParams) ([]models.WorkoutSession, error) {
	q := url.Values{}
	if !p.Date.IsZero() {
		q.Set("date", models.WireDate(p.Date))
	}
	if p.ID > 0 {
		q.Set("id", strconv.FormatInt(p.ID, 10))
	}

	var resp models.ListWorkoutsResponse
	if err := c.do(ctx, http.MethodGet, "/workouts", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workouts, nil
}

// GetSession returns one session with its exercises and sets.
func (c *Client) GetSession(ctx context.Context, id int64) (*models.Workout, error) {
	var resp models.WorkoutResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/workouts/%d", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Workout, nil
}

// CreateSession creates a session for date. userIDHint is sent but the
// backend substitutes the identity behind the token.
func (c *Client) CreateSession(ctx context.Context, date time.Time, userIDHint int64) (*models.Workout, error) {
	req := models.CreateWorkoutRequest{Date: models.WireDate(date), UserID: userIDHint}

	var resp models.WorkoutResponse
	if err := c.do(ctx, http.MethodPost, "/workouts", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Workout, nil
}

// CreateExercise appends an exercise to a session.
func (c *Client) CreateExercise(ctx context.Context, sessionID int64, name string) (*models.Exercise, error) {
	req := models.CreateExerciseRequest{ExerciseName: name}
	if err := c.validator.check(req); err != nil {
		return nil, err
	}

	var resp models.ExerciseResponse
	path := fmt.Sprintf("/workouts/%d/exercises", sessionID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Exercise, nil
}

// CreateSet appends a set and returns the exercise's complete set collection.
func (c *Client) CreateSet(ctx context.Context, sessionID, exerciseID int64, in models.CreateSetRequest) ([]models.Set, error) {
	var resp models.SetsResponse
	path := fmt.Sprintf("/workouts/%d/exercises/%d/sets", sessionID, exerciseID)
	if err := c.do(ctx, http.MethodPost, path, nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Sets, nil
}

// Recommend asks for a training menu matching the profile.
func (c *Client) Recommend(ctx context.Context, p models.TrainingProfile) (string, error) {
	var resp models.RecommendationResponse
	if err := c.do(ctx, http.MethodPost, "/recommendations", nil, p, &resp); err != nil {
		return "", err
	}
	return resp.Recommendation, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil && !strings.HasPrefix(path, "/auth/") {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	op := method + " " + path
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api call failed", "op", op, "request_id", requestID, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("api call",
		"op", op,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newBackendError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}
