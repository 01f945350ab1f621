package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token issued at login.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterResponse is the acknowledgement returned by POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
}

// ListWorkoutsResponse is the body of GET /workouts.
type ListWorkoutsResponse struct {
	Workouts []WorkoutSession `json:"workouts"`
}

// WorkoutResponse wraps a single session for GET /workouts/{id} and POST /workouts.
type WorkoutResponse struct {
	Workout Workout `json:"workout"`
}

// CreateWorkoutRequest is the body of POST /workouts. UserID is a hint only;
// the backend uses the identity behind the bearer token.
type CreateWorkoutRequest struct {
	Date   string `json:"date" validate:"required"`
	UserID int64  `json:"user_id"`
}

// CreateExerciseRequest is the body of POST /workouts/{id}/exercises.
type CreateExerciseRequest struct {
	ExerciseName string `json:"exercise_name" validate:"required"`
}

// ExerciseResponse wraps the exercise created by POST /workouts/{id}/exercises.
type ExerciseResponse struct {
	Exercise Exercise `json:"exercise"`
}

// CreateSetRequest is the body of POST /workouts/{id}/exercises/{exerciseID}/sets.
// No bounds are checked here; the backend decides what it stores.
type CreateSetRequest struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

// SetsResponse is the complete, updated set collection of one exercise.
type SetsResponse struct {
	Sets []Set `json:"sets"`
}

// TrainingProfile is the body of POST /recommendations.
type TrainingProfile struct {
	TrainingGoal    string   `json:"training_goal"`
	TargetParts     []string `json:"target_parts"`
	ExperienceLevel string   `json:"experience_level"`
	AvailableTime   int      `json:"available_time"`
}

// RecommendationResponse carries the free-text training menu.
type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}
