package workout

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

const quickWorkoutName = "Quick Workout"

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrUnknownExercise = errors.New("exercise does not exist")
)

type Exercise struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Description  *string        `db:"description" json:"description,omitempty"`
	ExerciseType string         `db:"exercise_type" json:"exercise_type"`
	MuscleGroups pq.StringArray `db:"muscle_groups" json:"muscle_groups"`
	Equipment    pq.StringArray `db:"equipment" json:"equipment"`
	Difficulty   *string        `db:"difficulty" json:"difficulty,omitempty"`
	Instructions pq.StringArray `db:"instructions" json:"instructions"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

type ExerciseFilter struct {
	Q            string `form:"q" binding:"omitempty,max=100"`
	MuscleGroup  string `form:"muscleGroup"`
	ExerciseType string `form:"exerciseType"`
	Difficulty   string `form:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// Workout is a reusable plan. Exercises are stored as a JSON array of
// WorkoutExercise.
type Workout struct {
	ID                int64          `db:"id" json:"id"`
	UserID            uuid.UUID      `db:"user_id" json:"user_id"`
	Name              string         `db:"name" json:"name"`
	Description       *string        `db:"description" json:"description,omitempty"`
	Category          *string        `db:"category" json:"category,omitempty"`
	EstimatedDuration int            `db:"estimated_duration" json:"estimated_duration"`
	Difficulty        string         `db:"difficulty" json:"difficulty"`
	TargetMuscles     pq.StringArray `db:"target_muscles" json:"target_muscles"`
	Exercises         types.JSONText `db:"exercises" json:"exercises" swaggertype:"array,object"`
	IsTemplate        bool           `db:"is_template" json:"is_template"`
	IsPublic          bool           `db:"is_public" json:"is_public"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

type WorkoutExercise struct {
	ExerciseID  int64    `json:"exerciseId" binding:"required,gt=0"`
	OrderIndex  int      `json:"orderIndex" binding:"min=0"`
	Sets        int      `json:"sets" binding:"required,gt=0"`
	Reps        *int     `json:"reps,omitempty" binding:"omitempty,gt=0"`
	Duration    *float64 `json:"duration,omitempty" binding:"omitempty,gt=0"`
	Weight      *float64 `json:"weight,omitempty" binding:"omitempty,gt=0"`
	RestSeconds *int     `json:"restSeconds,omitempty" binding:"omitempty,gt=0"`
	Notes       string   `json:"notes,omitempty"`
}

type CreateWorkoutRequest struct {
	Name              string            `json:"name" binding:"required,min=1,max=255"`
	Description       string            `json:"description"`
	Category          string            `json:"category"`
	EstimatedDuration int               `json:"estimatedDuration" binding:"required,gt=0"`
	Difficulty        string            `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	TargetMuscles     []string          `json:"targetMuscles"`
	IsTemplate        bool              `json:"isTemplate"`
	IsPublic          bool              `json:"isPublic"`
	Exercises         []WorkoutExercise `json:"exercises" binding:"omitempty,dive"`
}

type Session struct {
	ID              int64         `db:"id" json:"id"`
	UserID          uuid.UUID     `db:"user_id" json:"user_id"`
	WorkoutID       *int64        `db:"workout_id" json:"workout_id"`
	Name            string        `db:"name" json:"name"`
	Notes           *string       `db:"notes" json:"notes,omitempty"`
	StartedAt       time.Time     `db:"started_at" json:"started_at"`
	CompletedAt     *time.Time    `db:"completed_at" json:"completed_at"`
	Status          SessionStatus `db:"status" json:"status"`
	DurationMinutes *int          `db:"duration_minutes" json:"duration_minutes"`
	TotalSets       int           `db:"total_sets" json:"total_sets"`
	TotalReps       int           `db:"total_reps" json:"total_reps"`
	TotalVolume     float64       `db:"total_volume" json:"total_volume"`
}

type Log struct {
	ID              int64     `db:"id" json:"id"`
	SessionID       int64     `db:"session_id" json:"session_id"`
	ExerciseID      int64     `db:"exercise_id" json:"exercise_id"`
	SetNumber       int       `db:"set_number" json:"set_number"`
	Reps            *int      `db:"reps" json:"reps"`
	Weight          *float64  `db:"weight" json:"weight"`
	DurationSeconds *float64  `db:"duration_seconds" json:"duration_seconds"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CompletedAt     time.Time `db:"completed_at" json:"completed_at"`
}

type SessionWithLogs struct {
	Session
	Logs []Log `json:"logs"`
}

type StartSessionRequest struct {
	WorkoutID *int64 `json:"workoutId" binding:"omitempty,gt=0"`
	Notes     string `json:"notes" binding:"max=1000"`
}

type LogSetRequest struct {
	ExerciseID int64    `json:"exerciseId" binding:"required,gt=0"`
	SetNumber  int      `json:"setNumber" binding:"required,gt=0"`
	Reps       *int     `json:"reps" binding:"omitempty,gt=0"`
	Weight     *float64 `json:"weight" binding:"omitempty,gt=0"`
	Duration   *float64 `json:"duration" binding:"omitempty,gt=0"`
	Notes      string   `json:"notes" binding:"max=500"`
}

type HistoryQuery struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// HistoryFilter is HistoryQuery resolved to concrete bounds on completed_at.
type HistoryFilter struct {
	Limit  int
	Offset int
	From   *time.Time
	To     *time.Time
}

type ExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
}

type WorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
}

type WorkoutResponse struct {
	Workout *Workout `json:"workout"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
	Message string   `json:"message,omitempty"`
}

type ActiveSessionResponse struct {
	Session *SessionWithLogs `json:"session"`
}

type LogResponse struct {
	Log *Log `json:"log"`
}

type HistoryResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}
