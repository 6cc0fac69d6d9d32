package goal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrGoalNotFound = errors.New("goal not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Goal struct {
	ID           int64     `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Type         string    `db:"type" json:"type"`
	TargetValue  float64   `db:"target_value" json:"target_value"`
	CurrentValue float64   `db:"current_value" json:"current_value"`
	Unit         string    `db:"unit" json:"unit"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	TargetDate   time.Time `db:"target_date" json:"target_date"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateGoalRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Description  *string  `json:"description"`
	Type         string   `json:"type" binding:"required,oneof=weight_loss muscle_gain strength endurance flexibility body_fat consistency"`
	TargetValue  float64  `json:"targetValue" binding:"required,gt=0"`
	CurrentValue *float64 `json:"currentValue" binding:"omitempty,gte=0"`
	Unit         string   `json:"unit" binding:"required,min=1,max=20"`
	StartDate    string   `json:"startDate" binding:"required,isodate"`
	TargetDate   string   `json:"targetDate" binding:"required,isodate"`
}

// UpdateGoalRequest is a partial update; nil fields are left unchanged.
type UpdateGoalRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string  `json:"description"`
	Type         *string  `json:"type" binding:"omitempty,oneof=weight_loss muscle_gain strength endurance flexibility body_fat consistency"`
	TargetValue  *float64 `json:"targetValue" binding:"omitempty,gt=0"`
	CurrentValue *float64 `json:"currentValue" binding:"omitempty,gte=0"`
	Unit         *string  `json:"unit" binding:"omitempty,min=1,max=20"`
	StartDate    *string  `json:"startDate" binding:"omitempty,isodate"`
	TargetDate   *string  `json:"targetDate" binding:"omitempty,isodate"`
}

type ProgressRequest struct {
	CurrentValue *float64 `json:"currentValue" binding:"required,gte=0"`
}

// Changes is a partial update keyed by column name.
type Changes map[string]interface{}

type GoalResponse struct {
	Goal *Goal `json:"goal"`
}

type GoalsResponse struct {
	Goals []Goal `json:"goals"`
}
