package bodymetric

import (
	"errors"
	"time"

	"fitclub/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

var ErrMetricNotFound = errors.New("body metric not found")

const defaultWeightUnit = "kg"

type Metric struct {
	ID           int64              `db:"id" json:"id"`
	UserID       uuid.UUID          `db:"user_id" json:"user_id"`
	RecordedAt   time.Time          `db:"recorded_at" json:"recorded_at"`
	Weight       *float64           `db:"weight" json:"weight,omitempty"`
	WeightUnit   string             `db:"weight_unit" json:"weight_unit"`
	BodyFat      *float64           `db:"body_fat" json:"body_fat,omitempty"`
	MuscleMass   *float64           `db:"muscle_mass" json:"muscle_mass,omitempty"`
	BMI          *float64           `db:"bmi" json:"bmi,omitempty"`
	Measurements types.NullJSONText `db:"measurements" json:"measurements" swaggertype:"object"`
	Notes        *string            `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// Measurements are body circumferences, stored as a JSON document.
type Measurements struct {
	Chest  *float64 `json:"chest,omitempty" binding:"omitempty,gt=0"`
	Waist  *float64 `json:"waist,omitempty" binding:"omitempty,gt=0"`
	Hips   *float64 `json:"hips,omitempty" binding:"omitempty,gt=0"`
	Arms   *float64 `json:"arms,omitempty" binding:"omitempty,gt=0"`
	Thighs *float64 `json:"thighs,omitempty" binding:"omitempty,gt=0"`
}

// MetricRequest is used for both create and update; an update replaces the
// whole entry.
type MetricRequest struct {
	RecordedAt   string        `json:"recordedAt" binding:"required,isodate"`
	Weight       *float64      `json:"weight" binding:"omitempty,gt=0"`
	WeightUnit   string        `json:"weightUnit" binding:"omitempty,max=10"`
	BodyFat      *float64      `json:"bodyFat" binding:"omitempty,gte=0,lte=100"`
	MuscleMass   *float64      `json:"muscleMass" binding:"omitempty,gt=0"`
	BMI          *float64      `json:"bmi" binding:"omitempty,gt=0"`
	Measurements *Measurements `json:"measurements"`
	Notes        *string       `json:"notes" binding:"omitempty,max=500"`
}

type ListQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// ListFilter is the parsed form of ListQuery; nil bounds are open.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}

type TrendsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type MetricResponse struct {
	Metric *Metric `json:"metric"`
}

type MetricsResponse struct {
	Metrics []Metric `json:"metrics"`
}

type TrendsResponse struct {
	WeightTrend  []stats.Point `json:"weightTrend"`
	BodyFatTrend []stats.Point `json:"bodyFatTrend"`
}
