package gym

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrGymNotFound   = errors.New("gym not found")
	ErrClassNotFound = errors.New("class not found")
)

type Gym struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Slug        string         `db:"slug" json:"slug"`
	Address     string         `db:"address" json:"address"`
	City        string         `db:"city" json:"city"`
	Country     string         `db:"country" json:"country"`
	Phone       *string        `db:"phone" json:"phone,omitempty"`
	Email       *string        `db:"email" json:"email,omitempty"`
	Latitude    *float64       `db:"latitude" json:"latitude"`
	Longitude   *float64       `db:"longitude" json:"longitude"`
	Description *string        `db:"description" json:"description,omitempty"`
	Amenities   pq.StringArray `db:"amenities" json:"amenities"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type GymWithDistance struct {
	Gym
	Distance float64 `json:"distance"`
}

type Class struct {
	ID              int64     `db:"id" json:"id"`
	GymID           int64     `db:"gym_id" json:"gym_id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Category        string    `db:"category" json:"category"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	MaxCapacity     int       `db:"max_capacity" json:"max_capacity"`
	Difficulty      *string   `db:"difficulty" json:"difficulty,omitempty"`
	InstructorName  *string   `db:"instructor_name" json:"instructor_name,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Schedule struct {
	ID             int64     `db:"id" json:"id"`
	GymID          int64     `db:"gym_id" json:"gym_id"`
	ClassID        int64     `db:"class_id" json:"class_id"`
	ScheduledAt    time.Time `db:"scheduled_at" json:"scheduled_at"`
	Capacity       int       `db:"capacity" json:"capacity"`
	SpotsRemaining int       `db:"spots_remaining" json:"spots_remaining"`
	IsCancelled    bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ScheduleWithClass is a schedule joined with the class it runs.
type ScheduleWithClass struct {
	Schedule
	ClassName       string  `db:"class_name" json:"class_name"`
	ClassCategory   string  `db:"class_category" json:"class_category"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	InstructorName  *string `db:"instructor_name" json:"instructor_name,omitempty"`
	IsFull          bool    `db:"-" json:"is_full"`
}

type SearchQuery struct {
	Q    string `form:"q" binding:"required,min=1,max=100"`
	City string `form:"city"`
}

type NearbyQuery struct {
	Lat    *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	Radius float64  `form:"radius" binding:"omitempty,gt=0,lte=500"`
}

type ClassFilter struct {
	GymID    int64  `form:"gymId" binding:"omitempty,gt=0"`
	Category string `form:"category"`
}

type ScheduleFilter struct {
	GymID     int64  `form:"gymId" binding:"omitempty,gt=0"`
	ClassID   int64  `form:"classId" binding:"omitempty,gt=0"`
	Date      string `form:"date" binding:"omitempty,isodate"`
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// ScheduleWindow bounds scheduled_at. From is always set; To is optional.
type ScheduleWindow struct {
	GymID   int64
	ClassID int64
	From    time.Time
	To      *time.Time
}

type CreateScheduleRequest struct {
	ClassID     int64  `json:"classId" binding:"required,gt=0"`
	ScheduledAt string `json:"scheduledAt" binding:"required,isodate"`
	Capacity    int    `json:"capacity" binding:"omitempty,min=1,max=500"`
}

type GymsResponse struct {
	Gyms []Gym `json:"gyms"`
}

type GymResponse struct {
	Gym *Gym `json:"gym"`
}

type SearchResponse struct {
	Gyms  []Gym  `json:"gyms"`
	Query string `json:"query"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearbyResponse struct {
	Gyms     []GymWithDistance `json:"gyms"`
	Center   Center            `json:"center"`
	RadiusKm float64           `json:"radiusKm"`
}

type ClassesResponse struct {
	Classes []Class `json:"classes"`
}

type SchedulesResponse struct {
	Schedules []ScheduleWithClass `json:"schedules"`
}

type ScheduleResponse struct {
	Schedule *Schedule `json:"schedule"`
}
