package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the local record for an identity issued by the external
// provider. Its id is the token subject.
type Profile struct {
	ID                  uuid.UUID      `db:"id" json:"id"`
	Email               string         `db:"email" json:"email"`
	FullName            string         `db:"full_name" json:"full_name"`
	AvatarURL           *string        `db:"avatar_url" json:"avatar_url,omitempty"`
	Phone               *string        `db:"phone" json:"phone,omitempty"`
	Gender              *string        `db:"gender" json:"gender,omitempty"`
	DateOfBirth         *time.Time     `db:"date_of_birth" json:"date_of_birth,omitempty"`
	HeightCm            *float64       `db:"height_cm" json:"height_cm,omitempty"`
	FitnessLevel        *string        `db:"fitness_level" json:"fitness_level,omitempty"`
	FitnessGoals        pq.StringArray `db:"fitness_goals" json:"fitness_goals"`
	OnboardingCompleted bool           `db:"onboarding_completed" json:"onboarding_completed"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

type UpdateProfileRequest struct {
	FullName    *string  `json:"fullName" binding:"omitempty,min=2,max=255"`
	Phone       *string  `json:"phone" binding:"omitempty,max=50"`
	Gender      *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth *string  `json:"dateOfBirth" binding:"omitempty,isodate"`
	HeightCm    *float64 `json:"heightCm" binding:"omitempty,gt=0,lt=300"`
	AvatarURL   *string  `json:"avatarUrl" binding:"omitempty,url"`
}

type OnboardingRequest struct {
	FitnessLevel string   `json:"fitnessLevel" binding:"required,oneof=beginner intermediate advanced"`
	FitnessGoals []string `json:"fitnessGoals" binding:"required,min=1,dive,min=1,max=100"`
	Gender       *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	HeightCm     *float64 `json:"heightCm" binding:"omitempty,gt=0,lt=300"`
	DateOfBirth  *string  `json:"dateOfBirth" binding:"omitempty,isodate"`
}

// Changes is a partial update keyed by column name.
type Changes map[string]interface{}

type ProfileResponse struct {
	User    *Profile `json:"user"`
	Message string   `json:"message,omitempty"`
}
