package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Service interface {
	// GetOrCreate returns the caller's profile, creating it on first access.
	GetOrCreate(ctx context.Context, id uuid.UUID, email string) (*Profile, bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, email string, req UpdateProfileRequest) (*Profile, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID, email string, req OnboardingRequest) (*Profile, error)
	Contact(ctx context.Context, id uuid.UUID) (email, name string, err error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) GetOrCreate(ctx context.Context, id uuid.UUID, email string) (*Profile, bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, apperr.Database("Failed to fetch user profile", err)
	}

	p = &Profile{
		ID:        id,
		Email:     email,
		FullName:  defaultName(email),
		CreatedAt: s.now(),
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, false, apperr.Database("Failed to create user profile", err)
	}
	if !created {
		// Another request created it first.
		p, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, false, apperr.Database("Failed to fetch user profile", err)
		}
		return p, false, nil
	}

	logger.Info("profile created", "user_id", id)
	return p, true, nil
}

func defaultName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, email string, req UpdateProfileRequest) (*Profile, error) {
	current, _, err := s.GetOrCreate(ctx, id, email)
	if err != nil {
		return nil, err
	}

	changes := Changes{}
	if req.FullName != nil {
		changes["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		changes["phone"] = *req.Phone
	}
	if req.Gender != nil {
		changes["gender"] = *req.Gender
	}
	if req.HeightCm != nil {
		changes["height_cm"] = *req.HeightCm
	}
	if req.AvatarURL != nil {
		changes["avatar_url"] = *req.AvatarURL
	}
	if req.DateOfBirth != nil {
		dob, err := birthDate(*req.DateOfBirth, s.now())
		if err != nil {
			return nil, err
		}
		changes["date_of_birth"] = dob
	}
	if len(changes) == 0 {
		return current, nil
	}

	return s.update(ctx, id, changes, "Failed to update profile")
}

func (s *service) CompleteOnboarding(ctx context.Context, id uuid.UUID, email string, req OnboardingRequest) (*Profile, error) {
	if _, _, err := s.GetOrCreate(ctx, id, email); err != nil {
		return nil, err
	}

	changes := Changes{
		"fitness_level":        req.FitnessLevel,
		"fitness_goals":        pq.StringArray(req.FitnessGoals),
		"onboarding_completed": true,
	}
	if req.Gender != nil {
		changes["gender"] = *req.Gender
	}
	if req.HeightCm != nil {
		changes["height_cm"] = *req.HeightCm
	}
	if req.DateOfBirth != nil {
		dob, err := birthDate(*req.DateOfBirth, s.now())
		if err != nil {
			return nil, err
		}
		changes["date_of_birth"] = dob
	}

	p, err := s.update(ctx, id, changes, "Failed to complete onboarding")
	if err != nil {
		return nil, err
	}
	logger.Info("onboarding completed", "user_id", id, "fitness_level", req.FitnessLevel)
	return p, nil
}

func (s *service) update(ctx context.Context, id uuid.UUID, changes Changes, message string) (*Profile, error) {
	p, err := s.repo.Update(ctx, id, changes, s.now())
	if errors.Is(err, ErrProfileNotFound) {
		return nil, apperr.NotFound("Profile")
	}
	if err != nil {
		return nil, apperr.Database(message, err)
	}
	return p, nil
}

func birthDate(value string, now time.Time) (time.Time, error) {
	dob, err := api.ParseDate(value)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date of birth")
	}
	if dob.After(now) {
		return time.Time{}, apperr.Validation("Date of birth cannot be in the future")
	}
	return dob, nil
}

// Contact satisfies booking.Contacts.
func (s *service) Contact(ctx context.Context, id uuid.UUID) (string, string, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return p.Email, p.FullName, nil
}
