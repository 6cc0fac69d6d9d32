package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/events"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error)
	// Active returns nil without error when the user has no active membership.
	Active(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error)
	Upgrade(ctx context.Context, userID uuid.UUID, newPlan PlanType) (*UpgradeResult, error)
	QRCode(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{repo: repo, publisher: publisher, now: time.Now}
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error) {
	memberships, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Database("Failed to fetch memberships", err)
	}
	return memberships, nil
}

func (s *service) Active(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error) {
	m, err := s.repo.GetActive(ctx, userID)
	if errors.Is(err, ErrNoActiveMembership) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch active membership", err)
	}
	return m, nil
}

func (s *service) requireActive(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error) {
	m, err := s.repo.GetActive(ctx, userID)
	if errors.Is(err, ErrNoActiveMembership) {
		return nil, apperr.Validation("No active membership found")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch active membership", err)
	}
	return m, nil
}

func (s *service) Upgrade(ctx context.Context, userID uuid.UUID, newPlan PlanType) (*UpgradeResult, error) {
	m, err := s.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m.PlanType == newPlan {
		return nil, apperr.Validation("You are already on this plan")
	}

	now := s.now()
	newPrice := PlanPrice(newPlan)
	proration := ComputeProration(PlanPrice(m.PlanType), newPrice, DaysRemaining(m.EndDate, now), DefaultCycleDays)
	proration.NextBillingDate = m.EndDate

	if err := s.repo.UpdatePlan(ctx, m.ID, newPlan, newPrice, now); err != nil {
		return nil, apperr.Database("Failed to upgrade membership", err)
	}

	previous := m.PlanType
	m.PlanType = newPlan
	m.MonthlyFee = newPrice
	m.UpdatedAt = now

	metrics.RecordMembershipUpgrade(string(previous), string(newPlan))
	logger.Info("membership upgraded",
		"user_id", userID,
		"membership_id", m.ID,
		"from", previous,
		"to", newPlan,
		"net_amount", proration.NetAmount,
		"next_billing_date", m.EndDate,
	)

	payload := map[string]interface{}{
		"membership_id": m.ID,
		"user_id":       userID,
		"from":          previous,
		"to":            newPlan,
		"proration":     proration,
	}
	if err := s.publisher.Publish(ctx, events.MembershipChanged, payload); err != nil {
		logger.WithError(err).Warn("failed to publish membership event", "membership_id", m.ID)
	}

	return &UpgradeResult{Membership: m, Proration: proration}, nil
}

// QRCode renders the active membership's entry badge as a PNG.
func (s *service) QRCode(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	m, err := s.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	content := m.QRCode
	if content == "" {
		content = fmt.Sprintf("fitclub:membership:%d:%s", m.ID, m.UserID)
	}

	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, apperr.Internal("Failed to generate QR code", err)
	}
	return png, nil
}
