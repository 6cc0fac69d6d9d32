package membership

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PlanType string
type Status string

const (
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
	PlanVIP     PlanType = "vip"

	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

var ErrNoActiveMembership = errors.New("no active membership")

type Membership struct {
	ID                 int64     `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	GymID              int64     `db:"gym_id" json:"gym_id"`
	PlanType           PlanType  `db:"plan_type" json:"plan_type"`
	Status             Status    `db:"status" json:"status"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	MonthlyFee         float64   `db:"monthly_fee" json:"monthly_fee"`
	QRCode             string    `db:"qr_code" json:"qr_code"`
	AccessAllLocations bool      `db:"access_all_locations" json:"access_all_locations"`
	AutoRenew          bool      `db:"auto_renew" json:"auto_renew"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// CoversGym reports whether the membership grants entry to gymID.
func (m *Membership) CoversGym(gymID int64) bool {
	return m.AccessAllLocations || m.GymID == gymID
}

type MembershipWithGym struct {
	Membership
	GymName string `db:"gym_name" json:"gym_name"`
	GymCity string `db:"gym_city" json:"gym_city"`
}

type UpgradeRequest struct {
	NewPlanType PlanType `json:"newPlanType" binding:"required,oneof=basic premium vip" example:"premium"`
}

type UpgradeResult struct {
	Membership *MembershipWithGym `json:"membership"`
	Proration  Proration          `json:"proration"`
}

type MembershipsResponse struct {
	Memberships []MembershipWithGym `json:"memberships"`
}

type MembershipResponse struct {
	Membership *MembershipWithGym `json:"membership"`
}

type PlansResponse struct {
	Plans []Plan `json:"plans"`
}
