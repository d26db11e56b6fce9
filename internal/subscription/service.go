package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FitnessGH/fitness-gh-backend/internal/db"
)

var (
	ErrPlanNotFound        = errors.New("subscription plan not found")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrDuplicateMembership = errors.New("user already has an active membership for this plan")
	ErrMembershipNotActive = errors.New("membership is not active")
	ErrMembershipExpired   = errors.New("membership has expired")
	ErrVisitLimitReached   = errors.New("maximum visits reached for this membership")
	ErrProfileNotFound     = errors.New("no user found with this email")
)

// ProfileDirectory resolves account emails to profile ids. Implemented by the
// account repository.
type ProfileDirectory interface {
	ProfileIDByEmail(ctx context.Context, email string) (int, error)
}

type Service interface {
	CreatePlan(ctx context.Context, gymID int, req CreatePlanRequest) (*Plan, error)
	GetGymPlans(ctx context.Context, gymID int, activeOnly bool) ([]Plan, error)
	GetPlan(ctx context.Context, planID int) (*Plan, error)
	UpdatePlan(ctx context.Context, planID int, req UpdatePlanRequest) (*Plan, error)
	DeletePlan(ctx context.Context, planID int) error

	CreateMembership(ctx context.Context, profileID, gymID, planID int, startDate *time.Time, autoRenew bool) (*MembershipWithPlan, error)
	CreateMembershipByEmail(ctx context.Context, gymID int, email string, planID int, startDate *time.Time, autoRenew bool) (*MembershipWithPlan, error)
	GetMembership(ctx context.Context, membershipID int) (*MembershipWithPlan, error)
	GetGymMemberships(ctx context.Context, gymID int, status *MembershipStatus) ([]MembershipWithPlan, error)
	GetProfileMemberships(ctx context.Context, profileID int) ([]MembershipWithPlan, error)
	UpdateMembership(ctx context.Context, membershipID int, req UpdateMembershipRequest) (*Membership, error)
	ActivateMembership(ctx context.Context, membershipID int, paymentID *int) (*Membership, error)
	CancelMembership(ctx context.Context, membershipID int) (*Membership, error)
	RecordVisit(ctx context.Context, membershipID int) (*Membership, error)
}

type service struct {
	repo     Repository
	profiles ProfileDirectory
}

func NewService(repo Repository, profiles ProfileDirectory) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
	}
}

func (s *service) CreatePlan(ctx context.Context, gymID int, req CreatePlanRequest) (*Plan, error) {
	return s.repo.CreatePlan(ctx, gymID, req)
}

func (s *service) GetGymPlans(ctx context.Context, gymID int, activeOnly bool) ([]Plan, error) {
	return s.repo.GetGymPlans(ctx, gymID, activeOnly)
}

func (s *service) GetPlan(ctx context.Context, planID int) (*Plan, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *service) UpdatePlan(ctx context.Context, planID int, req UpdatePlanRequest) (*Plan, error) {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.repo.UpdatePlan(ctx, planID, req)
}

func (s *service) DeletePlan(ctx context.Context, planID int) error {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return err
	}
	return s.repo.DeactivatePlan(ctx, planID)
}

func (s *service) CreateMembership(ctx context.Context, profileID, gymID, planID int, startDate *time.Time, autoRenew bool) (*MembershipWithPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	open, err := s.repo.HasOpenMembership(ctx, profileID, gymID, planID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicateMembership
	}

	start := time.Now()
	if startDate != nil {
		start = *startDate
	}
	end := AddDuration(start, plan.Duration, plan.DurationUnit)

	// Memberships start PENDING even though the dates are already computed;
	// activation is a separate step driven by payment or staff.
	m, err := s.repo.CreateMembership(ctx, profileID, gymID, planID, start, end, autoRenew)
	if err != nil {
		// The partial unique index backs up the pre-check above, so two
		// concurrent requests cannot both slip through.
		if db.IsUniqueViolation(err, "uq_memberships_open") {
			return nil, ErrDuplicateMembership
		}
		return nil, err
	}

	return &MembershipWithPlan{Membership: *m, Plan: *plan}, nil
}

func (s *service) CreateMembershipByEmail(ctx context.Context, gymID int, email string, planID int, startDate *time.Time, autoRenew bool) (*MembershipWithPlan, error) {
	profileID, err := s.profiles.ProfileIDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return s.CreateMembership(ctx, profileID, gymID, planID, startDate, autoRenew)
}

func (s *service) GetMembership(ctx context.Context, membershipID int) (*MembershipWithPlan, error) {
	m, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *service) GetGymMemberships(ctx context.Context, gymID int, status *MembershipStatus) ([]MembershipWithPlan, error) {
	return s.repo.GetGymMemberships(ctx, gymID, status)
}

func (s *service) GetProfileMemberships(ctx context.Context, profileID int) ([]MembershipWithPlan, error) {
	return s.repo.GetProfileMemberships(ctx, profileID)
}

func (s *service) UpdateMembership(ctx context.Context, membershipID int, req UpdateMembershipRequest) (*Membership, error) {
	if _, err := s.GetMembership(ctx, membershipID); err != nil {
		return nil, err
	}

	var cancelledAt *time.Time
	if req.Status != nil && *req.Status == StatusCancelled {
		now := time.Now()
		cancelledAt = &now
	}

	return s.repo.UpdateMembership(ctx, membershipID, req, cancelledAt)
}

// ActivateMembership resets the start date to now and recomputes the end date
// from the plan. There is no guard on the current status: staff can reactivate
// an expired or cancelled membership, which restarts the full plan period.
func (s *service) ActivateMembership(ctx context.Context, membershipID int, paymentID *int) (*Membership, error) {
	m, err := s.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	end := AddDuration(start, m.Plan.Duration, m.Plan.DurationUnit)

	return s.repo.ActivateMembership(ctx, membershipID, start, end, paymentID)
}

// CancelMembership is idempotent: cancelling an already cancelled membership
// stamps a fresh cancelledAt and succeeds.
func (s *service) CancelMembership(ctx context.Context, membershipID int) (*Membership, error) {
	if _, err := s.GetMembership(ctx, membershipID); err != nil {
		return nil, err
	}
	return s.repo.CancelMembership(ctx, membershipID, time.Now())
}

func (s *service) RecordVisit(ctx context.Context, membershipID int) (*Membership, error) {
	m, err := s.GetMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if m.Status != StatusActive {
		return nil, ErrMembershipNotActive
	}

	// Expiry is only checked lazily here; nothing sweeps memberships to
	// EXPIRED in the background.
	if m.EndDate != nil && m.EndDate.Before(time.Now()) {
		return nil, ErrMembershipExpired
	}

	if m.Plan.MaxVisits != nil && m.VisitsUsed >= *m.Plan.MaxVisits {
		return nil, ErrVisitLimitReached
	}

	return s.repo.IncrementVisits(ctx, membershipID)
}
