package subscription

import (
	"context"
	"time"
)

type Repository interface {
	CreatePlan(ctx context.Context, gymID int, req CreatePlanRequest) (*Plan, error)
	GetPlanByID(ctx context.Context, planID int) (*Plan, error)
	GetGymPlans(ctx context.Context, gymID int, activeOnly bool) ([]Plan, error)
	UpdatePlan(ctx context.Context, planID int, req UpdatePlanRequest) (*Plan, error)
	DeactivatePlan(ctx context.Context, planID int) error

	CreateMembership(ctx context.Context, profileID, gymID, planID int, startDate, endDate time.Time, autoRenew bool) (*Membership, error)
	HasOpenMembership(ctx context.Context, profileID, gymID, planID int) (bool, error)
	GetMembershipByID(ctx context.Context, membershipID int) (*MembershipWithPlan, error)
	GetGymMemberships(ctx context.Context, gymID int, status *MembershipStatus) ([]MembershipWithPlan, error)
	GetProfileMemberships(ctx context.Context, profileID int) ([]MembershipWithPlan, error)
	ActivateMembership(ctx context.Context, membershipID int, startDate, endDate time.Time, paymentID *int) (*Membership, error)
	CancelMembership(ctx context.Context, membershipID int, cancelledAt time.Time) (*Membership, error)
	UpdateMembership(ctx context.Context, membershipID int, req UpdateMembershipRequest, cancelledAt *time.Time) (*Membership, error)
	IncrementVisits(ctx context.Context, membershipID int) (*Membership, error)
}
