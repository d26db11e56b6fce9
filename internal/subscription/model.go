package subscription

import (
	"time"

	"github.com/lib/pq"
)

type DurationUnit string
type MembershipStatus string

const (
	UnitDays   DurationUnit = "DAYS"
	UnitWeeks  DurationUnit = "WEEKS"
	UnitMonths DurationUnit = "MONTHS"
	UnitYears  DurationUnit = "YEARS"

	StatusPending   MembershipStatus = "PENDING"
	StatusActive    MembershipStatus = "ACTIVE"
	StatusExpired   MembershipStatus = "EXPIRED"
	StatusCancelled MembershipStatus = "CANCELLED"
	StatusSuspended MembershipStatus = "SUSPENDED"
)

type Plan struct {
	ID           int            `db:"id" json:"id"`
	GymID        int            `db:"gym_id" json:"gym_id"`
	Name         string         `db:"name" json:"name"`
	Description  *string        `db:"description" json:"description,omitempty"`
	Price        float64        `db:"price" json:"price"`
	Currency     string         `db:"currency" json:"currency"`
	Duration     int            `db:"duration" json:"duration"`
	DurationUnit DurationUnit   `db:"duration_unit" json:"duration_unit"`
	Features     pq.StringArray `db:"features" json:"features"`
	MaxVisits    *int           `db:"max_visits" json:"max_visits,omitempty"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	SortOrder    int            `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type Membership struct {
	ID            int              `db:"id" json:"id"`
	ProfileID     int              `db:"profile_id" json:"profile_id"`
	GymID         int              `db:"gym_id" json:"gym_id"`
	PlanID        int              `db:"plan_id" json:"plan_id"`
	Status        MembershipStatus `db:"status" json:"status"`
	StartDate     time.Time        `db:"start_date" json:"start_date"`
	EndDate       *time.Time       `db:"end_date" json:"end_date,omitempty"`
	AutoRenew     bool             `db:"auto_renew" json:"auto_renew"`
	VisitsUsed    int              `db:"visits_used" json:"visits_used"`
	CancelledAt   *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	LastPaymentID *int             `db:"last_payment_id" json:"last_payment_id,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

type MembershipWithPlan struct {
	Membership
	Plan Plan `db:"plan" json:"plan"`
}

type CreatePlanRequest struct {
	Name         string       `json:"name" binding:"required,min=2,max=100"`
	Description  *string      `json:"description" binding:"omitempty,max=500"`
	Price        *float64     `json:"price" binding:"required,gte=0,lte=100000"`
	Currency     string       `json:"currency" binding:"omitempty,len=3"`
	Duration     int          `json:"duration" binding:"required,gte=1,lte=365"`
	DurationUnit DurationUnit `json:"duration_unit" binding:"required,oneof=DAYS WEEKS MONTHS YEARS"`
	Features     []string     `json:"features"`
	MaxVisits    *int         `json:"max_visits" binding:"omitempty,gte=1"`
	SortOrder    *int         `json:"sort_order" binding:"omitempty,gte=0"`
}

type UpdatePlanRequest struct {
	Name         *string       `json:"name" binding:"omitempty,min=2,max=100"`
	Description  *string       `json:"description" binding:"omitempty,max=500"`
	Price        *float64      `json:"price" binding:"omitempty,gte=0,lte=100000"`
	Currency     *string       `json:"currency" binding:"omitempty,len=3"`
	Duration     *int          `json:"duration" binding:"omitempty,gte=1,lte=365"`
	DurationUnit *DurationUnit `json:"duration_unit" binding:"omitempty,oneof=DAYS WEEKS MONTHS YEARS"`
	Features     []string      `json:"features"`
	MaxVisits    *int          `json:"max_visits" binding:"omitempty,gte=1"`
	SortOrder    *int          `json:"sort_order" binding:"omitempty,gte=0"`
	IsActive     *bool         `json:"is_active"`
}

type CreateMembershipRequest struct {
	PlanID    int        `json:"plan_id" binding:"required"`
	StartDate *time.Time `json:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	AutoRenew bool       `json:"auto_renew"`
}

type StaffCreateMembershipRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	PlanID    int        `json:"plan_id" binding:"required"`
	StartDate *time.Time `json:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	AutoRenew bool       `json:"auto_renew"`
}

type UpdateMembershipRequest struct {
	Status    *MembershipStatus `json:"status" binding:"omitempty,oneof=PENDING ACTIVE EXPIRED CANCELLED SUSPENDED"`
	AutoRenew *bool             `json:"auto_renew"`
	EndDate   *time.Time        `json:"end_date"`
}
