package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const planColumns = `id, gym_id, name, description, price, currency, duration, duration_unit, features, max_visits, is_active, sort_order, created_at, updated_at`

const membershipColumns = `id, profile_id, gym_id, plan_id, status, start_date, end_date, auto_renew, visits_used, cancelled_at, last_payment_id, created_at, updated_at`

const membershipWithPlanColumns = `
	m.id, m.profile_id, m.gym_id, m.plan_id, m.status, m.start_date, m.end_date,
	m.auto_renew, m.visits_used, m.cancelled_at, m.last_payment_id, m.created_at, m.updated_at,
	p.id AS "plan.id", p.gym_id AS "plan.gym_id", p.name AS "plan.name",
	p.description AS "plan.description", p.price AS "plan.price", p.currency AS "plan.currency",
	p.duration AS "plan.duration", p.duration_unit AS "plan.duration_unit",
	p.features AS "plan.features", p.max_visits AS "plan.max_visits",
	p.is_active AS "plan.is_active", p.sort_order AS "plan.sort_order",
	p.created_at AS "plan.created_at", p.updated_at AS "plan.updated_at"`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePlan(ctx context.Context, gymID int, req CreatePlanRequest) (*Plan, error) {
	currency := req.Currency
	if currency == "" {
		currency = "GHS"
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	plan := &Plan{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscription_plans (gym_id, name, description, price, currency, duration, duration_unit, features, max_visits, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
		RETURNING `+planColumns,
		gymID, req.Name, req.Description, *req.Price, currency,
		req.Duration, req.DurationUnit, pq.Array(req.Features), req.MaxVisits, sortOrder,
	).StructScan(plan)
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *repository) GetPlanByID(ctx context.Context, planID int) (*Plan, error) {
	plan := &Plan{}
	err := r.db.GetContext(ctx, plan, `
		SELECT `+planColumns+`
		FROM subscription_plans
		WHERE id = $1
	`, planID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *repository) GetGymPlans(ctx context.Context, gymID int, activeOnly bool) ([]Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM subscription_plans
		WHERE gym_id = $1
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY sort_order ASC, name ASC"

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, gymID); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) UpdatePlan(ctx context.Context, planID int, req UpdatePlanRequest) (*Plan, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.Currency != nil {
		add("currency", *req.Currency)
	}
	if req.Duration != nil {
		add("duration", *req.Duration)
	}
	if req.DurationUnit != nil {
		add("duration_unit", *req.DurationUnit)
	}
	if req.Features != nil {
		add("features", pq.Array(req.Features))
	}
	if req.MaxVisits != nil {
		add("max_visits", *req.MaxVisits)
	}
	if req.SortOrder != nil {
		add("sort_order", *req.SortOrder)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE subscription_plans SET %s WHERE id = $%d RETURNING `+planColumns,
		strings.Join(set, ", "), idx)
	args = append(args, planID)

	plan := &Plan{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *repository) DeactivatePlan(ctx context.Context, planID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscription_plans
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, planID)
	return err
}

func (r *repository) CreateMembership(ctx context.Context, profileID, gymID, planID int, startDate, endDate time.Time, autoRenew bool) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO memberships (profile_id, gym_id, plan_id, status, start_date, end_date, auto_renew, visits_used)
		VALUES ($1, $2, $3, 'PENDING', $4, $5, $6, 0)
		RETURNING `+membershipColumns,
		profileID, gymID, planID, startDate, endDate, autoRenew,
	).StructScan(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) HasOpenMembership(ctx context.Context, profileID, gymID, planID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1
			FROM memberships
			WHERE profile_id = $1
			  AND gym_id = $2
			  AND plan_id = $3
			  AND status IN ('PENDING', 'ACTIVE')
		)
	`, profileID, gymID, planID)
	return exists, err
}

func (r *repository) GetMembershipByID(ctx context.Context, membershipID int) (*MembershipWithPlan, error) {
	m := &MembershipWithPlan{}
	err := r.db.GetContext(ctx, m, `
		SELECT `+membershipWithPlanColumns+`
		FROM memberships m
		JOIN subscription_plans p ON p.id = m.plan_id
		WHERE m.id = $1
	`, membershipID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) GetGymMemberships(ctx context.Context, gymID int, status *MembershipStatus) ([]MembershipWithPlan, error) {
	query := `
		SELECT ` + membershipWithPlanColumns + `
		FROM memberships m
		JOIN subscription_plans p ON p.id = m.plan_id
		WHERE m.gym_id = $1
	`
	args := []interface{}{gymID}
	if status != nil {
		query += " AND m.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY m.created_at DESC"

	memberships := []MembershipWithPlan{}
	if err := r.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) GetProfileMemberships(ctx context.Context, profileID int) ([]MembershipWithPlan, error) {
	memberships := []MembershipWithPlan{}
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT `+membershipWithPlanColumns+`
		FROM memberships m
		JOIN subscription_plans p ON p.id = m.plan_id
		WHERE m.profile_id = $1
		ORDER BY m.created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) ActivateMembership(ctx context.Context, membershipID int, startDate, endDate time.Time, paymentID *int) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE memberships
		SET status = 'ACTIVE',
		    start_date = $2,
		    end_date = $3,
		    last_payment_id = COALESCE($4, last_payment_id),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+membershipColumns,
		membershipID, startDate, endDate, paymentID,
	).StructScan(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) CancelMembership(ctx context.Context, membershipID int, cancelledAt time.Time) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE memberships
		SET status = 'CANCELLED',
		    cancelled_at = $2,
		    auto_renew = FALSE,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+membershipColumns,
		membershipID, cancelledAt,
	).StructScan(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) UpdateMembership(ctx context.Context, membershipID int, req UpdateMembershipRequest, cancelledAt *time.Time) (*Membership, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.AutoRenew != nil {
		add("auto_renew", *req.AutoRenew)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if cancelledAt != nil {
		add("cancelled_at", *cancelledAt)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE memberships SET %s WHERE id = $%d RETURNING `+membershipColumns,
		strings.Join(set, ", "), idx)
	args = append(args, membershipID)

	m := &Membership{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) IncrementVisits(ctx context.Context, membershipID int) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE memberships
		SET visits_used = visits_used + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING `+membershipColumns,
		membershipID,
	).StructScan(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}
