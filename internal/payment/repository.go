package payment

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, profile_id, gym_id, membership_id, amount, currency, channel, provider, reference, status, paid_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePayment(ctx context.Context, profileID, gymID int, membershipID *int, amount float64, currency, channel, reference string) (*Payment, error) {
	p := &Payment{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payments (profile_id, gym_id, membership_id, amount, currency, channel, provider, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'PENDING')
		RETURNING `+paymentColumns,
		profileID, gymID, membershipID, amount, currency, channel, Provider, reference,
	).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, paymentID int) (*Payment, error) {
	p := &Payment{}
	err := r.db.GetContext(ctx, p, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
	`, paymentID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	p := &Payment{}
	err := r.db.GetContext(ctx, p, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE reference = $1
	`, reference)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MarkCompleted flips the payment to COMPLETED exactly once. It reports false
// when the payment was already completed, which makes webhook retries no-ops.
func (r *repository) MarkCompleted(ctx context.Context, paymentID int, paidAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'COMPLETED', paid_at = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'COMPLETED'
	`, paymentID, paidAt)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE gym_id = $1
		ORDER BY created_at DESC
	`, gymID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}
