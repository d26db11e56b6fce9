package payment

import (
	"context"
	"time"
)

type Repository interface {
	CreatePayment(ctx context.Context, profileID, gymID int, membershipID *int, amount float64, currency, channel, reference string) (*Payment, error)
	GetByID(ctx context.Context, paymentID int) (*Payment, error)
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	MarkCompleted(ctx context.Context, paymentID int, paidAt time.Time) (bool, error)
	ListByProfile(ctx context.Context, profileID int) ([]Payment, error)
	ListByGym(ctx context.Context, gymID int) ([]Payment, error)
}
