package account

import (
	"context"
	"time"
)

type Repository interface {
	CreateAccountWithProfile(ctx context.Context, req RegisterRequest, passwordHash string, userType UserType) (*Account, *Profile, error)
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	FindAccountByID(ctx context.Context, accountID int) (*Account, error)
	FindProfileByAccountID(ctx context.Context, accountID int) (*Profile, error)
	FindProfileByID(ctx context.Context, profileID int) (*Profile, error)
	ProfileIDByEmail(ctx context.Context, email string) (int, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	MarkEmailVerified(ctx context.Context, accountID int) error
	UpdateProfile(ctx context.Context, profileID int, req UpdateProfileRequest) (*Profile, error)

	SaveRefreshToken(ctx context.Context, accountID int, token string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, token string) error
}
