package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/db"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
)

var (
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrUsernameTaken      = errors.New("this username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// OTPStore issues and consumes email verification codes.
type OTPStore interface {
	Create(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

// Mailer is the slice of the email service the account flow needs.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (string, *MeResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	GetMe(ctx context.Context, accountID int) (*MeResponse, error)
	UpdateProfile(ctx context.Context, profileID int, req UpdateProfileRequest) (*Profile, error)
}

type service struct {
	repo          Repository
	otp           OTPStore
	mailer        Mailer
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, otp OTPStore, mailer Mailer, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		otp:           otp,
		mailer:        mailer,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	taken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = TypeMember
	}

	account, profile, err := s.repo.CreateAccountWithProfile(ctx, req, passwordHash, userType)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, "accounts_email_key"):
			return nil, ErrEmailExists
		case db.IsUniqueViolation(err, "user_profiles_username_key"):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	// Verification is best effort; the account works while unverified.
	if code, err := s.otp.Create(ctx, account.Email); err != nil {
		logger.Error("failed to create verification code", "email", account.Email, "error", err)
	} else if err := s.mailer.SendVerificationCode(ctx, account.Email, profile.FirstName, code); err != nil {
		logger.Error("failed to queue verification email", "email", account.Email, "error", err)
	}

	return s.issueTokens(ctx, account, profile)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	account, err := s.repo.FindAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	profile, err := s.repo.FindProfileByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, account, profile)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *MeResponse, error) {
	accessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return "", nil, err
	}

	me, err := s.GetMe(ctx, claims.AccountID)
	if err != nil {
		return "", nil, err
	}

	return accessToken, me, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *service) RequestVerification(ctx context.Context, email string) error {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}

	profile, err := s.repo.FindProfileByAccountID(ctx, account.ID)
	if err != nil {
		return err
	}

	code, err := s.otp.Create(ctx, account.Email)
	if err != nil {
		return err
	}

	return s.mailer.SendVerificationCode(ctx, account.Email, profile.FirstName, code)
}

func (s *service) VerifyEmail(ctx context.Context, email, code string) error {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := s.otp.Verify(ctx, account.Email, code); err != nil {
		return err
	}

	return s.repo.MarkEmailVerified(ctx, account.ID)
}

func (s *service) GetMe(ctx context.Context, accountID int) (*MeResponse, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	profile, err := s.repo.FindProfileByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &MeResponse{Account: account, Profile: profile}, nil
}

func (s *service) UpdateProfile(ctx context.Context, profileID int, req UpdateProfileRequest) (*Profile, error) {
	if req.Username != nil {
		taken, err := s.repo.UsernameExists(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	profile, err := s.repo.UpdateProfile(ctx, profileID, req)
	if err != nil {
		if db.IsUniqueViolation(err, "user_profiles_username_key") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return profile, nil
}

func (s *service) issueTokens(ctx context.Context, account *Account, profile *Profile) (*AuthResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokens(
		account.ID,
		profile.ID,
		account.Email,
		string(account.UserType),
		s.accessSecret,
		s.refreshSecret,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, account.ID, refreshToken, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:      account,
		Profile:      profile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
