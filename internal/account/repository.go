package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `id, email, password_hash, phone, user_type, email_verified, is_active, created_at, updated_at`

const profileColumns = `id, account_id, username, first_name, last_name, avatar_url, bio, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateAccountWithProfile inserts the account and its profile in one
// transaction so a username collision cannot leave an orphaned account.
func (r *repository) CreateAccountWithProfile(ctx context.Context, req RegisterRequest, passwordHash string, userType UserType) (*Account, *Profile, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	account := &Account{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO accounts (email, password_hash, phone, user_type, email_verified, is_active)
		VALUES ($1, $2, $3, $4, FALSE, TRUE)
		RETURNING `+accountColumns,
		strings.ToLower(strings.TrimSpace(req.Email)), passwordHash, req.Phone, userType,
	).StructScan(account)
	if err != nil {
		return nil, nil, err
	}

	profile := &Profile{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO user_profiles (account_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+profileColumns,
		account.ID, req.Username, req.FirstName, req.LastName,
	).StructScan(profile)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

func (r *repository) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	account := &Account{}
	err := r.db.GetContext(ctx, account, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) FindAccountByID(ctx context.Context, accountID int) (*Account, error) {
	account := &Account{}
	err := r.db.GetContext(ctx, account, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) FindProfileByAccountID(ctx context.Context, accountID int) (*Profile, error) {
	profile := &Profile{}
	err := r.db.GetContext(ctx, profile, `
		SELECT `+profileColumns+`
		FROM user_profiles
		WHERE account_id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) FindProfileByID(ctx context.Context, profileID int) (*Profile, error) {
	profile := &Profile{}
	err := r.db.GetContext(ctx, profile, `
		SELECT `+profileColumns+`
		FROM user_profiles
		WHERE id = $1
	`, profileID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) ProfileIDByEmail(ctx context.Context, email string) (int, error) {
	var profileID int
	err := r.db.GetContext(ctx, &profileID, `
		SELECT up.id
		FROM user_profiles up
		JOIN accounts a ON a.id = up.account_id
		WHERE a.email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return 0, err
	}
	return profileID, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)
	`, strings.ToLower(strings.TrimSpace(email)))
	return exists, err
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM user_profiles WHERE username = $1)
	`, username)
	return exists, err
}

func (r *repository) MarkEmailVerified(ctx context.Context, accountID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email_verified = TRUE, updated_at = NOW()
		WHERE id = $1
	`, accountID)
	return err
}

func (r *repository) UpdateProfile(ctx context.Context, profileID int, req UpdateProfileRequest) (*Profile, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Username != nil {
		add("username", *req.Username)
	}
	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.AvatarURL != nil {
		add("avatar_url", *req.AvatarURL)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE user_profiles SET %s WHERE id = $%d RETURNING `+profileColumns,
		strings.Join(set, ", "), idx)
	args = append(args, profileID)

	profile := &Profile{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) SaveRefreshToken(ctx context.Context, accountID int, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (account_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, accountID, token, expiresAt)
	return err
}

func (r *repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	return err
}
