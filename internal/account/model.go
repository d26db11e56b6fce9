package account

import "time"

type UserType string

const (
	TypeMember   UserType = "MEMBER"
	TypeGymOwner UserType = "GYM_OWNER"
	TypeEmployee UserType = "EMPLOYEE"
)

type Account struct {
	ID            int       `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	UserType      UserType  `db:"user_type" json:"user_type"`
	EmailVerified bool      `db:"email_verified" json:"email_verified"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Profile struct {
	ID        int       `db:"id" json:"id"`
	AccountID int       `db:"account_id" json:"account_id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type RefreshToken struct {
	ID        int        `db:"id" json:"id"`
	AccountID int        `db:"account_id" json:"account_id"`
	Token     string     `db:"token" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8,max=72"`
	Username  string   `json:"username" binding:"required,min=3,max=30"`
	FirstName string   `json:"first_name" binding:"required,min=1,max=50"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=50"`
	Phone     *string  `json:"phone"`
	UserType  UserType `json:"user_type" binding:"omitempty,oneof=MEMBER GYM_OWNER EMPLOYEE"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=30"`
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
}

type AuthResponse struct {
	Account      *Account `json:"account"`
	Profile      *Profile `json:"profile"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

type MeResponse struct {
	Account *Account `json:"account"`
	Profile *Profile `json:"profile"`
}
