package payment

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

const (
	ChannelMobileMoney = "mobile_money"
	ChannelCard        = "card"

	// Provider recorded on every payment. There is no real gateway; the
	// checkout URL points at a simulator and the webhook plays the gateway.
	Provider = "SIMULATOR"
)

type Payment struct {
	ID           int        `db:"id" json:"id"`
	ProfileID    int        `db:"profile_id" json:"profile_id"`
	GymID        int        `db:"gym_id" json:"gym_id"`
	MembershipID *int       `db:"membership_id" json:"membership_id,omitempty"`
	Amount       float64    `db:"amount" json:"amount"`
	Currency     string     `db:"currency" json:"currency"`
	Channel      string     `db:"channel" json:"channel"`
	Provider     string     `db:"provider" json:"provider"`
	Reference    string     `db:"reference" json:"reference"`
	Status       Status     `db:"status" json:"status"`
	PaidAt       *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type InitiatePaymentRequest struct {
	GymID        int     `json:"gym_id" binding:"required"`
	MembershipID *int    `json:"membership_id"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency" binding:"omitempty,len=3"`
	Channel      string  `json:"channel" binding:"omitempty,oneof=mobile_money card"`
}

// InitiateResponse mirrors what a hosted-checkout gateway would return.
type InitiateResponse struct {
	Payment          *Payment `json:"payment"`
	AuthorizationURL string   `json:"authorization_url"`
	Reference        string   `json:"reference"`
}

type WebhookEvent struct {
	Event string      `json:"event" binding:"required"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
