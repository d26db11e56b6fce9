package payment

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FitnessGH/fitness-gh-backend/internal/account"
	"github.com/FitnessGH/fitness-gh-backend/internal/db"
	"github.com/FitnessGH/fitness-gh-backend/internal/gym"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
	"github.com/FitnessGH/fitness-gh-backend/internal/metrics"
	"github.com/FitnessGH/fitness-gh-backend/internal/subscription"
)

const webhookEventChargeSuccess = "charge.success"

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrMembershipNotOwned = errors.New("membership does not belong to this user")
	ErrDuplicateReference = errors.New("payment reference already exists")
)

// Memberships is the slice of the subscription service the payment flow
// needs: looking a membership up before charging for it, and activating it
// once the charge succeeds.
type Memberships interface {
	GetMembership(ctx context.Context, membershipID int) (*subscription.MembershipWithPlan, error)
	ActivateMembership(ctx context.Context, membershipID int, paymentID *int) (*subscription.Membership, error)
}

// Directory resolves the payer's profile and account for receipt emails.
// Implemented by the account repository.
type Directory interface {
	FindProfileByID(ctx context.Context, profileID int) (*account.Profile, error)
	FindAccountByID(ctx context.Context, accountID int) (*account.Account, error)
}

// Gyms resolves gym names for activation emails. Implemented by the gym
// service.
type Gyms interface {
	GetGymByID(ctx context.Context, id int) (*gym.Gym, error)
}

// Mailer is the slice of the email service the payment flow needs.
type Mailer interface {
	SendPaymentReceipt(ctx context.Context, to, name, reference string, amount float64, currency string) error
	SendMembershipActivated(ctx context.Context, to, name, gymName, planName string, endDate time.Time) error
}

type Service interface {
	Initiate(ctx context.Context, profileID int, req InitiatePaymentRequest) (*InitiateResponse, error)
	Verify(ctx context.Context, reference string) (*Payment, error)
	HandleWebhook(ctx context.Context, event WebhookEvent) error
	ListProfilePayments(ctx context.Context, profileID int) ([]Payment, error)
	ListGymPayments(ctx context.Context, gymID int) ([]Payment, error)
}

type service struct {
	repo            Repository
	memberships     Memberships
	directory       Directory
	gyms            Gyms
	mailer          Mailer
	checkoutBaseURL string
	defaultCurrency string
}

func NewService(repo Repository, memberships Memberships, directory Directory, gyms Gyms, mailer Mailer, checkoutBaseURL, defaultCurrency string) Service {
	return &service{
		repo:            repo,
		memberships:     memberships,
		directory:       directory,
		gyms:            gyms,
		mailer:          mailer,
		checkoutBaseURL: checkoutBaseURL,
		defaultCurrency: defaultCurrency,
	}
}

func (s *service) Initiate(ctx context.Context, profileID int, req InitiatePaymentRequest) (*InitiateResponse, error) {
	if req.MembershipID != nil {
		m, err := s.memberships.GetMembership(ctx, *req.MembershipID)
		if err != nil {
			return nil, err
		}
		if m.ProfileID != profileID {
			return nil, ErrMembershipNotOwned
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	channel := req.Channel
	if channel == "" {
		channel = ChannelMobileMoney
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	p, err := s.repo.CreatePayment(ctx, profileID, req.GymID, req.MembershipID, req.Amount, currency, channel, reference)
	if err != nil {
		if db.IsUniqueViolation(err, "payments_reference_key") {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	return &InitiateResponse{
		Payment:          p,
		Reference:        reference,
		AuthorizationURL: s.checkoutURL(reference, req.Amount),
	}, nil
}

func (s *service) Verify(ctx context.Context, reference string) (*Payment, error) {
	p, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// HandleWebhook processes gateway callbacks. Only charge.success is acted on;
// every other event, and any success for an unknown reference, is dropped
// silently so the gateway never retries. The COMPLETED guard in MarkCompleted
// makes redelivered events no-ops.
func (s *service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	if event.Event != webhookEventChargeSuccess {
		metrics.RecordWebhookEvent(event.Event, "ignored")
		return nil
	}

	p, err := s.repo.GetByReference(ctx, event.Data.Reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Error("webhook for unknown payment reference", "reference", event.Data.Reference)
			metrics.RecordWebhookEvent(event.Event, "unknown_reference")
			return nil
		}
		return err
	}

	completed, err := s.repo.MarkCompleted(ctx, p.ID, time.Now())
	if err != nil {
		return err
	}
	if !completed {
		metrics.RecordWebhookEvent(event.Event, "duplicate")
		return nil
	}

	metrics.RecordWebhookEvent(event.Event, "processed")
	metrics.RecordPaymentCompleted()

	if p.MembershipID != nil {
		if _, err := s.memberships.ActivateMembership(ctx, *p.MembershipID, &p.ID); err != nil {
			// The payment is already completed; activation failures need a
			// human, not a gateway retry.
			logger.Error("failed to activate membership after payment",
				"membership_id", *p.MembershipID, "payment_id", p.ID, "error", err)
		} else {
			metrics.RecordMembershipActivated("webhook")
		}
	}

	s.sendReceipts(ctx, p)
	return nil
}

func (s *service) ListProfilePayments(ctx context.Context, profileID int) ([]Payment, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

func (s *service) ListGymPayments(ctx context.Context, gymID int) ([]Payment, error) {
	return s.repo.ListByGym(ctx, gymID)
}

// sendReceipts is best effort: a lost email never fails the webhook.
func (s *service) sendReceipts(ctx context.Context, p *Payment) {
	profile, err := s.directory.FindProfileByID(ctx, p.ProfileID)
	if err != nil {
		logger.Error("failed to load profile for receipt", "profile_id", p.ProfileID, "error", err)
		return
	}

	acct, err := s.directory.FindAccountByID(ctx, profile.AccountID)
	if err != nil {
		logger.Error("failed to load account for receipt", "account_id", profile.AccountID, "error", err)
		return
	}

	if err := s.mailer.SendPaymentReceipt(ctx, acct.Email, profile.FirstName, p.Reference, p.Amount, p.Currency); err != nil {
		logger.Error("failed to queue payment receipt", "reference", p.Reference, "error", err)
	}

	if p.MembershipID == nil {
		return
	}
	m, err := s.memberships.GetMembership(ctx, *p.MembershipID)
	if err != nil || m.EndDate == nil {
		return
	}
	g, err := s.gyms.GetGymByID(ctx, m.GymID)
	if err != nil {
		return
	}
	if err := s.mailer.SendMembershipActivated(ctx, acct.Email, profile.FirstName, g.Name, m.Plan.Name, *m.EndDate); err != nil {
		logger.Error("failed to queue activation email", "membership_id", m.ID, "error", err)
	}
}

func (s *service) checkoutURL(reference string, amount float64) string {
	return fmt.Sprintf("%s/%s?amount=%s",
		strings.TrimRight(s.checkoutBaseURL, "/"),
		reference,
		strconv.FormatFloat(amount, 'f', -1, 64),
	)
}

// generateReference builds references like REF-9F3A1C2B-1735689600000. The
// random prefix keeps references unguessable; the timestamp keeps them
// roughly sortable.
func generateReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("REF-%s-%d",
		strings.ToUpper(hex.EncodeToString(buf)),
		time.Now().UnixMilli(),
	), nil
}
