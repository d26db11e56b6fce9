package payment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FitnessGH/fitness-gh-backend/internal/account"
	"github.com/FitnessGH/fitness-gh-backend/internal/gym"
	"github.com/FitnessGH/fitness-gh-backend/internal/subscription"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) CreatePayment(ctx context.Context, profileID, gymID int, membershipID *int, amount float64, currency, channel, reference string) (*Payment, error) {
	args := m.Called(ctx, profileID, gymID, membershipID, amount, currency, channel, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, paymentID int) (*Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) MarkCompleted(ctx context.Context, paymentID int, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, paymentID, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListByProfile(ctx context.Context, profileID int) ([]Payment, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockRepository) ListByGym(ctx context.Context, gymID int) ([]Payment, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

type MockMemberships struct{ mock.Mock }

func (m *MockMemberships) GetMembership(ctx context.Context, membershipID int) (*subscription.MembershipWithPlan, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.MembershipWithPlan), args.Error(1)
}

func (m *MockMemberships) ActivateMembership(ctx context.Context, membershipID int, paymentID *int) (*subscription.Membership, error) {
	args := m.Called(ctx, membershipID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Membership), args.Error(1)
}

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) FindProfileByID(ctx context.Context, profileID int) (*account.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *MockDirectory) FindAccountByID(ctx context.Context, accountID int) (*account.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

type MockGyms struct{ mock.Mock }

func (m *MockGyms) GetGymByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendPaymentReceipt(ctx context.Context, to, name, reference string, amount float64, currency string) error {
	return m.Called(ctx, to, name, reference, amount, currency).Error(0)
}

func (m *MockMailer) SendMembershipActivated(ctx context.Context, to, name, gymName, planName string, endDate time.Time) error {
	return m.Called(ctx, to, name, gymName, planName, endDate).Error(0)
}

type testDeps struct {
	repo        *MockRepository
	memberships *MockMemberships
	directory   *MockDirectory
	gyms        *MockGyms
	mailer      *MockMailer
}

func newTestService() (Service, *testDeps) {
	deps := &testDeps{
		repo:        new(MockRepository),
		memberships: new(MockMemberships),
		directory:   new(MockDirectory),
		gyms:        new(MockGyms),
		mailer:      new(MockMailer),
	}
	svc := NewService(deps.repo, deps.memberships, deps.directory, deps.gyms, deps.mailer,
		"https://checkout.simulated-pay.com", "GHS")
	return svc, deps
}

var referencePattern = regexp.MustCompile(`^REF-[0-9A-F]{8}-\d+$`)

func TestGenerateReference(t *testing.T) {
	ref, err := generateReference()
	assert.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)

	other, err := generateReference()
	assert.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestService_Initiate(t *testing.T) {
	t.Run("defaults currency and channel and builds checkout url", func(t *testing.T) {
		svc, deps := newTestService()
		deps.repo.On("CreatePayment", mock.Anything, 1, 2, (*int)(nil), 150.0, "GHS", ChannelMobileMoney,
			mock.MatchedBy(func(ref string) bool { return referencePattern.MatchString(ref) })).
			Return(&Payment{ID: 3, ProfileID: 1, GymID: 2, Amount: 150, Currency: "GHS", Channel: ChannelMobileMoney, Status: StatusPending, Reference: "REF-AABBCCDD-1735689600000"}, nil)

		resp, err := svc.Initiate(context.Background(), 1, InitiatePaymentRequest{GymID: 2, Amount: 150})

		assert.NoError(t, err)
		assert.Equal(t, StatusPending, resp.Payment.Status)
		assert.Regexp(t, `^https://checkout\.simulated-pay\.com/REF-[0-9A-F]{8}-\d+\?amount=150$`, resp.AuthorizationURL)
	})

	t.Run("membership must belong to the payer", func(t *testing.T) {
		membershipID := 5

		svc, deps := newTestService()
		deps.memberships.On("GetMembership", mock.Anything, 5).Return(&subscription.MembershipWithPlan{
			Membership: subscription.Membership{ID: 5, ProfileID: 99, GymID: 2},
		}, nil)

		_, err := svc.Initiate(context.Background(), 1, InitiatePaymentRequest{
			GymID: 2, MembershipID: &membershipID, Amount: 150,
		})

		assert.ErrorIs(t, err, ErrMembershipNotOwned)
		deps.repo.AssertNotCalled(t, "CreatePayment")
	})

	t.Run("unknown membership", func(t *testing.T) {
		membershipID := 999

		svc, deps := newTestService()
		deps.memberships.On("GetMembership", mock.Anything, 999).Return(nil, subscription.ErrMembershipNotFound)

		_, err := svc.Initiate(context.Background(), 1, InitiatePaymentRequest{
			GymID: 2, MembershipID: &membershipID, Amount: 150,
		})

		assert.ErrorIs(t, err, subscription.ErrMembershipNotFound)
	})
}

func TestService_HandleWebhook(t *testing.T) {
	membershipID := 5
	endDate := time.Now().AddDate(0, 1, 0)

	pendingPayment := func() *Payment {
		return &Payment{
			ID: 3, ProfileID: 1, GymID: 2, MembershipID: &membershipID,
			Amount: 150, Currency: "GHS", Reference: "REF-AABBCCDD-1735689600000",
			Status: StatusPending,
		}
	}

	t.Run("charge.success activates the membership and emails receipts", func(t *testing.T) {
		svc, deps := newTestService()
		deps.repo.On("GetByReference", mock.Anything, "REF-AABBCCDD-1735689600000").Return(pendingPayment(), nil)
		deps.repo.On("MarkCompleted", mock.Anything, 3, mock.AnythingOfType("time.Time")).Return(true, nil)
		deps.memberships.On("ActivateMembership", mock.Anything, 5, mock.AnythingOfType("*int")).
			Return(&subscription.Membership{ID: 5, Status: subscription.StatusActive}, nil)
		deps.directory.On("FindProfileByID", mock.Anything, 1).
			Return(&account.Profile{ID: 1, AccountID: 7, FirstName: "Jane"}, nil)
		deps.directory.On("FindAccountByID", mock.Anything, 7).
			Return(&account.Account{ID: 7, Email: "jane@example.com"}, nil)
		deps.mailer.On("SendPaymentReceipt", mock.Anything, "jane@example.com", "Jane",
			"REF-AABBCCDD-1735689600000", 150.0, "GHS").Return(nil)
		deps.memberships.On("GetMembership", mock.Anything, 5).Return(&subscription.MembershipWithPlan{
			Membership: subscription.Membership{ID: 5, GymID: 2, EndDate: &endDate},
			Plan:       subscription.Plan{ID: 10, Name: "Monthly"},
		}, nil)
		deps.gyms.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2, Name: "Iron Temple"}, nil)
		deps.mailer.On("SendMembershipActivated", mock.Anything, "jane@example.com", "Jane",
			"Iron Temple", "Monthly", endDate).Return(nil)

		err := svc.HandleWebhook(context.Background(), WebhookEvent{
			Event: "charge.success",
			Data:  WebhookData{Reference: "REF-AABBCCDD-1735689600000", Status: "success"},
		})

		assert.NoError(t, err)
		deps.memberships.AssertCalled(t, "ActivateMembership", mock.Anything, 5, mock.AnythingOfType("*int"))
		deps.mailer.AssertExpectations(t)
	})

	t.Run("redelivered event is a no-op", func(t *testing.T) {
		completed := pendingPayment()
		completed.Status = StatusCompleted

		svc, deps := newTestService()
		deps.repo.On("GetByReference", mock.Anything, "REF-AABBCCDD-1735689600000").Return(completed, nil)
		deps.repo.On("MarkCompleted", mock.Anything, 3, mock.AnythingOfType("time.Time")).Return(false, nil)

		err := svc.HandleWebhook(context.Background(), WebhookEvent{
			Event: "charge.success",
			Data:  WebhookData{Reference: "REF-AABBCCDD-1735689600000"},
		})

		assert.NoError(t, err)
		deps.memberships.AssertNotCalled(t, "ActivateMembership")
		deps.mailer.AssertNotCalled(t, "SendPaymentReceipt")
	})

	t.Run("unknown reference is swallowed", func(t *testing.T) {
		svc, deps := newTestService()
		deps.repo.On("GetByReference", mock.Anything, "REF-DEADBEEF-1").Return(nil, sql.ErrNoRows)

		err := svc.HandleWebhook(context.Background(), WebhookEvent{
			Event: "charge.success",
			Data:  WebhookData{Reference: "REF-DEADBEEF-1"},
		})

		assert.NoError(t, err)
		deps.repo.AssertNotCalled(t, "MarkCompleted")
	})

	t.Run("other events are ignored", func(t *testing.T) {
		svc, deps := newTestService()

		err := svc.HandleWebhook(context.Background(), WebhookEvent{
			Event: "charge.failed",
			Data:  WebhookData{Reference: "REF-AABBCCDD-1735689600000"},
		})

		assert.NoError(t, err)
		deps.repo.AssertNotCalled(t, "GetByReference")
	})

	t.Run("payment without membership only sends the receipt", func(t *testing.T) {
		standalone := pendingPayment()
		standalone.MembershipID = nil

		svc, deps := newTestService()
		deps.repo.On("GetByReference", mock.Anything, "REF-AABBCCDD-1735689600000").Return(standalone, nil)
		deps.repo.On("MarkCompleted", mock.Anything, 3, mock.AnythingOfType("time.Time")).Return(true, nil)
		deps.directory.On("FindProfileByID", mock.Anything, 1).
			Return(&account.Profile{ID: 1, AccountID: 7, FirstName: "Jane"}, nil)
		deps.directory.On("FindAccountByID", mock.Anything, 7).
			Return(&account.Account{ID: 7, Email: "jane@example.com"}, nil)
		deps.mailer.On("SendPaymentReceipt", mock.Anything, "jane@example.com", "Jane",
			"REF-AABBCCDD-1735689600000", 150.0, "GHS").Return(nil)

		err := svc.HandleWebhook(context.Background(), WebhookEvent{
			Event: "charge.success",
			Data:  WebhookData{Reference: "REF-AABBCCDD-1735689600000"},
		})

		assert.NoError(t, err)
		deps.memberships.AssertNotCalled(t, "ActivateMembership")
		deps.mailer.AssertNotCalled(t, "SendMembershipActivated")
	})
}

func TestService_Verify(t *testing.T) {
	t.Run("unknown reference", func(t *testing.T) {
		svc, deps := newTestService()
		deps.repo.On("GetByReference", mock.Anything, "REF-DEADBEEF-1").Return(nil, sql.ErrNoRows)

		_, err := svc.Verify(context.Background(), "REF-DEADBEEF-1")

		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}
