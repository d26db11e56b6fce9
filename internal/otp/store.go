package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeTTL   = 10 * time.Minute
	keyPrefix = "otp:email:"
)

var ErrCodeMismatch = errors.New("verification code is invalid or expired")

// Store keeps email verification codes in Redis with a TTL. Codes do not
// survive a Redis restart; callers are expected to request a fresh one.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create generates a 6-digit code for the email and stores it, replacing any
// previous code for the same address.
func (s *Store) Create(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := keyPrefix + normalize(email)
	if err := s.client.Set(ctx, key, code, codeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	return code, nil
}

// Verify consumes the code for the email. A successful verification deletes
// the code so it cannot be replayed.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	key := keyPrefix + normalize(email)

	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeMismatch
		}
		return err
	}

	if stored != code {
		return ErrCodeMismatch
	}

	return s.client.Del(ctx, key).Err()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
