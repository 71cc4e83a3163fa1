package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/redis/go-redis/v9"
)

const (
	OTPTTL = 15 * time.Minute

	OTPPurposeSignup = "signup"
	OTPPurposeReset  = "reset"
)

// OTPStore keeps one pending code per email and purpose until it expires.
type OTPStore interface {
	Save(ctx context.Context, email string, pending *transfer.PendingOTP) error
	Get(ctx context.Context, email, purpose string) (*transfer.PendingOTP, error)
	Delete(ctx context.Context, email, purpose string) error
}

type redisOTPStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisOTPStore(rdb redis.UniversalClient) OTPStore {
	return &redisOTPStore{rdb: rdb, ttl: OTPTTL}
}

func otpKey(email, purpose string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, strings.ToLower(strings.TrimSpace(email)))
}

func (s *redisOTPStore) Save(ctx context.Context, email string, pending *transfer.PendingOTP) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, otpKey(email, pending.Purpose), data, s.ttl).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Get returns nil when there is no live code.
func (s *redisOTPStore) Get(ctx context.Context, email, purpose string) (*transfer.PendingOTP, error) {
	data, err := s.rdb.Get(ctx, otpKey(email, purpose)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	var pending transfer.PendingOTP
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *redisOTPStore) Delete(ctx context.Context, email, purpose string) error {
	return s.rdb.Del(ctx, otpKey(email, purpose)).Err()
}

// OTPSender delivers a code to the user.
type OTPSender interface {
	SendOTP(ctx context.Context, email, otp, purpose string) error
}

type logOTPSender struct{}

// NewLogOTPSender writes codes to the debug log instead of mailing them.
func NewLogOTPSender() OTPSender {
	return logOTPSender{}
}

func (logOTPSender) SendOTP(ctx context.Context, email, otp, purpose string) error {
	slog.DebugContext(ctx, "otp issued", "email", email, "purpose", purpose, "otp", otp)
	return nil
}
