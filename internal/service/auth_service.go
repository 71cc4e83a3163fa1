package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService interface {
	Signup(ctx context.Context, req transfer.SignupRequest) error
	VerifySignup(ctx context.Context, email, otp string) (*models.User, error)
	ResendSignupOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetPassword(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	ResendResetOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	u      repository.UserRepository
	otps   OTPStore
	sender OTPSender
}

func NewAuthService(u repository.UserRepository, otps OTPStore, sender OTPSender) AuthService {
	return &authService{u: u, otps: otps, sender: sender}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, req transfer.SignupRequest) error {
	email := normalizeEmail(req.Email)
	if len(req.Password) < minPasswordLength {
		return ErrWeakPassword
	}

	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.issue(ctx, email, &transfer.PendingOTP{
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Purpose:      OTPPurposeSignup,
	})
}

func (s *authService) VerifySignup(ctx context.Context, email, otp string) (*models.User, error) {
	email = normalizeEmail(email)
	pending, err := s.check(ctx, email, OTPPurposeSignup, otp)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: pending.Name, Email: email, PasswordHash: pending.PasswordHash}
	id, err := s.u.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.otps.Delete(ctx, email, OTPPurposeSignup); err != nil {
		slog.Info(err.Error())
	}
	return user, nil
}

func (s *authService) ResendSignupOTP(ctx context.Context, email string) error {
	return s.resend(ctx, normalizeEmail(email), OTPPurposeSignup)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	return s.issue(ctx, email, &transfer.PendingOTP{Purpose: OTPPurposeReset})
}

func (s *authService) VerifyResetPassword(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	pending, err := s.check(ctx, email, OTPPurposeReset, otp)
	if err != nil {
		return err
	}

	pending.Verified = true
	return s.otps.Save(ctx, email, pending)
}

func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = normalizeEmail(email)
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	pending, err := s.otps.Get(ctx, email, OTPPurposeReset)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrOTPExpired
	}
	if !pending.Verified {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.u.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := s.otps.Delete(ctx, email, OTPPurposeReset); err != nil {
		slog.Info(err.Error())
	}
	return nil
}

func (s *authService) ResendResetOTP(ctx context.Context, email string) error {
	return s.resend(ctx, normalizeEmail(email), OTPPurposeReset)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, exists, err := s.u.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *authService) issue(ctx context.Context, email string, pending *transfer.PendingOTP) error {
	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	pending.OTP = otp
	pending.Verified = false

	if err := s.otps.Save(ctx, email, pending); err != nil {
		return err
	}
	return s.sender.SendOTP(ctx, email, otp, pending.Purpose)
}

// resend issues a new code for a registration or reset still in flight.
func (s *authService) resend(ctx context.Context, email, purpose string) error {
	pending, err := s.otps.Get(ctx, email, purpose)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrOTPExpired
	}
	return s.issue(ctx, email, pending)
}

func (s *authService) check(ctx context.Context, email, purpose, otp string) (*transfer.PendingOTP, error) {
	pending, err := s.otps.Get(ctx, email, purpose)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(pending.OTP), []byte(strings.TrimSpace(otp))) != 1 {
		return nil, ErrInvalidOTP
	}
	return pending, nil
}
