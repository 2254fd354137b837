package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

const otpCodeLength = 6

// OTPConfig holds challenge issuance settings.
type OTPConfig struct {
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// OTPServiceImpl implements domain.OTPService. Challenges live in the
// relational store; the resend throttle lives in Redis.
type OTPServiceImpl struct {
	otpRepo     domain.OTPRepository
	mailer      domain.Mailer
	redisClient *redis.Client
	config      OTPConfig
}

// NewOTPService creates a new OTP service
func NewOTPService(otpRepo domain.OTPRepository, mailer domain.Mailer, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo:     otpRepo,
		mailer:      mailer,
		redisClient: redisClient,
		config:      config,
	}
}

// Issue implements domain.OTPService. Prior unconsumed challenges of
// the same purpose are invalidated in the same transaction that creates
// the new one, so exactly one challenge is live afterwards. The code is
// delivered only through the email side channel.
func (s *OTPServiceImpl) Issue(ctx context.Context, user *domain.User, purpose string) (*domain.OTPChallenge, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	challenge := &domain.OTPChallenge{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}

	if err := s.otpRepo.Replace(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store otp challenge: %w", err)
	}

	if err := s.mailer.SendOTPEmail(user.Email, user.Username, code); err != nil {
		// Undeliverable codes must not stay verifiable.
		challenge.IsUsed = true
		_ = s.otpRepo.Update(ctx, challenge)
		return nil, fmt.Errorf("failed to send otp email: %w", err)
	}

	s.markResend(ctx, user.ID)

	return challenge, nil
}

// Verify implements domain.OTPService. The challenge moves strictly
// forward: ACTIVE, then exactly one of consumed, expired or exhausted.
// Expiry and exhaustion are detected lazily here and mark the challenge
// used before the error returns. The whole read-check-write sequence
// runs in one transaction so concurrent verifies cannot both succeed or
// slip past the attempt limit.
func (s *OTPServiceImpl) Verify(ctx context.Context, userID uint, code, purpose string) error {
	return s.otpRepo.Transaction(ctx, func(repo domain.OTPRepository) error {
		challenge, err := repo.FindActive(ctx, userID, purpose)
		if err != nil {
			return err
		}

		if time.Now().After(challenge.ExpiresAt) {
			challenge.IsUsed = true
			if err := repo.Update(ctx, challenge); err != nil {
				return err
			}
			return domain.ErrOTPExpired
		}

		if challenge.Attempts >= s.config.MaxAttempts {
			challenge.IsUsed = true
			if err := repo.Update(ctx, challenge); err != nil {
				return err
			}
			return domain.ErrOTPMaxAttempts
		}

		if challenge.Code != code {
			challenge.Attempts++
			if err := repo.Update(ctx, challenge); err != nil {
				return err
			}
			return &domain.OTPInvalidError{Remaining: s.config.MaxAttempts - challenge.Attempts}
		}

		challenge.IsUsed = true
		return repo.Update(ctx, challenge)
	})
}

// CanResend implements domain.OTPService. Returns how long the caller
// must wait when throttled.
func (s *OTPServiceImpl) CanResend(ctx context.Context, userID uint) (bool, int64, error) {
	if s.redisClient == nil {
		return true, 0, nil
	}

	ttl, err := s.redisClient.TTL(ctx, resendKey(userID)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend ttl: %w", err)
	}
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

func (s *OTPServiceImpl) markResend(ctx context.Context, userID uint) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Set(ctx, resendKey(userID), 1, s.config.ResendWindow)
}

func resendKey(userID uint) string {
	return fmt.Sprintf("otp:res:%d", userID)
}

// generateCode produces a cryptographically secure numeric code.
func (s *OTPServiceImpl) generateCode() (string, error) {
	digits := make([]byte, otpCodeLength)
	for i := 0; i < otpCodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
