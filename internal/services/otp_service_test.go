package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/repositories"
	"github.com/kjarj54/PlayWise-Backend/internal/mocks"
)

func testOTPConfig() OTPConfig {
	return OTPConfig{
		TTL:          10 * time.Minute,
		MaxAttempts:  5,
		ResendWindow: 60 * time.Second,
	}
}

func createOTPServiceForTest(t *testing.T) (domain.OTPService, domain.OTPRepository, *mocks.MockMailer) {
	t.Helper()

	db := newTestDB(t)
	_, client := newTestRedis(t)
	otpRepo := repositories.NewOTPRepository(db)
	mailer := &mocks.MockMailer{}

	return NewOTPService(otpRepo, mailer, client, testOTPConfig()), otpRepo, mailer
}

func testUser() *domain.User {
	return &domain.User{ID: 1, Username: "player", Email: "player@example.com"}
}

func TestOTPService_Issue(t *testing.T) {
	svc, _, mailer := createOTPServiceForTest(t)
	ctx := context.Background()

	challenge, err := svc.Issue(ctx, testUser(), domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if len(challenge.Code) != 6 {
		t.Errorf("expected 6-digit code, got %q", challenge.Code)
	}
	for _, c := range challenge.Code {
		if c < '0' || c > '9' {
			t.Errorf("code should be numeric, got %q", challenge.Code)
		}
	}
	if challenge.Attempts != 0 {
		t.Errorf("fresh challenge should have 0 attempts, got %d", challenge.Attempts)
	}
	if !challenge.ExpiresAt.After(time.Now()) {
		t.Error("fresh challenge should not be expired")
	}
	if len(mailer.OTPEmails) != 1 || mailer.OTPEmails[0] != "player@example.com" {
		t.Errorf("code should be emailed to the user, got %v", mailer.OTPEmails)
	}
	if mailer.LastOTPCode != challenge.Code {
		t.Error("emailed code should match the stored challenge")
	}
}

func TestOTPService_ReissueInvalidatesPrevious(t *testing.T) {
	svc, otpRepo, mailer := createOTPServiceForTest(t)
	ctx := context.Background()
	user := testUser()

	first, err := svc.Issue(ctx, user, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}
	second, err := svc.Issue(ctx, user, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}

	active, err := otpRepo.FindActive(ctx, user.ID, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("FindActive failed: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active challenge should be the second one, got id %d", active.ID)
	}

	// The first code is dead even if it has not expired.
	if first.Code != second.Code {
		err = svc.Verify(ctx, user.ID, first.Code, domain.OTPPurposeLogin)
		if err == nil {
			t.Error("first code should no longer verify")
		}
	}
	if len(mailer.OTPEmails) != 2 {
		t.Errorf("expected two deliveries, got %d", len(mailer.OTPEmails))
	}
}

func TestOTPService_IssueMailFailureKillsChallenge(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	otpRepo := repositories.NewOTPRepository(db)
	mailer := &mocks.MockMailer{
		SendOTPEmailFunc: func(to, username, code string) error {
			return errors.New("smtp down")
		},
	}
	svc := NewOTPService(otpRepo, mailer, client, testOTPConfig())
	ctx := context.Background()

	if _, err := svc.Issue(ctx, testUser(), domain.OTPPurposeLogin); err == nil {
		t.Fatal("Issue should fail when delivery fails")
	}

	if _, err := otpRepo.FindActive(ctx, 1, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("undelivered challenge must not stay active, got %v", err)
	}
}

func TestOTPService_VerifyWrongCodeCountsDown(t *testing.T) {
	svc, _, _ := createOTPServiceForTest(t)
	ctx := context.Background()
	user := testUser()

	challenge, err := svc.Issue(ctx, user, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrong := "000000"
	if wrong == challenge.Code {
		wrong = "000001"
	}

	for i, wantRemaining := range []int{4, 3, 2} {
		err := svc.Verify(ctx, user.ID, wrong, domain.OTPPurposeLogin)
		var invalid *domain.OTPInvalidError
		if !errors.As(err, &invalid) {
			t.Fatalf("attempt %d: expected OTPInvalidError, got %v", i+1, err)
		}
		if !errors.Is(err, domain.ErrOTPInvalid) {
			t.Errorf("attempt %d: error should match ErrOTPInvalid", i+1)
		}
		if invalid.Remaining != wantRemaining {
			t.Errorf("attempt %d: expected %d remaining, got %d", i+1, wantRemaining, invalid.Remaining)
		}
	}

	// The right code still works with attempts left.
	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); err != nil {
		t.Fatalf("correct code should verify, got %v", err)
	}

	// Consumed challenges cannot be replayed.
	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("consumed challenge should be gone, got %v", err)
	}
}

func TestOTPService_VerifyExhaustion(t *testing.T) {
	svc, _, _ := createOTPServiceForTest(t)
	ctx := context.Background()
	user := testUser()

	challenge, err := svc.Issue(ctx, user, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrong := "000000"
	if wrong == challenge.Code {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		err := svc.Verify(ctx, user.ID, wrong, domain.OTPPurposeLogin)
		if !errors.Is(err, domain.ErrOTPInvalid) {
			t.Fatalf("attempt %d: expected ErrOTPInvalid, got %v", i+1, err)
		}
	}

	// Even the correct code fails once exhausted, and the challenge dies.
	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPMaxAttempts) {
		t.Fatalf("expected ErrOTPMaxAttempts, got %v", err)
	}
	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("exhausted challenge should be gone, got %v", err)
	}
}

func TestOTPService_VerifyExpired(t *testing.T) {
	db := newTestDB(t)
	_, client := newTestRedis(t)
	otpRepo := repositories.NewOTPRepository(db)
	cfg := testOTPConfig()
	cfg.TTL = -time.Minute // already expired at creation
	svc := NewOTPService(otpRepo, &mocks.MockMailer{}, client, cfg)
	ctx := context.Background()
	user := testUser()

	challenge, err := svc.Issue(ctx, user, domain.OTPPurposeLogin)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
	// Lazy expiry marks the row used.
	if err := svc.Verify(ctx, user.ID, challenge.Code, domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("expired challenge should be gone, got %v", err)
	}
}

func TestOTPService_VerifyWithoutChallenge(t *testing.T) {
	svc, _, _ := createOTPServiceForTest(t)

	err := svc.Verify(context.Background(), 99, "123456", domain.OTPPurposeLogin)
	if !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("expected ErrOTPNotFound, got %v", err)
	}
}

func TestOTPService_ResendThrottle(t *testing.T) {
	mr, client := newTestRedis(t)
	db := newTestDB(t)
	svc := NewOTPService(repositories.NewOTPRepository(db), &mocks.MockMailer{}, client, testOTPConfig())
	ctx := context.Background()
	user := testUser()

	ok, _, err := svc.CanResend(ctx, user.ID)
	if err != nil || !ok {
		t.Fatalf("resend should be allowed before any issue, ok=%v err=%v", ok, err)
	}

	if _, err := svc.Issue(ctx, user, domain.OTPPurposeLogin); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	ok, retryAfter, err := svc.CanResend(ctx, user.ID)
	if err != nil {
		t.Fatalf("CanResend failed: %v", err)
	}
	if ok {
		t.Error("resend should be throttled right after an issue")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retry-after should be within the window, got %d", retryAfter)
	}

	// The window lapses.
	mr.FastForward(61 * time.Second)
	ok, _, err = svc.CanResend(ctx, user.ID)
	if err != nil || !ok {
		t.Errorf("resend should be allowed after the window, ok=%v err=%v", ok, err)
	}
}
