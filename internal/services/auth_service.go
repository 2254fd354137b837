package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/infrastructure/auth"
)

const resetTokenTTL = time.Hour

// AuthServiceImpl orchestrates registration, login, second-factor
// escalation and credential lifecycle on top of the repositories and
// the token/password/device services.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	deviceSvc   domain.DeviceService
	googleSvc   domain.GoogleVerifier
	mailer      domain.Mailer
	audit       domain.AuditLogger
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	deviceSvc domain.DeviceService,
	googleSvc domain.GoogleVerifier,
	mailer domain.Mailer,
	audit domain.AuditLogger,
	logger *zap.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		deviceSvc:   deviceSvc,
		googleSvc:   googleSvc,
		mailer:      mailer,
		audit:       audit,
		logger:      logger,
	}
}

// Register implements domain.AuthService. New accounts start inactive
// until the emailed activation link is followed.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if err := s.passwordSvc.ValidateStrength(password); err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Role:              domain.RoleUser,
		IsActive:          false,
		Provider:          domain.ProviderLocal,
		VerificationToken: auth.GenerateOpaqueToken(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendActivationEmail(user.Email, user.Username, user.VerificationToken); err != nil {
		s.logger.Error("failed to send activation email",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserRegisteredEvent, user.ID).WithEmail(user.Email))

	return user, nil
}

// Login implements domain.AuthService. Password verification always
// runs when a user exists, and unknown email and wrong password share
// one error. A successful password check either issues tokens directly
// or escalates to OTP: escalation happens whenever the account has
// never completed an OTP, the client sent no device identifier, or the
// device is not currently trusted.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, deviceID string) (*domain.LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
				WithEmail(email).WithError(domain.ErrInvalidCredentials))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, domain.ErrPasswordLoginUnavailable
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).
			WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		if !user.EmailActivated {
			return nil, domain.ErrAccountNotActivated
		}
		return nil, domain.ErrUserInactive
	}

	needOTP := !user.OTPVerifiedOnce || deviceID == ""
	if !needOTP {
		trusted, err := s.deviceSvc.IsTrusted(ctx, user.ID, deviceID)
		if err != nil {
			return nil, err
		}
		needOTP = !trusted
	}

	if needOTP {
		if _, err := s.otpSvc.Issue(ctx, user, domain.OTPPurposeLogin); err != nil {
			return nil, err
		}
		s.audit.LogEvent(domain.NewAuditEvent(domain.OTPIssuedEvent, user.ID).WithEmail(email))
		return &domain.LoginResult{
			User:        user,
			OTPRequired: true,
			Message:     "verification code sent to your email",
		}, nil
	}

	return s.completeLogin(ctx, user)
}

// VerifyLoginOTP implements domain.AuthService. A consumed challenge
// marks the account as having completed OTP at least once and, when
// requested, records the device as trusted.
func (s *AuthServiceImpl) VerifyLoginOTP(ctx context.Context, email, code string, device domain.DeviceInfo, rememberDevice bool) (*domain.LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.otpSvc.Verify(ctx, user.ID, code, domain.OTPPurposeLogin); err != nil {
		s.audit.LogEvent(domain.NewAuditEvent(domain.OTPVerifyFailureEvent, user.ID).
			WithEmail(email).WithError(err))
		return nil, err
	}

	if !user.OTPVerifiedOnce {
		user.OTPVerifiedOnce = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.OTPVerifiedEvent, user.ID).WithEmail(email))

	if rememberDevice && device.DeviceID != "" {
		if _, err := s.deviceSvc.Remember(ctx, user.ID, device); err != nil {
			s.logger.Error("failed to remember device",
				zap.Uint("user_id", user.ID),
				zap.Error(err))
		} else {
			s.audit.LogEvent(domain.NewAuditEvent(domain.DeviceTrustedEvent, user.ID).WithEmail(email))
		}
	}

	return s.completeLogin(ctx, user)
}

// ResendLoginOTP implements domain.AuthService. It is deliberately
// quiet: unknown emails and inactive accounts return nil so the
// endpoint cannot be used for enumeration. Throttled resends surface
// ErrOTPThrottled so the handler can attach a Retry-After header.
func (s *AuthServiceImpl) ResendLoginOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	ok, retryAfter, err := s.otpSvc.CanResend(ctx, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: retry in %ds", domain.ErrOTPThrottled, retryAfter)
	}

	if _, err := s.otpSvc.Issue(ctx, user, domain.OTPPurposeLogin); err != nil {
		return err
	}
	s.audit.LogEvent(domain.NewAuditEvent(domain.OTPIssuedEvent, user.ID).WithEmail(email))
	return nil
}

// GoogleLogin implements domain.AuthService. The ID token is verified
// against Google, then the identity is matched by Google subject,
// linked to an existing local account by email, or provisioned fresh.
// Google accounts skip the OTP step: the provider already enforced the
// second factor.
func (s *AuthServiceImpl) GoogleLogin(ctx context.Context, idToken string) (*domain.LoginResult, error) {
	identity, err := s.googleSvc.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByGoogleID(ctx, identity.Subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.linkOrCreateGoogleUser(ctx, identity)
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.completeLogin(ctx, user)
}

// linkOrCreateGoogleUser attaches the Google identity to a matching
// local account, or provisions a new pre-activated account.
func (s *AuthServiceImpl) linkOrCreateGoogleUser(ctx context.Context, identity *domain.GoogleIdentity) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	if err == nil {
		user.GoogleID = identity.Subject
		if user.ProfilePicture == "" {
			user.ProfilePicture = identity.Picture
		}
		if !user.EmailActivated {
			// Google vouched for the address.
			user.EmailActivated = true
			user.IsActive = true
			user.VerificationToken = ""
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	username, err := s.uniqueUsername(ctx, identity)
	if err != nil {
		return nil, err
	}

	user = &domain.User{
		Username:       username,
		Email:          identity.Email,
		Role:           domain.RoleUser,
		IsActive:       true,
		EmailActivated: true,
		Provider:       domain.ProviderGoogle,
		GoogleID:       identity.Subject,
		ProfilePicture: identity.Picture,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
		s.logger.Error("failed to send welcome email",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserRegisteredEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

// uniqueUsername derives a username from the Google profile, appending
// a numeric suffix until it is free.
func (s *AuthServiceImpl) uniqueUsername(ctx context.Context, identity *domain.GoogleIdentity) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(identity.Name, " ", ""))
	if base == "" {
		base = strings.SplitN(identity.Email, "@", 2)[0]
	}

	candidate := base
	for i := 1; ; i++ {
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, domain.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// VerifyEmail implements domain.AuthService. Activation tokens are
// single use: the token is cleared as the account activates.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrActivationTokenInvalid
	}

	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrActivationTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	user.IsActive = true
	user.EmailActivated = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
		s.logger.Error("failed to send welcome email",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.AccountActivatedEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

// ResendActivation implements domain.AuthService. Same anti-enumeration
// posture as ResendLoginOTP. A fresh token replaces the old one.
func (s *AuthServiceImpl) ResendActivation(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.EmailActivated {
		return nil
	}

	user.VerificationToken = auth.GenerateOpaqueToken()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.mailer.SendActivationEmail(user.Email, user.Username, user.VerificationToken); err != nil {
		s.logger.Error("failed to send activation email",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}
	return nil
}

// RequestPasswordReset implements domain.AuthService. Always quiet to
// the caller; Google-only accounts simply never get a reset email.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil
	}

	expires := time.Now().Add(resetTokenTTL)
	user.ResetToken = auth.GenerateOpaqueToken()
	user.ResetExpiresAt = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Username, user.ResetToken); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.PasswordResetRequestedEvent, user.ID).WithEmail(email))
	return nil
}

// ResetPassword implements domain.AuthService. The token is single use
// and expires independently of whether the reset succeeds.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrResetTokenInvalid
	}

	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		user.ResetToken = ""
		user.ResetExpiresAt = nil
		_ = s.userRepo.Update(ctx, user)
		return domain.ErrResetTokenExpired
	}

	if err := s.passwordSvc.ValidateStrength(newPassword); err != nil {
		return err
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetExpiresAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(user.Email))
	return nil
}

// Refresh implements domain.AuthService. Only refresh-typed tokens are
// accepted, and the subject must still exist and be active when the
// rotation happens.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.issueTokens(user.ID)
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// Deactivate implements domain.AuthService. Soft: the row stays, logins
// stop working until reactivation.
func (s *AuthServiceImpl) Deactivate(ctx context.Context, userID uint) error {
	return s.userRepo.Deactivate(ctx, userID)
}

// DeleteAccount implements domain.AuthService. Hard delete, cascading
// to challenges and trusted devices.
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}

// completeLogin issues the token pair and stamps the login time.
func (s *AuthServiceImpl) completeLogin(ctx context.Context, user *domain.User) (*domain.LoginResult, error) {
	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to update last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))

	return &domain.LoginResult{User: user, Tokens: tokens}, nil
}

func (s *AuthServiceImpl) issueTokens(userID uint) (*domain.TokenPair, error) {
	access, err := s.tokenSvc.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokenSvc.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
