package mocks

import (
	"context"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc             func(password string) (string, error)
	VerifyFunc           func(hashedPassword, password string) bool
	ValidateStrengthFunc func(password string) error
}

var _ domain.PasswordService = (*MockPasswordService)(nil)

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed:"+password
}

func (m *MockPasswordService) ValidateStrength(password string) error {
	if m.ValidateStrengthFunc != nil {
		return m.ValidateStrengthFunc(password)
	}
	return nil
}

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc  func(userID uint) (string, error)
	GenerateRefreshTokenFunc func(userID uint) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
}

var _ domain.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(userID uint) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID)
	}
	return "access-token", nil
}

func (m *MockTokenService) GenerateRefreshToken(userID uint) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID)
	}
	return "refresh-token", nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	IssueFunc     func(ctx context.Context, user *domain.User, purpose string) (*domain.OTPChallenge, error)
	VerifyFunc    func(ctx context.Context, userID uint, code, purpose string) error
	CanResendFunc func(ctx context.Context, userID uint) (bool, int64, error)
}

var _ domain.OTPService = (*MockOTPService)(nil)

func (m *MockOTPService) Issue(ctx context.Context, user *domain.User, purpose string) (*domain.OTPChallenge, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user, purpose)
	}
	return &domain.OTPChallenge{UserID: user.ID, Purpose: purpose}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, userID uint, code, purpose string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, userID, code, purpose)
	}
	return nil
}

func (m *MockOTPService) CanResend(ctx context.Context, userID uint) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, userID)
	}
	return true, 0, nil
}

// MockDeviceService implements domain.DeviceService for testing
type MockDeviceService struct {
	IsTrustedFunc func(ctx context.Context, userID uint, deviceID string) (bool, error)
	RememberFunc  func(ctx context.Context, userID uint, info domain.DeviceInfo) (*domain.TrustedDevice, error)
	RevokeOneFunc func(ctx context.Context, userID uint, deviceID string) error
	RevokeAllFunc func(ctx context.Context, userID uint) (int64, error)
	ListFunc      func(ctx context.Context, userID uint) ([]*domain.TrustedDevice, error)
}

var _ domain.DeviceService = (*MockDeviceService)(nil)

func (m *MockDeviceService) IsTrusted(ctx context.Context, userID uint, deviceID string) (bool, error) {
	if m.IsTrustedFunc != nil {
		return m.IsTrustedFunc(ctx, userID, deviceID)
	}
	return false, nil
}

func (m *MockDeviceService) Remember(ctx context.Context, userID uint, info domain.DeviceInfo) (*domain.TrustedDevice, error) {
	if m.RememberFunc != nil {
		return m.RememberFunc(ctx, userID, info)
	}
	return &domain.TrustedDevice{UserID: userID, DeviceID: info.DeviceID}, nil
}

func (m *MockDeviceService) RevokeOne(ctx context.Context, userID uint, deviceID string) error {
	if m.RevokeOneFunc != nil {
		return m.RevokeOneFunc(ctx, userID, deviceID)
	}
	return nil
}

func (m *MockDeviceService) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockDeviceService) List(ctx context.Context, userID uint) ([]*domain.TrustedDevice, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

// MockGoogleVerifier implements domain.GoogleVerifier for testing
type MockGoogleVerifier struct {
	VerifyFunc      func(ctx context.Context, idToken string) (*domain.GoogleIdentity, error)
	AuthCodeURLFunc func(state string) string
	ExchangeFunc    func(ctx context.Context, code string) (string, error)
}

var _ domain.GoogleVerifier = (*MockGoogleVerifier)(nil)

func (m *MockGoogleVerifier) Verify(ctx context.Context, idToken string) (*domain.GoogleIdentity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, idToken)
	}
	return nil, domain.ErrGoogleTokenInvalid
}

func (m *MockGoogleVerifier) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *MockGoogleVerifier) Exchange(ctx context.Context, code string) (string, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return "", domain.ErrGoogleTokenInvalid
}

// MockMailer implements domain.Mailer for testing. Sent messages are
// recorded so tests can assert on delivery without a real SMTP server.
type MockMailer struct {
	SendActivationEmailFunc    func(to, username, token string) error
	SendOTPEmailFunc           func(to, username, code string) error
	SendWelcomeEmailFunc       func(to, username string) error
	SendPasswordResetEmailFunc func(to, username, token string) error

	ActivationEmails []string
	OTPEmails        []string
	WelcomeEmails    []string
	ResetEmails      []string
	LastOTPCode      string
	LastToken        string
}

var _ domain.Mailer = (*MockMailer)(nil)

func (m *MockMailer) SendActivationEmail(to, username, token string) error {
	if m.SendActivationEmailFunc != nil {
		return m.SendActivationEmailFunc(to, username, token)
	}
	m.ActivationEmails = append(m.ActivationEmails, to)
	m.LastToken = token
	return nil
}

func (m *MockMailer) SendOTPEmail(to, username, code string) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(to, username, code)
	}
	m.OTPEmails = append(m.OTPEmails, to)
	m.LastOTPCode = code
	return nil
}

func (m *MockMailer) SendWelcomeEmail(to, username string) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(to, username)
	}
	m.WelcomeEmails = append(m.WelcomeEmails, to)
	return nil
}

func (m *MockMailer) SendPasswordResetEmail(to, username, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(to, username, token)
	}
	m.ResetEmails = append(m.ResetEmails, to)
	m.LastToken = token
	return nil
}

// MockAuditLogger implements domain.AuditLogger for testing
type MockAuditLogger struct {
	Events []*domain.AuditEvent
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)

func (m *MockAuditLogger) LogEvent(event *domain.AuditEvent) {
	m.Events = append(m.Events, event)
}
