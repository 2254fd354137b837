package mocks

import (
	"context"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// MockAuthService implements domain.AuthService for handler tests
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, username, email, password string) (*domain.User, error)
	LoginFunc                func(ctx context.Context, email, password, deviceID string) (*domain.LoginResult, error)
	VerifyLoginOTPFunc       func(ctx context.Context, email, code string, device domain.DeviceInfo, rememberDevice bool) (*domain.LoginResult, error)
	ResendLoginOTPFunc       func(ctx context.Context, email string) error
	GoogleLoginFunc          func(ctx context.Context, idToken string) (*domain.LoginResult, error)
	VerifyEmailFunc          func(ctx context.Context, token string) (*domain.User, error)
	ResendActivationFunc     func(ctx context.Context, email string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	RefreshFunc              func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	GetProfileFunc           func(ctx context.Context, userID uint) (*domain.User, error)
	DeactivateFunc           func(ctx context.Context, userID uint) error
	DeleteAccountFunc        func(ctx context.Context, userID uint) error
}

var _ domain.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password)
	}
	return &domain.User{Username: username, Email: email}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password, deviceID string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, deviceID)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) VerifyLoginOTP(ctx context.Context, email, code string, device domain.DeviceInfo, rememberDevice bool) (*domain.LoginResult, error) {
	if m.VerifyLoginOTPFunc != nil {
		return m.VerifyLoginOTPFunc(ctx, email, code, device, rememberDevice)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockAuthService) ResendLoginOTP(ctx context.Context, email string) error {
	if m.ResendLoginOTPFunc != nil {
		return m.ResendLoginOTPFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) GoogleLogin(ctx context.Context, idToken string) (*domain.LoginResult, error) {
	if m.GoogleLoginFunc != nil {
		return m.GoogleLoginFunc(ctx, idToken)
	}
	return nil, domain.ErrGoogleTokenInvalid
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil, domain.ErrActivationTokenInvalid
}

func (m *MockAuthService) ResendActivation(ctx context.Context, email string) error {
	if m.ResendActivationFunc != nil {
		return m.ResendActivationFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) Deactivate(ctx context.Context, userID uint) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, userID uint) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, userID)
	}
	return nil
}
