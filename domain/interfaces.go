package domain

import "context"

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id uint) error
	Deactivate(ctx context.Context, id uint) error
	// Delete removes the user permanently, cascading to owned OTP
	// challenges and trusted devices.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*User, error)
}

// OTPRepository defines challenge persistence. Replace and the
// Transaction-wrapped verify sequence are the only writers, keeping at
// most one unconsumed challenge per (user, purpose).
type OTPRepository interface {
	// Replace marks every unused challenge for (userID, purpose) used and
	// persists the new challenge, atomically.
	Replace(ctx context.Context, challenge *OTPChallenge) error
	FindActive(ctx context.Context, userID uint, purpose string) (*OTPChallenge, error)
	Update(ctx context.Context, challenge *OTPChallenge) error
	DeleteExpired(ctx context.Context) (int64, error)
	// Transaction runs fn against a repository bound to a single
	// database transaction, locking challenge rows it reads.
	Transaction(ctx context.Context, fn func(OTPRepository) error) error
}

// DeviceRepository defines trusted device persistence
type DeviceRepository interface {
	Find(ctx context.Context, userID uint, deviceID string) (*TrustedDevice, error)
	Save(ctx context.Context, device *TrustedDevice) error
	Delete(ctx context.Context, userID uint, deviceID string) error
	DeleteAll(ctx context.Context, userID uint) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*TrustedDevice, error)
}

// PasswordService defines password hashing and policy operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	ValidateStrength(password string) error
}

// TokenService defines token codec operations. The Validate methods
// check the embedded type tag; a mismatch is an invalid token, not a
// partially trusted one.
type TokenService interface {
	GenerateAccessToken(userID uint) (string, error)
	GenerateRefreshToken(userID uint) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// GoogleVerifier validates third-party identity assertions
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the ID token it carries.
	Exchange(ctx context.Context, code string) (string, error)
}

// Mailer defines the email side channel. OTP codes are delivered only
// through it, never echoed in API responses.
type Mailer interface {
	SendActivationEmail(to, username, token string) error
	SendOTPEmail(to, username, code string) error
	SendWelcomeEmail(to, username string) error
	SendPasswordResetEmail(to, username, token string) error
}

// OTPService defines second-factor challenge operations
type OTPService interface {
	Issue(ctx context.Context, user *User, purpose string) (*OTPChallenge, error)
	Verify(ctx context.Context, userID uint, code, purpose string) error
	CanResend(ctx context.Context, userID uint) (bool, int64, error)
}

// DeviceService defines the trusted device registry
type DeviceService interface {
	IsTrusted(ctx context.Context, userID uint, deviceID string) (bool, error)
	Remember(ctx context.Context, userID uint, info DeviceInfo) (*TrustedDevice, error)
	RevokeOne(ctx context.Context, userID uint, deviceID string) error
	RevokeAll(ctx context.Context, userID uint) (int64, error)
	List(ctx context.Context, userID uint) ([]*TrustedDevice, error)
}

// AuthService defines the authentication business logic
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, email, password, deviceID string) (*LoginResult, error)
	VerifyLoginOTP(ctx context.Context, email, code string, device DeviceInfo, rememberDevice bool) (*LoginResult, error)
	ResendLoginOTP(ctx context.Context, email string) error
	GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (*User, error)
	ResendActivation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetProfile(ctx context.Context, userID uint) (*User, error)
	Deactivate(ctx context.Context, userID uint) error
	DeleteAccount(ctx context.Context, userID uint) error
}
