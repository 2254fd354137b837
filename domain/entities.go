package domain

import "time"

// Role is a user's authorization level. Admin implicitly satisfies any
// role check.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AuthProvider tags how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// OTPPurposeLogin is the challenge purpose used by the login flow.
const OTPPurposeLogin = "login"

// User represents an identity in the system.
type User struct {
	ID              uint
	Username        string
	Email           string
	PasswordHash    string // empty for OAuth-only accounts
	Role            Role
	IsActive        bool
	EmailActivated  bool
	OTPVerifiedOnce bool
	Provider        AuthProvider
	GoogleID        string
	ProfilePicture  string

	VerificationToken string
	ResetToken        string
	ResetExpiresAt    *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasRole reports whether the user satisfies the given role gate.
func (u *User) HasRole(r Role) bool {
	return u.Role == r || u.Role == RoleAdmin
}

// OTPChallenge is one issued second-factor code. Storage collapses the
// terminal states (consumed, expired, exhausted) into IsUsed; the reason
// a challenge died is reported through distinct error kinds.
type OTPChallenge struct {
	ID        uint
	UserID    uint
	Code      string
	Purpose   string
	IsUsed    bool
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TrustedDevice binds a user to a client-supplied device identifier,
// waiving the OTP step for the pair until ExpiresAt.
type TrustedDevice struct {
	ID         uint
	UserID     uint
	DeviceID   string
	DeviceName string
	DeviceType string
	CreatedAt  time.Time
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// DeviceInfo carries client-reported device metadata on login requests.
type DeviceInfo struct {
	DeviceID   string
	DeviceName string
	DeviceType string
}

// TokenType discriminates access from refresh tokens. A token of one
// type is never accepted where the other is required.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims is the decoded claim set of a signed token.
type TokenClaims struct {
	UserID    uint
	Type      TokenType
	IssuedAt  int64
	ExpiresAt int64
}

// TokenPair is an issued access/refresh credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is the outcome of a login attempt: either tokens, or a
// signal that an OTP challenge was issued and must be completed first.
type LoginResult struct {
	User        *User
	Tokens      *TokenPair
	OTPRequired bool
	Message     string
}

// GoogleIdentity is the normalized claim set extracted from a verified
// Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}
