package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// maxPasswordBytes is bcrypt's input limit. Both Hash and Verify
// truncate at this boundary so passwords that agree on their first 72
// bytes are treated as equal.
const maxPasswordBytes = 72

const specialCharacters = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// PolicyConfig holds the togglable password strength rules.
type PolicyConfig struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost   int
	policy PolicyConfig
}

// NewPasswordService creates a new password service
func NewPasswordService(policy PolicyConfig) domain.PasswordService {
	return &PasswordServiceImpl{
		cost:   bcrypt.DefaultCost,
		policy: policy,
	}
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(truncatePassword(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), truncatePassword(password))
	return err == nil
}

// ValidateStrength implements domain.PasswordService. The first failing
// rule's message is returned.
func (p *PasswordServiceImpl) ValidateStrength(password string) error {
	if len(password) < p.policy.MinLength {
		return &domain.PasswordPolicyError{
			Reason: fmt.Sprintf("password must be at least %d characters long", p.policy.MinLength),
		}
	}
	if p.policy.RequireUpper && !strings.ContainsFunc(password, unicode.IsUpper) {
		return &domain.PasswordPolicyError{Reason: "password must contain at least one uppercase letter"}
	}
	if p.policy.RequireLower && !strings.ContainsFunc(password, unicode.IsLower) {
		return &domain.PasswordPolicyError{Reason: "password must contain at least one lowercase letter"}
	}
	if p.policy.RequireDigit && !strings.ContainsFunc(password, unicode.IsDigit) {
		return &domain.PasswordPolicyError{Reason: "password must contain at least one digit"}
	}
	if p.policy.RequireSpecial && !strings.ContainsAny(password, specialCharacters) {
		return &domain.PasswordPolicyError{Reason: "password must contain at least one special character"}
	}
	return nil
}
