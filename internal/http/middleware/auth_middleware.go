package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

// Context keys set by the session guard.
const (
	ContextUserKey   = "auth_user"
	ContextUserIDKey = "auth_user_id"
)

// AuthMiddleware guards routes with bearer-token authentication. It
// validates access tokens only; refresh tokens are rejected here no
// matter how fresh they are.
type AuthMiddleware struct {
	tokenSvc domain.TokenService
	userRepo domain.UserRepository
}

// NewAuthMiddleware creates the session guard
func NewAuthMiddleware(tokenSvc domain.TokenService, userRepo domain.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

// RequireAuth aborts with 401 unless the request carries a valid access
// token for an existing user, and 403 when that user is deactivated.
// The loaded user is stored in the request context for handlers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolveUser(c)
		if err != nil {
			status, msg := authFailureStatus(err)
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present
// and silently continues anonymous otherwise. It never aborts.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := m.resolveUser(c); err == nil {
			c.Set(ContextUserKey, user)
			c.Set(ContextUserIDKey, user.ID)
		}
		c.Next()
	}
}

// RequireRole gates a route behind a role. It composes after
// RequireAuth; admins pass every role gate.
func (m *AuthMiddleware) RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFromContext(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireActive composes after OptionalAuth when a route tolerates
// anonymous callers but not deactivated ones. RequireAuth already
// enforces this for its routes.
func (m *AuthMiddleware) RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := UserFromContext(c); user != nil && !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			return
		}
		c.Next()
	}
}

// RequireVerified composes after RequireAuth and rejects accounts that
// never completed email activation.
func (m *AuthMiddleware) RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFromContext(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.EmailActivated {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "email not verified"})
			return
		}
		c.Next()
	}
}

// resolveUser extracts the bearer token, validates it as an access
// token and loads the current user record. Authorization decisions are
// made against stored state, not token claims alone.
func (m *AuthMiddleware) resolveUser(c *gin.Context) (*domain.User, error) {
	token, err := extractBearerToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokenSvc.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", domain.ErrTokenMalformed
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", domain.ErrTokenMalformed
	}
	return parts[1], nil
}

func authFailureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "account is inactive"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, "missing or malformed authorization header"
	default:
		return http.StatusUnauthorized, "invalid token"
	}
}

// UserFromContext returns the authenticated user placed by RequireAuth
// or OptionalAuth, or nil for anonymous requests.
func UserFromContext(c *gin.Context) *domain.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
