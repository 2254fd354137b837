package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a password login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"device_id,omitempty"`
}

// OTPVerifyRequest completes a login that was escalated to OTP
type OTPVerifyRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Code           string `json:"code" binding:"required,len=6"`
	DeviceID       string `json:"device_id,omitempty"`
	DeviceName     string `json:"device_name,omitempty"`
	DeviceType     string `json:"device_type,omitempty"`
	RememberDevice bool   `json:"remember_device,omitempty"`
}

// EmailRequest carries just an email, for resend-style endpoints
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// GoogleLoginRequest represents a Google ID-token login
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// VerifyEmailRequest carries an activation token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// PasswordResetConfirmRequest completes a password reset
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "registered; check your email to activate the account",
			"user":    userSummary(user),
		},
	})
}

// Login handles password login. The response either carries tokens or
// tells the client an OTP was emailed and must be verified.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, req.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		case errors.Is(err, domain.ErrPasswordLoginUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrPasswordLoginUnavailable.Error()})
		case errors.Is(err, domain.ErrAccountNotActivated):
			c.JSON(http.StatusForbidden, gin.H{"error": "account not activated; check your email"})
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	if result.OTPRequired {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"otp_required": true,
				"message":      result.Message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loginPayload(result)})
}

// VerifyLoginOTP completes an OTP-escalated login
func (h *AuthHandlers) VerifyLoginOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device := domain.DeviceInfo{
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		DeviceType: req.DeviceType,
	}

	result, err := h.authSvc.VerifyLoginOTP(c.Request.Context(), req.Email, req.Code, device, req.RememberDevice)
	if err != nil {
		var invalid *domain.OTPInvalidError
		switch {
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":              "invalid verification code",
				"remaining_attempts": invalid.Remaining,
			})
		case errors.Is(err, domain.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification code expired; request a new one"})
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many failed attempts; request a new code"})
		case errors.Is(err, domain.ErrOTPNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no pending verification for this account"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loginPayload(result)})
}

// ResendLoginOTP re-issues the login challenge. The body is identical
// for known and unknown emails.
func (h *AuthHandlers) ResendLoginOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResendLoginOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrOTPThrottled) {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "please wait before requesting another code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resend code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "if the account exists, a new code was sent"},
	})
}

// ResendActivation re-sends the activation email, quietly.
func (h *AuthHandlers) ResendActivation(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResendActivation(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resend activation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "if the account exists and is not yet active, an activation email was sent"},
	})
}

// GoogleLogin handles sign-in with a client-obtained Google ID token
func (h *AuthHandlers) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.finishGoogleLogin(c, req.IDToken)
}

// VerifyEmail activates an account from the emailed token
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}
		token = req.Token
	}

	user, err := h.authSvc.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrActivationTokenInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or already used activation token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "activation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "account activated",
			"user":    userSummary(user),
		},
	})
}

// RequestPasswordReset starts the reset flow, quietly.
func (h *AuthHandlers) RequestPasswordReset(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "if the account exists, a reset link was sent"},
	})
}

// ConfirmPasswordReset sets a new password from a reset token
func (h *AuthHandlers) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrResetTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reset token"})
		case errors.Is(err, domain.ErrResetTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "reset token expired; request a new one"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "password updated; you can log in now"},
	})
}

// Refresh rotates a refresh token into a fresh pair
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tokenPayload(pair)})
}

// Me returns the authenticated identity
func (h *AuthHandlers) Me(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": userSummary(user)}})
}

// Session reports whether the request is authenticated. Anonymous
// requests get 200 with authenticated=false, never 401.
func (h *AuthHandlers) Session(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"authenticated": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"authenticated": true,
			"user":          userSummary(user),
		},
	})
}

// GoogleOAuthHandlers serves the server-side authorization-code flow.
type GoogleOAuthHandlers struct {
	authSvc  domain.AuthService
	verifier domain.GoogleVerifier
}

// NewGoogleOAuthHandlers creates handlers for the redirect flow
func NewGoogleOAuthHandlers(authSvc domain.AuthService, verifier domain.GoogleVerifier) *GoogleOAuthHandlers {
	return &GoogleOAuthHandlers{authSvc: authSvc, verifier: verifier}
}

// Authorize redirects to Google's consent page. The state value is
// echoed back in a cookie and checked on callback.
func (h *GoogleOAuthHandlers) Authorize(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.verifier.AuthCodeURL(state))
}

// Callback exchanges the authorization code and logs the user in
func (h *GoogleOAuthHandlers) Callback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	idToken, err := h.verifier.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "code exchange failed"})
		return
	}

	result, err := h.authSvc.GoogleLogin(c.Request.Context(), idToken)
	if err != nil {
		writeGoogleLoginError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": loginPayload(result)})
}

func (h *AuthHandlers) finishGoogleLogin(c *gin.Context, idToken string) {
	result, err := h.authSvc.GoogleLogin(c.Request.Context(), idToken)
	if err != nil {
		writeGoogleLoginError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": loginPayload(result)})
}

func writeGoogleLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrGoogleTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrGoogleTokenInvalid.Error()})
	case errors.Is(err, domain.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google login failed"})
	}
}

func loginPayload(result *domain.LoginResult) gin.H {
	return gin.H{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"token_type":    "Bearer",
		"user":          userSummary(result.User),
	}
}

func tokenPayload(pair *domain.TokenPair) gin.H {
	return gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "Bearer",
	}
}

// userSummary projects the public fields of a user. Password hashes
// and pending tokens never leave the service.
func userSummary(u *domain.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"role":            u.Role,
		"provider":        u.Provider,
		"profile_picture": u.ProfilePicture,
		"email_activated": u.EmailActivated,
		"created_at":      u.CreatedAt,
	}
}
