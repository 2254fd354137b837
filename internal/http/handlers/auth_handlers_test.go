package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kjarj54/PlayWise-Backend/domain"
	"github.com/kjarj54/PlayWise-Backend/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(svc domain.AuthService) *gin.Engine {
	h := NewAuthHandlers(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/login/otp", h.VerifyLoginOTP)
	r.POST("/auth/otp/resend", h.ResendLoginOTP)
	r.POST("/auth/password-reset/request", h.RequestPasswordReset)
	r.POST("/auth/password-reset/confirm", h.ConfirmPasswordReset)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/verify-email", h.VerifyEmail)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginResultWithTokens(user *domain.User) *domain.LoginResult {
	return &domain.LoginResult{
		User:   user,
		Tokens: &domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{"created", `{"username":"player","email":"p@example.com","password":"Abc12345"}`, nil, http.StatusCreated},
		{"email taken", `{"username":"player","email":"p@example.com","password":"Abc12345"}`, domain.ErrEmailTaken, http.StatusConflict},
		{"username taken", `{"username":"player","email":"p@example.com","password":"Abc12345"}`, domain.ErrUsernameTaken, http.StatusConflict},
		{"weak password", `{"username":"player","email":"p@example.com","password":"weak1234"}`, &domain.PasswordPolicyError{Reason: "needs an uppercase letter"}, http.StatusBadRequest},
		{"missing email", `{"username":"player","password":"Abc12345"}`, nil, http.StatusBadRequest},
		{"bad email", `{"username":"player","email":"nope","password":"Abc12345"}`, nil, http.StatusBadRequest},
		{"short username", `{"username":"ab","email":"p@example.com","password":"Abc12345"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockAuthService{
				RegisterFunc: func(ctx context.Context, username, email, password string) (*domain.User, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.User{ID: 1, Username: username, Email: email}, nil
				},
			}

			w := postJSON(newAuthRouter(svc), "/auth/register", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if strings.Contains(w.Body.String(), "password_hash") {
				t.Error("response must not leak password material")
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	user := &domain.User{ID: 1, Username: "player", Email: "p@example.com", Role: domain.RoleUser}

	tests := []struct {
		name        string
		result      *domain.LoginResult
		svcErr      error
		wantStatus  int
		wantOTPFlag bool
	}{
		{"tokens issued", loginResultWithTokens(user), nil, http.StatusOK, false},
		{"otp escalation", &domain.LoginResult{User: user, OTPRequired: true, Message: "code sent"}, nil, http.StatusOK, true},
		{"bad credentials", nil, domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
		{"not activated", nil, domain.ErrAccountNotActivated, http.StatusForbidden, false},
		{"inactive", nil, domain.ErrUserInactive, http.StatusForbidden, false},
		{"google-only", nil, domain.ErrPasswordLoginUnavailable, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockAuthService{
				LoginFunc: func(ctx context.Context, email, password, deviceID string) (*domain.LoginResult, error) {
					return tt.result, tt.svcErr
				},
			}

			w := postJSON(newAuthRouter(svc), "/auth/login", `{"email":"p@example.com","password":"Abc12345","device_id":"dev-1"}`)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data struct {
					OTPRequired bool   `json:"otp_required"`
					AccessToken string `json:"access_token"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}
			if resp.Data.OTPRequired != tt.wantOTPFlag {
				t.Errorf("otp_required = %v, want %v", resp.Data.OTPRequired, tt.wantOTPFlag)
			}
			if tt.wantOTPFlag && resp.Data.AccessToken != "" {
				t.Error("escalated login must not return tokens")
			}
			if !tt.wantOTPFlag && resp.Data.AccessToken == "" {
				t.Error("completed login should return tokens")
			}
		})
	}
}

func TestVerifyLoginOTPHandler(t *testing.T) {
	user := &domain.User{ID: 1, Username: "player", Email: "p@example.com"}

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"wrong code", &domain.OTPInvalidError{Remaining: 2}, http.StatusBadRequest},
		{"expired", domain.ErrOTPExpired, http.StatusBadRequest},
		{"exhausted", domain.ErrOTPMaxAttempts, http.StatusBadRequest},
		{"no pending challenge", domain.ErrOTPNotFound, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockAuthService{
				VerifyLoginOTPFunc: func(ctx context.Context, email, code string, device domain.DeviceInfo, remember bool) (*domain.LoginResult, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return loginResultWithTokens(user), nil
				},
			}

			w := postJSON(newAuthRouter(svc), "/auth/login/otp", `{"email":"p@example.com","code":"482913"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("wrong code reports remaining attempts", func(t *testing.T) {
		svc := &mocks.MockAuthService{
			VerifyLoginOTPFunc: func(ctx context.Context, email, code string, device domain.DeviceInfo, remember bool) (*domain.LoginResult, error) {
				return nil, &domain.OTPInvalidError{Remaining: 2}
			},
		}

		w := postJSON(newAuthRouter(svc), "/auth/login/otp", `{"email":"p@example.com","code":"000000"}`)
		var resp struct {
			Remaining int `json:"remaining_attempts"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Remaining != 2 {
			t.Errorf("expected 2 remaining attempts, got %d", resp.Remaining)
		}
	})

	t.Run("short code rejected at binding", func(t *testing.T) {
		w := postJSON(newAuthRouter(&mocks.MockAuthService{}), "/auth/login/otp", `{"email":"p@example.com","code":"123"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for short code, got %d", w.Code)
		}
	})
}

func TestResendOTPHandler_AntiEnumeration(t *testing.T) {
	// Known and unknown emails must produce byte-identical responses.
	known := &mocks.MockAuthService{
		ResendLoginOTPFunc: func(ctx context.Context, email string) error { return nil },
	}
	unknown := &mocks.MockAuthService{
		ResendLoginOTPFunc: func(ctx context.Context, email string) error { return nil },
	}

	w1 := postJSON(newAuthRouter(known), "/auth/otp/resend", `{"email":"real@example.com"}`)
	w2 := postJSON(newAuthRouter(unknown), "/auth/otp/resend", `{"email":"ghost@example.com"}`)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Fatalf("both should be 200, got %d and %d", w1.Code, w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Error("responses must not reveal whether the account exists")
	}
}

func TestResendOTPHandler_Throttled(t *testing.T) {
	svc := &mocks.MockAuthService{
		ResendLoginOTPFunc: func(ctx context.Context, email string) error {
			return domain.ErrOTPThrottled
		},
	}

	w := postJSON(newAuthRouter(svc), "/auth/otp/resend", `{"email":"p@example.com"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("throttled response should carry Retry-After")
	}
	if strings.Contains(w.Body.String(), "ghost") || strings.Contains(w.Body.String(), "exists") {
		t.Error("throttle response must stay generic")
	}
}

func TestPasswordResetRequestHandler_AntiEnumeration(t *testing.T) {
	svc := &mocks.MockAuthService{}

	w1 := postJSON(newAuthRouter(svc), "/auth/password-reset/request", `{"email":"real@example.com"}`)
	w2 := postJSON(newAuthRouter(svc), "/auth/password-reset/request", `{"email":"ghost@example.com"}`)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Fatalf("both should be 200, got %d and %d", w1.Code, w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Error("responses must not reveal whether the account exists")
	}
}

func TestPasswordResetConfirmHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"invalid token", domain.ErrResetTokenInvalid, http.StatusBadRequest},
		{"expired token", domain.ErrResetTokenExpired, http.StatusBadRequest},
		{"weak password", &domain.PasswordPolicyError{Reason: "too short"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockAuthService{
				ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
					return tt.svcErr
				},
			}

			w := postJSON(newAuthRouter(svc), "/auth/password-reset/confirm", `{"token":"tok","new_password":"NewPass42"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"rotated", nil, http.StatusOK},
		{"invalid", domain.ErrTokenInvalid, http.StatusUnauthorized},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"inactive account", domain.ErrUserInactive, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockAuthService{
				RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil
				},
			}

			w := postJSON(newAuthRouter(svc), "/auth/refresh", `{"refresh_token":"ref"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestVerifyEmailHandler_QueryToken(t *testing.T) {
	svc := &mocks.MockAuthService{
		VerifyEmailFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token == "good" {
				return &domain.User{ID: 1, Username: "player", IsActive: true, EmailActivated: true}, nil
			}
			return nil, domain.ErrActivationTokenInvalid
		},
	}
	r := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token=good", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/verify-email?token=bad", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad token, got %d", w.Code)
	}
}
