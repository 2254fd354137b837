package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kjarj54/PlayWise-Backend/domain"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifierImpl implements domain.GoogleVerifier. Verification is
// a round-trip to Google's tokeninfo endpoint plus an audience check;
// the authorization-code flow uses the standard oauth2 config.
type GoogleVerifierImpl struct {
	oauthConfig  *oauth2.Config
	client       *http.Client
	tokenInfoURL string
	log          *zap.Logger
}

// NewGoogleVerifier creates a new Google identity verifier
func NewGoogleVerifier(clientID, clientSecret, redirectURL string, log *zap.Logger) *GoogleVerifierImpl {
	return &GoogleVerifierImpl{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		client:       &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL: defaultTokenInfoURL,
		log:          log,
	}
}

// tokenInfoResponse mirrors the fields we read from Google's tokeninfo.
type tokenInfoResponse struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Verify implements domain.GoogleVerifier. Transport failures and
// explicit rejections are distinguished in logs but both surface as
// ErrGoogleTokenInvalid.
func (g *GoogleVerifierImpl) Verify(ctx context.Context, idToken string) (*domain.GoogleIdentity, error) {
	if g.oauthConfig.ClientID == "" {
		return nil, fmt.Errorf("google oauth not configured: %w", domain.ErrGoogleTokenInvalid)
	}

	reqURL := g.tokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building tokeninfo request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("google tokeninfo transport failure", zap.Error(err))
		return nil, domain.ErrGoogleTokenInvalid
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("google rejected id token", zap.Int("status", resp.StatusCode))
		return nil, domain.ErrGoogleTokenInvalid
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		g.log.Warn("google tokeninfo decode failure", zap.Error(err))
		return nil, domain.ErrGoogleTokenInvalid
	}

	if info.Aud != g.oauthConfig.ClientID {
		g.log.Warn("google token audience mismatch")
		return nil, domain.ErrGoogleTokenInvalid
	}

	return &domain.GoogleIdentity{
		Subject:       info.Sub,
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		EmailVerified: info.EmailVerified == "true",
	}, nil
}

// AuthCodeURL implements domain.GoogleVerifier
func (g *GoogleVerifierImpl) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange implements domain.GoogleVerifier. The ID token rides along
// in the code-exchange response.
func (g *GoogleVerifierImpl) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		g.log.Warn("google code exchange failed", zap.Error(err))
		return "", domain.ErrGoogleTokenInvalid
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", domain.ErrGoogleTokenInvalid
	}
	return idToken, nil
}

var _ domain.GoogleVerifier = (*GoogleVerifierImpl)(nil)
