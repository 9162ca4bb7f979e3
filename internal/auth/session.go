// Package auth provides session login and logout against the back-office API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restohub/resto-cli/internal/api"
	"github.com/restohub/resto-cli/internal/credentials"
	"go.uber.org/zap"
)

const (
	// LoginEndpoint exchanges email and password for a token pair
	LoginEndpoint = "auth/login"

	// LogoutEndpoint invalidates the refresh token server-side
	LogoutEndpoint = "auth/logout"
)

// ErrMissingToken is returned when the login response carries no access token
var ErrMissingToken = errors.New("login response has no access token")

// User is the account returned by the login endpoint
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// loginResponse accepts both "token" and "accessToken" like the refresh endpoint
type loginResponse struct {
	Token        string `json:"token"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

func (r *loginResponse) accessToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Status describes the stored session
type Status struct {
	LoggedIn        bool
	Subject         string
	Email           string
	Role            string
	ExpiresAt       time.Time
	Expired         bool
	HasRefreshToken bool
}

// Session logs the user in and out through an API client
type Session struct {
	client *api.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewSession creates a session manager bound to client
func NewSession(client *api.Client, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Login authenticates with email and password and persists the token pair
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp loginResponse
	if err := s.client.Post(ctx, LoginEndpoint, payload, &resp, api.WithoutAuth()); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	accessToken := resp.accessToken()
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	if err := s.client.Credentials().UpdateTokens(ctx, accessToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}

	s.logger.Info("logged in", zap.String("email", email))

	if resp.User == nil {
		return &User{Email: email}, nil
	}
	return resp.User, nil
}

// Logout asks the server to drop the session, then clears local credentials
// whatever the server answered
func (s *Session) Logout(ctx context.Context) error {
	creds := s.client.Credentials()

	if refreshToken := creds.RefreshToken(ctx); refreshToken != "" {
		payload := map[string]string{"refreshToken": refreshToken}
		if err := s.client.Post(ctx, LogoutEndpoint, payload, nil, api.WithoutAuth()); err != nil {
			s.logger.Warn("server logout failed", zap.Error(err))
		}
	}

	if err := creds.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Status inspects the stored tokens without contacting the server
func (s *Session) Status(ctx context.Context) (*Status, error) {
	bundle := s.client.Credentials().Bundle(ctx)

	status := &Status{
		HasRefreshToken: bundle.RefreshToken != "",
	}
	if bundle.AccessToken == "" {
		return status, nil
	}

	claims, err := credentials.ParseClaims(bundle.AccessToken)
	if err != nil {
		return nil, err
	}

	status.LoggedIn = true
	status.Subject = claims.Subject
	status.Email = claims.Email
	status.Role = claims.Role
	status.ExpiresAt = claims.Expiry()
	status.Expired = claims.Expired(s.now())

	return status, nil
}
