package service

import (
	"context"

	"github.com/restohub/resto-cli/internal/auth"
	iface "github.com/restohub/resto-cli/internal/service/interface"
)

// authService implements iface.AuthService
type authService struct {
	session *auth.Session
}

// NewAuthService creates a new authentication service
func NewAuthService(session *auth.Session) iface.AuthService {
	return &authService{
		session: session,
	}
}

// Login exchanges email and password for a token pair and stores it
func (s *authService) Login(ctx context.Context, email, password string) (*iface.User, error) {
	user, err := s.session.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return &iface.User{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}

// Logout clears stored credentials
func (s *authService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// Status inspects the stored session
func (s *authService) Status(ctx context.Context) (*iface.SessionStatus, error) {
	status, err := s.session.Status(ctx)
	if err != nil {
		return nil, err
	}

	return &iface.SessionStatus{
		LoggedIn:        status.LoggedIn,
		Subject:         status.Subject,
		Email:           status.Email,
		Role:            status.Role,
		ExpiresAt:       status.ExpiresAt,
		Expired:         status.Expired,
		HasRefreshToken: status.HasRefreshToken,
	}, nil
}
