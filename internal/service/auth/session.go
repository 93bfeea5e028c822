package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// StartServiceSession signs the configured service account in and pins the
// resulting session for the state store. No refresh token is stored: the
// session lives for the process lifetime.
func (s *Service) StartServiceSession(ctx context.Context, email, password string) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("auth.StartServiceSession: no session holder")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("auth.StartServiceSession: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String(), user.Name)
	if err != nil {
		return nil, fmt.Errorf("auth.StartServiceSession generate access token: %w", err)
	}

	session := newSession(user, accessToken)
	s.sessions.Pin(session)

	s.log.InfoContext(ctx, "service session started",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))

	return session, nil
}
