package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

// Logout revokes all refresh tokens for the authenticated user. The store
// session is released only when this user holds it and nobody else is signed
// in, so one logout never empties the dashboard for other callers.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) Logout(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.releaseSession(ctx, userID)

	s.log.InfoContext(ctx, "user logged out", slog.String("user_id", userID.String()))
	return nil
}

func (s *Service) releaseSession(ctx context.Context, userID uuid.UUID) {
	if s.sessions == nil {
		return
	}
	others, err := s.tokens.CountActiveExcept(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "store session kept: active session lookup failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return
	}
	if others > 0 {
		return
	}
	if s.sessions.Release(userID) {
		s.log.InfoContext(ctx, "store session released", slog.String("user_id", userID.String()))
	}
}

// ValidateToken validates an access token and returns the caller identity.
// Returns ErrUnauthorized if the token is invalid or expired.
func (s *Service) ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error) {
	ident, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return ctxutil.Identity{}, domain.ErrUnauthorized
	}
	return ident, nil
}

// CleanupExpiredTokens removes all expired refresh tokens from the database.
// Returns the number of tokens deleted. This is a maintenance operation.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	count, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "token cleanup failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("auth.CleanupExpiredTokens: %w", err)
	}

	if count > 0 {
		s.log.InfoContext(ctx, "cleaned up expired tokens", slog.Int("count", count))
	}

	return count, nil
}
