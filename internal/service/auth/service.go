package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/config"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetCredentials(ctx context.Context, email string) (*domain.User, string, error)
	Create(ctx context.Context, u *domain.User, passwordHash string) (*domain.User, error)
}

// tokenRepo defines the refresh token repository interface needed by auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	CountActiveExcept(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role, name string) (string, error)
	ValidateAccessToken(token string) (ctxutil.Identity, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// sessionHolder receives the sessions the state store runs under.
type sessionHolder interface {
	Pin(s *domain.Session)
	Bind(s *domain.Session) bool
	Release(userID uuid.UUID) bool
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	users    userRepo
	tokens   tokenRepo
	tx       txManager
	jwt      jwtManager
	sessions sessionHolder
	cfg      config.AuthConfig
}

// NewService creates a new auth service instance. sessions may be nil when no
// long-lived component follows interactive logins.
func NewService(
	logger *slog.Logger,
	users userRepo,
	tokens tokenRepo,
	tx txManager,
	jwt jwtManager,
	sessions sessionHolder,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		tokens:   tokens,
		tx:       tx,
		jwt:      jwt,
		sessions: sessions,
		cfg:      cfg,
	}
}

// issueTokens generates access and refresh tokens for the given user, stores
// the refresh token hash in DB, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String(), user.Name)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefresh,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		User:         user,
	}, nil
}

// bindSession offers an interactive login or refresh to the session holder.
func (s *Service) bindSession(ctx context.Context, user *domain.User, accessToken string) {
	if s.sessions == nil {
		return
	}
	if s.sessions.Bind(newSession(user, accessToken)) {
		s.log.InfoContext(ctx, "store session bound to user",
			slog.String("user_id", user.ID.String()))
	}
}

func newSession(user *domain.User, accessToken string) *domain.Session {
	return &domain.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: accessToken,
		Metadata:    domain.SessionMetadata(*user),
		IssuedAt:    time.Now(),
	}
}
