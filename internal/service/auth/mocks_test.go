package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

var (
	_ userRepo      = &userRepoMock{}
	_ tokenRepo     = &tokenRepoMock{}
	_ txManager     = &txManagerMock{}
	_ jwtManager    = &jwtManagerMock{}
	_ sessionHolder = &sessionHolderMock{}
)

// ---------------------------------------------------------------------------
// userRepo
// ---------------------------------------------------------------------------

type userRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetCredentialsFunc func(ctx context.Context, email string) (*domain.User, string, error)
	CreateFunc         func(ctx context.Context, u *domain.User, passwordHash string) (*domain.User, error)

	calls struct {
		GetByID        []struct{ ID uuid.UUID }
		GetCredentials []struct{ Email string }
		Create         []struct {
			User         *domain.User
			PasswordHash string
		}
	}
	lock sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID uuid.UUID }{id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByIDCalls() []struct{ ID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByID
}

func (mock *userRepoMock) GetCredentials(ctx context.Context, email string) (*domain.User, string, error) {
	if mock.GetCredentialsFunc == nil {
		panic("userRepoMock.GetCredentialsFunc: method is nil but userRepo.GetCredentials was just called")
	}
	mock.lock.Lock()
	mock.calls.GetCredentials = append(mock.calls.GetCredentials, struct{ Email string }{email})
	mock.lock.Unlock()
	return mock.GetCredentialsFunc(ctx, email)
}

func (mock *userRepoMock) GetCredentialsCalls() []struct{ Email string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetCredentials
}

func (mock *userRepoMock) Create(ctx context.Context, u *domain.User, passwordHash string) (*domain.User, error) {
	if mock.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but userRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		User         *domain.User
		PasswordHash string
	}{u, passwordHash})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, u, passwordHash)
}

func (mock *userRepoMock) CreateCalls() []struct {
	User         *domain.User
	PasswordHash string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

// ---------------------------------------------------------------------------
// tokenRepo
// ---------------------------------------------------------------------------

type tokenRepoMock struct {
	CreateFunc            func(ctx context.Context, token *domain.RefreshToken) error
	GetByHashFunc         func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByIDFunc        func(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserFunc   func(ctx context.Context, userID uuid.UUID) error
	CountActiveExceptFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteExpiredFunc     func(ctx context.Context) (int, error)

	calls struct {
		Create            []struct{ Token *domain.RefreshToken }
		GetByHash         []struct{ TokenHash string }
		RevokeByID        []struct{ ID uuid.UUID }
		RevokeAllByUser   []struct{ UserID uuid.UUID }
		CountActiveExcept []struct{ UserID uuid.UUID }
		DeleteExpired     []struct{}
	}
	lock sync.RWMutex
}

func (mock *tokenRepoMock) Create(ctx context.Context, token *domain.RefreshToken) error {
	if mock.CreateFunc == nil {
		panic("tokenRepoMock.CreateFunc: method is nil but tokenRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Token *domain.RefreshToken }{token})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, token)
}

func (mock *tokenRepoMock) CreateCalls() []struct{ Token *domain.RefreshToken } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *tokenRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	if mock.GetByHashFunc == nil {
		panic("tokenRepoMock.GetByHashFunc: method is nil but tokenRepo.GetByHash was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByHash = append(mock.calls.GetByHash, struct{ TokenHash string }{tokenHash})
	mock.lock.Unlock()
	return mock.GetByHashFunc(ctx, tokenHash)
}

func (mock *tokenRepoMock) RevokeByID(ctx context.Context, id uuid.UUID) error {
	if mock.RevokeByIDFunc == nil {
		panic("tokenRepoMock.RevokeByIDFunc: method is nil but tokenRepo.RevokeByID was just called")
	}
	mock.lock.Lock()
	mock.calls.RevokeByID = append(mock.calls.RevokeByID, struct{ ID uuid.UUID }{id})
	mock.lock.Unlock()
	return mock.RevokeByIDFunc(ctx, id)
}

func (mock *tokenRepoMock) RevokeByIDCalls() []struct{ ID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.RevokeByID
}

func (mock *tokenRepoMock) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	if mock.RevokeAllByUserFunc == nil {
		panic("tokenRepoMock.RevokeAllByUserFunc: method is nil but tokenRepo.RevokeAllByUser was just called")
	}
	mock.lock.Lock()
	mock.calls.RevokeAllByUser = append(mock.calls.RevokeAllByUser, struct{ UserID uuid.UUID }{userID})
	mock.lock.Unlock()
	return mock.RevokeAllByUserFunc(ctx, userID)
}

func (mock *tokenRepoMock) RevokeAllByUserCalls() []struct{ UserID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.RevokeAllByUser
}

func (mock *tokenRepoMock) CountActiveExcept(ctx context.Context, userID uuid.UUID) (int, error) {
	if mock.CountActiveExceptFunc == nil {
		panic("tokenRepoMock.CountActiveExceptFunc: method is nil but tokenRepo.CountActiveExcept was just called")
	}
	mock.lock.Lock()
	mock.calls.CountActiveExcept = append(mock.calls.CountActiveExcept, struct{ UserID uuid.UUID }{userID})
	mock.lock.Unlock()
	return mock.CountActiveExceptFunc(ctx, userID)
}

func (mock *tokenRepoMock) CountActiveExceptCalls() []struct{ UserID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.CountActiveExcept
}

func (mock *tokenRepoMock) DeleteExpired(ctx context.Context) (int, error) {
	if mock.DeleteExpiredFunc == nil {
		panic("tokenRepoMock.DeleteExpiredFunc: method is nil but tokenRepo.DeleteExpired was just called")
	}
	mock.lock.Lock()
	mock.calls.DeleteExpired = append(mock.calls.DeleteExpired, struct{}{})
	mock.lock.Unlock()
	return mock.DeleteExpiredFunc(ctx)
}

// ---------------------------------------------------------------------------
// txManager
// ---------------------------------------------------------------------------

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{}
	}
	lock sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lock.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{}{})
	mock.lock.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.RunInTx
}

// ---------------------------------------------------------------------------
// jwtManager
// ---------------------------------------------------------------------------

type jwtManagerMock struct {
	GenerateAccessTokenFunc  func(userID uuid.UUID, role, name string) (string, error)
	GenerateRefreshTokenFunc func() (string, string, error)
	ValidateAccessTokenFunc  func(token string) (ctxutil.Identity, error)

	calls struct {
		GenerateAccessToken []struct {
			UserID uuid.UUID
			Role   string
			Name   string
		}
		GenerateRefreshToken []struct{}
		ValidateAccessToken  []struct{ Token string }
	}
	lock sync.RWMutex
}

func (mock *jwtManagerMock) GenerateAccessToken(userID uuid.UUID, role, name string) (string, error) {
	if mock.GenerateAccessTokenFunc == nil {
		panic("jwtManagerMock.GenerateAccessTokenFunc: method is nil but jwtManager.GenerateAccessToken was just called")
	}
	mock.lock.Lock()
	mock.calls.GenerateAccessToken = append(mock.calls.GenerateAccessToken, struct {
		UserID uuid.UUID
		Role   string
		Name   string
	}{userID, role, name})
	mock.lock.Unlock()
	return mock.GenerateAccessTokenFunc(userID, role, name)
}

func (mock *jwtManagerMock) GenerateAccessTokenCalls() []struct {
	UserID uuid.UUID
	Role   string
	Name   string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GenerateAccessToken
}

func (mock *jwtManagerMock) GenerateRefreshToken() (string, string, error) {
	if mock.GenerateRefreshTokenFunc == nil {
		panic("jwtManagerMock.GenerateRefreshTokenFunc: method is nil but jwtManager.GenerateRefreshToken was just called")
	}
	mock.lock.Lock()
	mock.calls.GenerateRefreshToken = append(mock.calls.GenerateRefreshToken, struct{}{})
	mock.lock.Unlock()
	return mock.GenerateRefreshTokenFunc()
}

func (mock *jwtManagerMock) GenerateRefreshTokenCalls() []struct{} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GenerateRefreshToken
}

func (mock *jwtManagerMock) ValidateAccessToken(token string) (ctxutil.Identity, error) {
	if mock.ValidateAccessTokenFunc == nil {
		panic("jwtManagerMock.ValidateAccessTokenFunc: method is nil but jwtManager.ValidateAccessToken was just called")
	}
	mock.lock.Lock()
	mock.calls.ValidateAccessToken = append(mock.calls.ValidateAccessToken, struct{ Token string }{token})
	mock.lock.Unlock()
	return mock.ValidateAccessTokenFunc(token)
}

// ---------------------------------------------------------------------------
// sessionHolder
// ---------------------------------------------------------------------------

type sessionHolderMock struct {
	PinFunc     func(s *domain.Session)
	BindFunc    func(s *domain.Session) bool
	ReleaseFunc func(userID uuid.UUID) bool

	calls struct {
		Pin     []struct{ Session *domain.Session }
		Bind    []struct{ Session *domain.Session }
		Release []struct{ UserID uuid.UUID }
	}
	lock sync.RWMutex
}

func (mock *sessionHolderMock) Pin(s *domain.Session) {
	mock.lock.Lock()
	mock.calls.Pin = append(mock.calls.Pin, struct{ Session *domain.Session }{s})
	mock.lock.Unlock()
	if mock.PinFunc != nil {
		mock.PinFunc(s)
	}
}

func (mock *sessionHolderMock) PinCalls() []struct{ Session *domain.Session } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Pin
}

func (mock *sessionHolderMock) Bind(s *domain.Session) bool {
	mock.lock.Lock()
	mock.calls.Bind = append(mock.calls.Bind, struct{ Session *domain.Session }{s})
	mock.lock.Unlock()
	if mock.BindFunc == nil {
		return true
	}
	return mock.BindFunc(s)
}

func (mock *sessionHolderMock) BindCalls() []struct{ Session *domain.Session } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Bind
}

func (mock *sessionHolderMock) Release(userID uuid.UUID) bool {
	mock.lock.Lock()
	mock.calls.Release = append(mock.calls.Release, struct{ UserID uuid.UUID }{userID})
	mock.lock.Unlock()
	if mock.ReleaseFunc == nil {
		return true
	}
	return mock.ReleaseFunc(userID)
}

func (mock *sessionHolderMock) ReleaseCalls() []struct{ UserID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Release
}
