package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/auth"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asUser(r *http.Request, name string, role domain.Role) *http.Request {
	ident := ctxutil.Identity{UserID: uuid.New(), Name: name, Role: role.String()}
	return r.WithContext(ctxutil.WithIdentity(r.Context(), ident))
}

// storeFake serves a fixed snapshot and records inserts.
type storeFake struct {
	snap store.Snapshot
	err  error

	mu       sync.Mutex
	platform []store.PlatformInput
	website  []store.WebsiteInput
	news     []store.NewsInput
	rpa      []store.RPAInput
}

func (f *storeFake) Snapshot() store.Snapshot { return f.snap }

func (f *storeFake) AddPlatform(_ context.Context, in store.PlatformInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.platform = append(f.platform, in)
	return f.err
}

func (f *storeFake) AddWebsite(_ context.Context, in store.WebsiteInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.website = append(f.website, in)
	return f.err
}

func (f *storeFake) AddNews(_ context.Context, in store.NewsInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.news = append(f.news, in)
	return f.err
}

func (f *storeFake) AddRPA(_ context.Context, in store.RPAInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpa = append(f.rpa, in)
	return f.err
}

func entry(by, month string, year int, at time.Time) domain.Entry {
	return domain.Entry{ID: uuid.New(), Month: month, Year: year, EnteredBy: by, EnteredAt: at}
}

// sampleSnapshot has one record per kind for Ayşe and a platform record for
// Mehmet.
func sampleSnapshot() store.Snapshot {
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	return store.Snapshot{
		State:      store.StateReady,
		Connected:  true,
		LastUpdate: base.Add(time.Hour),
		User:       &domain.User{ID: uuid.New(), Email: "svc@example.com", Name: "Dashboard", Role: domain.RoleAdmin, Department: "General"},
		Platform: []domain.PlatformData{
			{Entry: entry("Ayşe", "March", 2024, base), Platform: "Instagram", Metrics: domain.PlatformMetrics{Followers: 1000, Engagement: 50, Reach: 500}},
			{Entry: entry("Mehmet", "March", 2024, base.Add(time.Minute)), Platform: "Twitter", Metrics: domain.PlatformMetrics{Followers: 300}},
		},
		Website: []domain.WebsiteData{
			{Entry: entry("Ayşe", "March", 2024, base.Add(2*time.Minute)), Visitors: 100, PageViews: 250, TopPages: []string{"/home"}},
		},
		News: []domain.NewsData{
			{Entry: entry("Ayşe", "February", 2024, base.Add(3*time.Minute)), Mentions: 12, Sentiment: domain.SentimentPositive},
		},
		RPA: []domain.RPAData{
			{Entry: entry("Ayşe", "March", 2024, base.Add(4*time.Minute)), TotalIncomingMails: 40, TotalDistributed: 30},
		},
	}
}

// notificationFake is a fixed notification list.
type notificationFake struct {
	active    []domain.Notification
	dismissed []uuid.UUID
}

func (f *notificationFake) Active() []domain.Notification { return f.active }

func (f *notificationFake) Dismiss(id uuid.UUID) bool {
	for _, n := range f.active {
		if n.ID == id && !n.Persistent {
			f.dismissed = append(f.dismissed, id)
			return true
		}
	}
	return false
}

var _ authService = &authServiceMock{}

type authServiceMock struct {
	LoginWithPasswordFunc func(ctx context.Context, input auth.LoginPasswordInput) (*auth.AuthResult, error)
	RegisterFunc          func(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
	RefreshFunc           func(ctx context.Context, input auth.RefreshInput) (*auth.AuthResult, error)
	LogoutFunc            func(ctx context.Context) error

	calls struct {
		Register []auth.RegisterInput
		Logout   int
	}
	lock sync.RWMutex
}

func (m *authServiceMock) LoginWithPassword(ctx context.Context, input auth.LoginPasswordInput) (*auth.AuthResult, error) {
	if m.LoginWithPasswordFunc == nil {
		panic("authServiceMock.LoginWithPasswordFunc: method is nil but authService.LoginWithPassword was just called")
	}
	return m.LoginWithPasswordFunc(ctx, input)
}

func (m *authServiceMock) Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
	if m.RegisterFunc == nil {
		panic("authServiceMock.RegisterFunc: method is nil but authService.Register was just called")
	}
	m.lock.Lock()
	m.calls.Register = append(m.calls.Register, input)
	m.lock.Unlock()
	return m.RegisterFunc(ctx, input)
}

func (m *authServiceMock) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.AuthResult, error) {
	if m.RefreshFunc == nil {
		panic("authServiceMock.RefreshFunc: method is nil but authService.Refresh was just called")
	}
	return m.RefreshFunc(ctx, input)
}

func (m *authServiceMock) Logout(ctx context.Context) error {
	if m.LogoutFunc == nil {
		panic("authServiceMock.LogoutFunc: method is nil but authService.Logout was just called")
	}
	m.lock.Lock()
	m.calls.Logout++
	m.lock.Unlock()
	return m.LogoutFunc(ctx)
}

func (m *authServiceMock) RegisterCalls() []auth.RegisterInput {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.Register
}

func (m *authServiceMock) LogoutCalls() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.Logout
}
