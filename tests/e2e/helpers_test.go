//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/listen"
	recordrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/record"
	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/testhelper"
	tokenrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/user"
	authpkg "github.com/heartmarshall/mediareport-backend/internal/auth"
	"github.com/heartmarshall/mediareport-backend/internal/config"
	authsvc "github.com/heartmarshall/mediareport-backend/internal/service/auth"
	"github.com/heartmarshall/mediareport-backend/internal/service/notify"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/internal/transport/middleware"
	"github.com/heartmarshall/mediareport-backend/internal/transport/rest"
	"github.com/heartmarshall/mediareport-backend/internal/transport/ws"
)

const (
	testPassword = "correct-horse-battery"
	eventually   = 10 * time.Second
	tick         = 50 * time.Millisecond
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Store  *store.Store
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct {
	mu   sync.Mutex
	t    *testing.T
	done bool
}

func (w *testLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.done {
		w.t.Log(string(p))
	}
	return len(p), nil
}

// setupTestServer bootstraps the application stack against the shared
// PostgreSQL container. The store runs under a freshly registered admin
// service account.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	lw := &testLogWriter{t: t}
	t.Cleanup(func() {
		lw.mu.Lock()
		lw.done = true
		lw.mu.Unlock()
	})
	logger := slog.New(slog.NewTextHandler(lw, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	authCfg := config.AuthConfig{
		JWTSecret:        "test-secret-at-least-32-chars-long!!",
		JWTIssuer:        "test-issuer",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
		PasswordHashCost: 4,
		AllowAdminSignup: true,
	}
	jwtMgr := authpkg.NewJWTManager(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.AccessTokenTTL)
	sessions := authpkg.NewSessionHolder()
	authService := authsvc.NewService(logger, userrepo.New(pool), tokenrepo.New(pool),
		postgres.NewTxManager(pool), jwtMgr, sessions, authCfg)

	serviceEmail := "service-" + uuid.NewString()[:8] + "@example.com"
	_, err := authService.Register(ctx, authsvc.RegisterInput{
		Email: serviceEmail, Password: testPassword, Name: "Dashboard " + uuid.NewString()[:8], Role: "admin",
	})
	require.NoError(t, err)
	_, err = authService.StartServiceSession(ctx, serviceEmail, testPassword)
	require.NoError(t, err)

	listener := listen.New(logger, pool, config.RealtimeConfig{
		MinBackoff:   50 * time.Millisecond,
		MaxBackoff:   time.Second,
		SignalBuffer: 16,
	})
	listener.Start(ctx)
	t.Cleanup(listener.Close)

	st := store.New(logger, recordrepo.New(pool), listener, sessions, config.StoreConfig{TolerateMissingRPA: true})
	center := notify.NewCenter(logger, config.NotificationsConfig{TTL: time.Minute, MaxRetained: 5})
	events, cancelEvents := st.Events()
	t.Cleanup(cancelEvents)

	require.NoError(t, st.Start(ctx))
	t.Cleanup(st.Close)

	go center.Run(ctx, events)

	hub := ws.NewHub(logger, authService, center, st, nil)
	go hub.Run(ctx)

	router := rest.NewRouter(rest.Routes{
		Health:        rest.NewHealthHandler(pool, st, "e2e"),
		Auth:          rest.NewAuthHandler(authService, logger),
		Records:       rest.NewRecordHandler(st, logger),
		Reports:       rest.NewReportHandler(st, userrepo.New(pool), logger),
		Notifications: rest.NewNotificationHandler(center, logger),
		Socket:        hub,
	})
	var cors config.CORSConfig
	require.NoError(t, cleanenv.ReadEnv(&cors))

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
		middleware.Auth(authService),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ts := &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool, Store: st}
	require.Eventually(t, func() bool {
		return st.Snapshot().State == store.StateReady
	}, eventually, tick, "store never became ready")
	return ts
}

// account is a registered user with a valid access token.
type account struct {
	Name  string
	Token string
}

// register creates a user through the REST API and returns its token.
func (ts *testServer) register(t *testing.T, role string) account {
	t.Helper()

	suffix := uuid.NewString()[:8]
	name := "User " + suffix
	status, body := ts.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "user-" + suffix + "@example.com",
		"password": testPassword,
		"name":     name,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status, "register: %s", body)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return account{Name: name, Token: resp.AccessToken}
}

// do sends a JSON request and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

// getJSON performs an authenticated GET and decodes the body into v.
func (ts *testServer) getJSON(t *testing.T, path, token string, v any) int {
	t.Helper()
	status, body := ts.do(t, http.MethodGet, path, token, nil)
	if status == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v), "decode %s: %s", path, body)
	}
	return status
}
