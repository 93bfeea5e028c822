package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/listen"
	recordrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/record"
	tokenrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/mediareport-backend/internal/auth"
	"github.com/heartmarshall/mediareport-backend/internal/config"
	authsvc "github.com/heartmarshall/mediareport-backend/internal/service/auth"
	"github.com/heartmarshall/mediareport-backend/internal/service/notify"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/internal/transport/middleware"
	"github.com/heartmarshall/mediareport-backend/internal/transport/rest"
	"github.com/heartmarshall/mediareport-backend/internal/transport/ws"
)

const tokenCleanupInterval = time.Hour

// Run is the application entry point. It loads configuration, connects to
// the database, starts the store with its change feed and serves HTTP until
// ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// Infrastructure.
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	records := recordrepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)

	// Auth and the session the store acts under.
	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	sessions := auth.NewSessionHolder()
	authService := authsvc.NewService(logger, users, tokens, txm, jwtMgr, sessions, cfg.Auth)

	if cfg.Store.HasServiceAccount() {
		if _, err := authService.StartServiceSession(ctx, cfg.Store.ServiceEmail, cfg.Store.ServicePassword); err != nil {
			return fmt.Errorf("start service session: %w", err)
		}
	} else {
		logger.Warn("no store service account configured, dashboard data waits for the first sign-in")
	}

	// Change feed and store.
	listener := listen.New(logger, pool, cfg.Realtime)
	listener.Start(ctx)
	defer listener.Close()

	st := store.New(logger, records, listener, sessions, cfg.Store)
	center := notify.NewCenter(logger, cfg.Notifications)

	// Subscribe before Start so the center sees the initial load.
	events, cancelEvents := st.Events()
	defer cancelEvents()

	if err := st.Start(ctx); err != nil {
		return err
	}
	defer st.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	hub := ws.NewHub(logger, authService, center, st, cfg.CORS.Origins())

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		center.Run(runCtx, events)
	}()
	go func() {
		defer wg.Done()
		hub.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		cleanupTokens(runCtx, logger, authService)
	}()

	// HTTP.
	routes := rest.Routes{
		Health:        rest.NewHealthHandler(pool, st, BuildVersion()),
		Auth:          rest.NewAuthHandler(authService, logger),
		Records:       rest.NewRecordHandler(st, logger),
		Reports:       rest.NewReportHandler(st, users, logger),
		Notifications: rest.NewNotificationHandler(center, logger),
		Socket:        hub,
	}

	mws := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(authService),
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Burst))
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registerStoreMetrics(reg, st, center)
		routes.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		routes.MetricsPath = cfg.Metrics.Path
		// Innermost, so the route label sees the pattern the mux matched.
		mws = append(mws, middleware.NewMetrics(reg).Middleware())
	}

	handler := middleware.Chain(mws...)(rest.NewRouter(routes))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-srvErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Websocket connections are hijacked and not tracked by Shutdown; the hub
	// closes them when runCtx ends.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}

	wg.Wait()
	logger.Info("application stopped")
	return nil
}

type tokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// cleanupTokens deletes expired refresh tokens once per interval.
func cleanupTokens(ctx context.Context, logger *slog.Logger, svc tokenCleaner) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.CleanupExpiredTokens(ctx)
			if err != nil {
				logger.Warn("token cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("expired tokens deleted", slog.Int("count", n))
			}
		}
	}
}
