package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/cache"
	"github.com/safelease/accounts-web/internal/config"
	apphttp "github.com/safelease/accounts-web/internal/http"
	"github.com/safelease/accounts-web/internal/http/handlers"
	"github.com/safelease/accounts-web/internal/logger"
	"github.com/safelease/accounts-web/internal/observability"
	"github.com/safelease/accounts-web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("accounts-web", false)
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init("accounts-web", cfg.Debug)

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize sentry")
	}
	defer observability.FlushSentry()

	apiClient := api.NewClient(cfg.APIBaseURL)

	// The user cache is optional; without Redis every request hits the API.
	var userCache session.UserCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Open(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		userCache = cache.NewUserCache(rdb, time.Duration(cfg.UserCacheTTL)*time.Second)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("user cache enabled")
	}

	cookies := &session.CookieStore{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}
	manager := session.NewManager(apiClient, userCache)
	handler := handlers.New(apiClient, manager, cookies)
	router := apphttp.NewRouter(handler, manager, cookies)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
