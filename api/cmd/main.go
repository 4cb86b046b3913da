package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innerlight-app/otp-service/internal/audit"
	"github.com/innerlight-app/otp-service/internal/config"
	"github.com/innerlight-app/otp-service/internal/delivery"
	"github.com/innerlight-app/otp-service/internal/domain"
	redisinfra "github.com/innerlight-app/otp-service/internal/infrastructure/redis"
	"github.com/innerlight-app/otp-service/internal/infrastructure/sms"
	"github.com/innerlight-app/otp-service/internal/pkg/logger"
	"github.com/innerlight-app/otp-service/internal/service"
	"github.com/innerlight-app/otp-service/internal/store"
	"github.com/innerlight-app/otp-service/internal/transport/rest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.LogLevel != "" {
		_ = os.Setenv("LOG_LEVEL", cfg.LogLevel)
	}

	logger.Init()
	log := logger.Logger.With().
		Str("service", "otp-service").
		Str("env", cfg.AppEnv).
		Logger()

	// Root ctx with signal cancellation
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- OTP store + periodic sweep ----
	codes := store.New(cfg.OTPTTL, cfg.SweepInterval, log)
	codes.StartSweep(rootCtx)
	log.Info().
		Dur("ttl", cfg.OTPTTL).
		Dur("sweep_interval", cfg.SweepInterval).
		Msg("otp store started")

	// ---- Delivery ----
	policy := delivery.PolicyForEnv(cfg.AppEnv)
	var transport domain.Transport
	switch cfg.SMSProvider {
	case "noop":
		transport = sms.NewNoop(log)
	default:
		transport = sms.NewFast2SMS(sms.Options{
			BaseURL: cfg.SMSBaseURL,
			APIKey:  cfg.SMSAPIKey,
			Route:   cfg.SMSRoute,
			Timeout: cfg.SMSSendTimeout,
		})
	}
	deliverer := delivery.New(transport, policy, log)
	log.Info().
		Str("policy", policy.String()).
		Bool("transport_configured", transport.Configured()).
		Msg("delivery adapter ready")

	// ---- Rate limiter (optional) ----
	var limiter domain.RateLimiter
	if cfg.RLEnabled && cfg.RedisAddr != "" {
		rl := redisinfra.NewRateLimiter(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RLLimit, cfg.RLWindow, log)

		pingCtx, cancel := context.WithTimeout(rootCtx, 2*time.Second)
		if err := rl.Client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed (rate limiter fails open)")
		} else {
			log.Info().Msg("redis connected")
		}
		cancel()

		limiter = rl
	} else {
		log.Info().Msg("send rate limiting disabled")
	}

	// ---- Application service ----
	svc := service.NewOTPService(codes, deliverer, limiter, audit.New(log))
	h := rest.NewHandler(svc)

	// ---- Router ----
	httpHandler := rest.NewRouter(rest.RouterDeps{
		Handler: h,
		Metrics: cfg.MetricsEnabled,
	})

	// ---- HTTP server ----
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
