// File: cmd/app/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"padelpass-backend/internal/config"
	pg "padelpass-backend/internal/infra/db/postgres"
	"padelpass-backend/internal/infra/i18n"
	"padelpass-backend/internal/infra/identity"
	"padelpass-backend/internal/infra/logging"
	"padelpass-backend/internal/infra/metrics"
	red "padelpass-backend/internal/infra/redis"
	"padelpass-backend/internal/infra/sched"
	"padelpass-backend/internal/infra/web"
	"padelpass-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 0)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepository(pool)
	planRepo := pg.NewCachedPlanRepository(pg.NewPostgresPlanRepository(pool), redisClient, cfg.Redis.TTL)
	clubRepo := pg.NewCachedClubRepository(pg.NewPostgresClubRepository(pool), redisClient, cfg.Redis.TTL)
	subRepo := pg.NewPostgresSubscriptionRepository(pool)
	checkInRepo := pg.NewPostgresCheckInRepository(pool)
	clubUserRepo := pg.NewPostgresClubUserRepository(pool)
	tokenRepo := pg.NewPostgresRefreshTokenRepository(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Identity and auth ----
	ident := identity.NewBcryptProvider(userRepo)
	authManager := web.NewAuthManager(cfg.Auth)

	// ---- Use cases ----
	access := usecase.NewAccessPolicy(clubUserRepo)
	authUC := usecase.NewAuthUseCase(ident, tokenRepo, authManager, txManager, cfg.Auth.RefreshTTL, logger)
	userUC := usecase.NewUserUseCase(ident, subRepo, txManager, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, planRepo, ident, txManager, logger)
	planUC := usecase.NewPlanUseCase(planRepo, logger)
	clubUC := usecase.NewClubUseCase(clubRepo, logger)
	checkInUC := usecase.NewCheckInUseCase(checkInRepo, clubRepo, subRepo, ident, access, txManager, logger)
	clubUserUC := usecase.NewClubUserUseCase(clubUserRepo, clubRepo, ident, access, txManager, logger)

	// ---- Background workers ----
	sweeper := sched.NewTokenSweeper(cfg.Sweeper.Interval, tokenRepo, logger)
	go func() { _ = sweeper.Run(ctx) }()
	stateGauge := sched.NewStateGaugeWorker(0, subUC, logger)
	go func() { _ = stateGauge.Run(ctx) }()

	// ---- HTTP ----
	translator, err := i18n.NewBundle(i18n.LocalesFS, cfg.Locale.Default, "en", "ar")
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}
	server := web.NewServer(authManager, authUC, userUC, subUC, planUC, clubUC, checkInUC, clubUserUC,
		rateLimiter, cfg.CheckIn, translator, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe(ctx, cfg.Server) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}
}
