// Package sched holds the background loops: stale-token sweeping and
// the subscription state gauge refresh.
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain/ports/repository"
	"padelpass-backend/internal/infra/metrics"
)

// TokenSweeper periodically deletes refresh tokens that are expired,
// used or revoked. Redeemability is always re-checked at exchange time;
// the sweeper only keeps the table from growing without bound.
type TokenSweeper struct {
	interval time.Duration
	tokens   repository.RefreshTokenRepository
	log      *zerolog.Logger
}

func NewTokenSweeper(interval time.Duration, tokens repository.RefreshTokenRepository, logger *zerolog.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	sweepLog := logger.With().Str("component", "TokenSweeper").Logger()
	return &TokenSweeper{
		interval: interval,
		tokens:   tokens,
		log:      &sweepLog,
	}
}

func (w *TokenSweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting token sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping token sweeper")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.tokens.DeleteStale(ctx, repository.NoTX, time.Now().UTC())
			if err != nil {
				w.log.Error().Err(err).Msg("token sweep error")
				continue
			}
			if n > 0 {
				metrics.AddRefreshTokensSwept(n)
				w.log.Info().Int("count", n).Msg("stale refresh tokens deleted")
			}
		}
	}
}
