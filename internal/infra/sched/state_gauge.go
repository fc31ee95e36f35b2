package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"padelpass-backend/internal/infra/metrics"
)

// StateCounter is the slice of the subscription use case the gauge
// refresher needs.
type StateCounter interface {
	CountByState(ctx context.Context) (map[string]int, error)
}

// StateGaugeWorker refreshes the subscriptions_total gauge. Expiry is a
// derived condition, so the split between running and expired changes
// with the clock even when no row is written.
type StateGaugeWorker struct {
	interval time.Duration
	counter  StateCounter
	log      *zerolog.Logger
}

func NewStateGaugeWorker(interval time.Duration, counter StateCounter, logger *zerolog.Logger) *StateGaugeWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	gaugeLog := logger.With().Str("component", "StateGaugeWorker").Logger()
	return &StateGaugeWorker{
		interval: interval,
		counter:  counter,
		log:      &gaugeLog,
	}
}

func (w *StateGaugeWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting subscription state gauge")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping subscription state gauge")
			return ctx.Err()
		case <-ticker.C:
			counts, err := w.counter.CountByState(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("state gauge refresh error")
				continue
			}
			metrics.SetSubscriptionsTotal(counts)
		}
	}
}
