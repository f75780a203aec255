package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
	"listing-credit-ledger/internal/infra/metrics"
	red "listing-credit-ledger/internal/infra/redis"
)

// issuer is the slice of CreditUseCase the worker needs.
type issuer interface {
	Issue(ctx context.Context, typeSKU, userID string, expiration *time.Time, paymentID *string) (*model.Credit, error)
}

// RefillWorker periodically issues the monthly free credit to users whose
// last grant of it is older than the refill period. This is the out-of-band
// refresh that keeps exhausted monthly-free credits meaningful in the
// availability view. Each refill is a fresh append-only grant; existing
// credits are never touched.
type RefillWorker struct {
	interval time.Duration
	period   time.Duration
	credits  repository.CreditRepository
	issuer   issuer
	locker   red.Locker
	log      *zerolog.Logger
}

func NewRefillWorker(interval, period time.Duration, credits repository.CreditRepository, iss issuer, locker red.Locker, logger *zerolog.Logger) *RefillWorker {
	l := logger.With().Str("component", "RefillWorker").Logger()
	return &RefillWorker{
		interval: interval,
		period:   period,
		credits:  credits,
		issuer:   iss,
		locker:   locker,
		log:      &l,
	}
}

func (w *RefillWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("period", w.period).Msg("starting refill worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping refill worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.runOnce(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("refill pass failed")
			}
			if n > 0 {
				metrics.AddMonthlyRefills(n)
				w.log.Info().Int("count", n).Msg("monthly free credits refilled")
			}
		}
	}
}

// runOnce performs one refill pass. The distributed lock keeps a second
// instance from running the same pass; losing the lock is not an error.
func (w *RefillWorker) runOnce(ctx context.Context) (int, error) {
	token, err := w.locker.TryLock(ctx, "refill:monthly-free", w.interval)
	if err != nil {
		w.log.Debug().Err(err).Msg("refill pass skipped, lock held elsewhere")
		return 0, nil
	}
	defer func() { _ = w.locker.Unlock(ctx, "refill:monthly-free", token) }()

	cutoff := time.Now().Add(-w.period)
	due, err := w.credits.UsersDueForRefill(ctx, repository.NoTX, model.MonthlyFreeSKU, cutoff)
	if err != nil {
		return 0, err
	}

	issued := 0
	for _, userID := range due {
		if _, err := w.issuer.Issue(ctx, model.MonthlyFreeSKU, userID, nil, nil); err != nil {
			w.log.Error().Err(err).Str("user_id", userID).Msg("refill issuance failed")
			continue
		}
		issued++
	}
	return issued, nil
}
