package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"listing-credit-ledger/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// LedgerTotals is a point-in-time aggregate over the whole ledger.
type LedgerTotals struct {
	Granted      float64        `json:"granted"`
	Consumed     float64        `json:"consumed"`
	Outstanding  float64        `json:"outstanding"`
	CreditsBySKU map[string]int `json:"credits_by_sku"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (*LedgerTotals, error)
}

type statsUC struct {
	credits     repository.CreditRepository
	consumption repository.ConsumptionRepository

	log *zerolog.Logger
}

func NewStatsUseCase(credits repository.CreditRepository, consumption repository.ConsumptionRepository, logger *zerolog.Logger) *statsUC {
	l := logger.With().Str("component", "StatsUC").Logger()
	return &statsUC{credits: credits, consumption: consumption, log: &l}
}

func (s *statsUC) Totals(ctx context.Context) (*LedgerTotals, error) {
	granted, err := s.credits.TotalGranted(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	consumed, err := s.consumption.TotalConsumed(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	byType, err := s.credits.CountByType(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &LedgerTotals{
		Granted:      granted,
		Consumed:     consumed,
		Outstanding:  granted - consumed,
		CreditsBySKU: byType,
	}, nil
}
