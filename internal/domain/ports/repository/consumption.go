package repository

import (
	"context"

	"listing-credit-ledger/internal/domain/model"
)

// ConsumptionRepository is the port for the append-only consumption ledger.
// There are deliberately no update or delete methods.
type ConsumptionRepository interface {
	Save(ctx context.Context, tx Tx, rec *model.ConsumptionRecord) error
	ListByCredit(ctx context.Context, tx Tx, creditID string) ([]*model.ConsumptionRecord, error)

	// SumByCredit returns the total quantity consumed against one credit.
	SumByCredit(ctx context.Context, tx Tx, creditID string) (float64, error)

	// SumByUser returns consumed totals grouped by credit id for every
	// credit owned by the user.
	SumByUser(ctx context.Context, tx Tx, userID string) (map[string]float64, error)

	TotalConsumed(ctx context.Context, tx Tx) (float64, error)
}
