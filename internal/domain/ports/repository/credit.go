package repository

import (
	"context"
	"time"

	"listing-credit-ledger/internal/domain/model"
)

// CreditRepository is the port for issued credit grants. Credits are
// insert-only; there is no update path.
type CreditRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Credit) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Credit, error)
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Credit, error)

	// Lock serializes concurrent consumptions against one credit for the
	// duration of tx. It requires a real transaction handle.
	Lock(ctx context.Context, tx Tx, creditID string) error

	// UsersDueForRefill returns users whose most recent grant of the given
	// SKU is not newer than the cutoff.
	UsersDueForRefill(ctx context.Context, tx Tx, sku string, cutoff time.Time) ([]string, error)

	CountByType(ctx context.Context, tx Tx) (map[string]int, error)
	TotalGranted(ctx context.Context, tx Tx) (float64, error)
}
