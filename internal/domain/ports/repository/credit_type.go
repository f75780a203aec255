package repository

import (
	"context"

	"listing-credit-ledger/internal/domain/model"
)

// CreditTypeRepository is the port for the credit SKU catalog.
type CreditTypeRepository interface {
	Save(ctx context.Context, tx Tx, t *model.CreditType) error
	FindBySKU(ctx context.Context, tx Tx, sku string) (*model.CreditType, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.CreditType, error)
	Delete(ctx context.Context, tx Tx, sku string) error
}
