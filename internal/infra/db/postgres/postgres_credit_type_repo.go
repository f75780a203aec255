package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// Ensure creditTypeRepo implements repository.CreditTypeRepository
var _ repository.CreditTypeRepository = (*creditTypeRepo)(nil)

type creditTypeRepo struct {
	pool *pgxpool.Pool
}

func NewCreditTypeRepo(pool *pgxpool.Pool) *creditTypeRepo {
	return &creditTypeRepo{pool: pool}
}

func (r *creditTypeRepo) Save(ctx context.Context, tx repository.Tx, t *model.CreditType) error {
	const q = `
INSERT INTO credit_types (sku, name, default_quantity, is_monthly_free, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (sku) DO UPDATE SET
  name=$2, default_quantity=$3, is_monthly_free=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, t.SKU, t.Name, t.DefaultQuantity, t.IsMonthlyFree, t.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *creditTypeRepo) FindBySKU(ctx context.Context, tx repository.Tx, sku string) (*model.CreditType, error) {
	const q = `
SELECT sku, name, default_quantity, is_monthly_free, created_at
  FROM credit_types
 WHERE sku=$1;`

	row, err := pickRow(ctx, r.pool, tx, q, sku)
	if err != nil {
		return nil, err
	}
	t := &model.CreditType{}
	if err := row.Scan(&t.SKU, &t.Name, &t.DefaultQuantity, &t.IsMonthlyFree, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

func (r *creditTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.CreditType, error) {
	const q = `
SELECT sku, name, default_quantity, is_monthly_free, created_at
  FROM credit_types
 ORDER BY sku ASC;`

	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.CreditType
	for rows.Next() {
		t := &model.CreditType{}
		if err := rows.Scan(&t.SKU, &t.Name, &t.DefaultQuantity, &t.IsMonthlyFree, &t.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *creditTypeRepo) Delete(ctx context.Context, tx repository.Tx, sku string) error {
	const q = `DELETE FROM credit_types WHERE sku=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, sku)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
