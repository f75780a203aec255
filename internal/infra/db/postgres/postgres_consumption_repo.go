package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// Ensure consumptionRepo implements repository.ConsumptionRepository
var _ repository.ConsumptionRepository = (*consumptionRepo)(nil)

// consumptionRepo persists the append-only ledger entries. Only INSERT and
// SELECT statements exist here on purpose.
type consumptionRepo struct {
	pool *pgxpool.Pool
}

func NewConsumptionRepo(pool *pgxpool.Pool) *consumptionRepo {
	return &consumptionRepo{pool: pool}
}

func (r *consumptionRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ConsumptionRecord) error {
	const q = `
INSERT INTO consumption_records (id, credit_id, consumer_id, quantity_consumed, metadata, recorded_at)
VALUES ($1,$2,$3,$4,$5::jsonb,$6);`

	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	_, err = execSQL(ctx, r.pool, tx, q, rec.ID, rec.CreditID, rec.ConsumerID, rec.QuantityConsumed, meta, rec.RecordedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *consumptionRepo) ListByCredit(ctx context.Context, tx repository.Tx, creditID string) ([]*model.ConsumptionRecord, error) {
	// ULIDs sort by creation time, so ordering by id is ledger order.
	const q = `
SELECT id, credit_id, consumer_id, quantity_consumed, metadata, recorded_at
  FROM consumption_records
 WHERE credit_id=$1
 ORDER BY id ASC;`

	rows, err := queryRows(ctx, r.pool, tx, q, creditID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.ConsumptionRecord
	for rows.Next() {
		rec := &model.ConsumptionRecord{}
		var meta []byte
		if err := rows.Scan(&rec.ID, &rec.CreditID, &rec.ConsumerID, &rec.QuantityConsumed, &meta, &rec.RecordedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &rec.Metadata); err != nil {
				return nil, domain.ErrReadDatabaseRow
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *consumptionRepo) SumByCredit(ctx context.Context, tx repository.Tx, creditID string) (float64, error) {
	const q = `SELECT COALESCE(SUM(quantity_consumed),0) FROM consumption_records WHERE credit_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, creditID)
	if err != nil {
		return 0, err
	}
	var n float64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *consumptionRepo) SumByUser(ctx context.Context, tx repository.Tx, userID string) (map[string]float64, error) {
	const q = `
SELECT cr.credit_id, SUM(cr.quantity_consumed)
  FROM consumption_records cr
  JOIN credits c ON c.id = cr.credit_id
 WHERE c.user_id=$1
 GROUP BY cr.credit_id;`

	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	m := make(map[string]float64)
	for rows.Next() {
		var creditID string
		var sum float64
		if err := rows.Scan(&creditID, &sum); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		m[creditID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}

func (r *consumptionRepo) TotalConsumed(ctx context.Context, tx repository.Tx) (float64, error) {
	const q = `SELECT COALESCE(SUM(quantity_consumed),0) FROM consumption_records;`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n float64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
