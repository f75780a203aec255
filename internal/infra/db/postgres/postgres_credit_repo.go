package postgres

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/domain/model"
	"listing-credit-ledger/internal/domain/ports/repository"
)

// Ensure creditRepo implements repository.CreditRepository
var _ repository.CreditRepository = (*creditRepo)(nil)

type creditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) *creditRepo {
	return &creditRepo{pool: pool}
}

func (r *creditRepo) Save(ctx context.Context, tx repository.Tx, c *model.Credit) error {
	// Plain insert: credits are immutable after issuance.
	const q = `
INSERT INTO credits (id, type_sku, user_id, quantity, expiration, payment_id, is_paid, issued_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.TypeSKU, c.UserID, c.Quantity, c.Expiration, c.PaymentID, c.IsPaid, c.IssuedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *creditRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Credit, error) {
	const q = `
SELECT id, type_sku, user_id, quantity, expiration, payment_id, is_paid, issued_at
  FROM credits
 WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *creditRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Credit, error) {
	const q = `
SELECT id, type_sku, user_id, quantity, expiration, payment_id, is_paid, issued_at
  FROM credits
 WHERE user_id=$1
 ORDER BY issued_at ASC;`

	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Credit
	for rows.Next() {
		c := &model.Credit{}
		if err := rows.Scan(&c.ID, &c.TypeSKU, &c.UserID, &c.Quantity, &c.Expiration, &c.PaymentID, &c.IsPaid, &c.IssuedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// Lock takes a transaction-scoped advisory lock keyed on the credit id.
// Two consumptions of the same credit serialize on it; different credits
// hash to different keys and proceed independently. Must run inside a tx so
// the lock releases on commit/rollback.
func (r *creditRepo) Lock(ctx context.Context, tx repository.Tx, creditID string) error {
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		return domain.ErrInvalidExecContext
	}
	if _, err := pgtx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, hashToInt64(creditID)); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *creditRepo) UsersDueForRefill(ctx context.Context, tx repository.Tx, sku string, cutoff time.Time) ([]string, error) {
	const q = `
SELECT user_id
  FROM credits
 WHERE type_sku=$1
 GROUP BY user_id
HAVING MAX(issued_at) <= $2;`

	rows, err := queryRows(ctx, r.pool, tx, q, sku, cutoff)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *creditRepo) CountByType(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `SELECT type_sku, COUNT(*) FROM credits GROUP BY type_sku;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	m := make(map[string]int)
	for rows.Next() {
		var sku string
		var c int
		if err := rows.Scan(&sku, &c); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		m[sku] = c
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}

func (r *creditRepo) TotalGranted(ctx context.Context, tx repository.Tx) (float64, error) {
	const q = `SELECT COALESCE(SUM(quantity),0) FROM credits;`
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

func (r *creditRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...interface{}) (*model.Credit, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	c := &model.Credit{}
	if err := row.Scan(&c.ID, &c.TypeSKU, &c.UserID, &c.Quantity, &c.Expiration, &c.PaymentID, &c.IsPaid, &c.IssuedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}
