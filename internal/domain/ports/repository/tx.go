package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres). Repositories must accept NoTX and fall back to the
// non-transactional path.
type Tx interface{}

// NoTX marks a call that runs outside any transaction.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via tx. Keeping the handle opaque
// keeps use-case signatures free of storage types while still letting
// repositories run tx-bound statements (advisory locks, SELECT ... FOR
// UPDATE) when one is present.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
