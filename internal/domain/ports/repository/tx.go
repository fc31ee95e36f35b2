package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres); repositories
// must accept a nil handle and fall back to their pool.
type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside one database transaction. Every use
// case performs its reads and its single batch of writes within one call.
//
// LockKey takes a transaction-scoped exclusive lock on an arbitrary
// string key (pg_advisory_xact_lock in Postgres). Use cases serialize
// their read-then-write invariant checks on it: one active subscription
// per user, one check-in per user/club/local-day.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
	LockKey(ctx context.Context, tx Tx, key string) error
}
