package repositories

import "context"

// TxFn runs within a transaction; any error rolls the whole scope back.
type TxFn func(ctx context.Context) error

// TransactionManager wraps multi-row mutations in an atomic scope. Cascading
// deletes depend on this: a partial cascade is never a valid terminal state.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
