package mocks

import (
	"context"

	"github.com/phrazzld/kanban-api/internal/store"
)

// MockTxRunner implements store.TxRunner on a MemoryDB. It passes a nil
// *sql.Tx to the function, which the mock stores ignore, and restores the
// MemoryDB when the function returns an error.
type MockTxRunner struct {
	db *MemoryDB

	// BeginErr, when set, is returned instead of running the function.
	BeginErr error

	// Calls counts RunInTx invocations.
	Calls int
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements store.TxRunner.
func (r *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	r.Calls++
	if r.BeginErr != nil {
		return r.BeginErr
	}

	snap := r.db.snapshot()
	if err := fn(ctx, nil); err != nil {
		r.db.restore(snap)
		return err
	}
	return nil
}
