package table

import (
	"context"

	"github.com/TFMV/icecore/iceberg/catalog"
)

// Transaction accumulates Operations against a Table and branch and
// commits them together (spec.md §4.H). Committing runs every staged
// operation against the table's current metadata, in order, concatenating
// the Requirements and Updates each one produces, then calls the catalog
// exactly once. A failed requirement fails the whole transaction — the
// caller is expected to Reload the table and re-stage its operations
// against the new state, not expect this type to retry on their behalf.
type Transaction struct {
	table      *Table
	branch     string
	operations []Operation
}

// Stage adds op to the set of operations this transaction will execute on
// Commit, in the order they were staged.
func (tx *Transaction) Stage(op Operation) *Transaction {
	tx.operations = append(tx.operations, op)
	return tx
}

// Commit executes every staged operation, in order, against the table's
// current metadata (spec.md §4.H step 3); the updates of earlier
// operations are not applied before later ones run, so every operation
// sees the same metadata. It then commits the combined requirements and
// updates to the catalog in a single call. On success the Transaction's
// Table is updated in place with the resulting metadata. On a failed
// requirement the catalog's Conflict error is returned unchanged — no
// automatic retry.
func (tx *Transaction) Commit(ctx context.Context) (*Table, error) {
	var requirements []catalog.Requirement
	var updates []catalog.Update

	for _, op := range tx.operations {
		reqs, ups, err := op.Execute(ctx, tx.table, tx.branch)
		if err != nil {
			return nil, err
		}
		requirements = append(requirements, reqs...)
		updates = append(updates, ups...)
	}

	metadata, err := tx.table.cat.Commit(ctx, tx.table.identifier, requirements, updates)
	if err != nil {
		tx.table.logger.Warn().Err(err).Str("table", tx.table.identifier).Msg("transaction commit rejected")
		return nil, err
	}

	tx.table.metadata = metadata
	tx.operations = nil
	return tx.table, nil
}
