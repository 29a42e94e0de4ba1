// Package ledger tracks the items of a single conversion run in an in-memory
// SQLite database. The ledger exists for observability during the run and for
// the final summary; it is intentionally not persisted across processes.
package ledger
