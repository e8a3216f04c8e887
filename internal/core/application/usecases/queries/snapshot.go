package queries

import (
	"database/sql"
)

// readOnlySnapshot gives multi-statement reads one consistent view.
func readOnlySnapshot() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}
