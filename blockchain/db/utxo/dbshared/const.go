package dbshared

import "github.com/jmoiron/sqlx"

const (
	UtxoTable        = "outputs"
	TxHashIndex      = "tx_hash_index"
	BlockHeightIndex = "block_height_index"
	AddrSpentIndex   = "address_spent_index"
)

// Dialect is a supported SQL engine.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// BindType returns the sqlx placeholder style of d.
func (d Dialect) BindType() int {
	if d == Postgres {
		return sqlx.DOLLAR
	}

	return sqlx.QUESTION
}

// Rebind rewrites ? placeholders of query into the placeholder style of d.
func Rebind(d Dialect, query string) string {
	return sqlx.Rebind(d.BindType(), query)
}
