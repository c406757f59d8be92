package iface

import (
	"context"
	"io"
	"time"

	"github.com/raidoNetwork/ledgerxfr/shared/types"
)

// SQLConfig describes the output database connection.
type SQLConfig struct {
	// DataDir holds the sqlite database file.
	DataDir string
	// ConfigPath is a dotenv file with DB_USER, DB_PASS, DB_HOST, DB_PORT and DB_NAME.
	ConfigPath string
	// ShowFullStat enables query timing logs.
	ShowFullStat bool
}

// OutputStorage is the output table used by the chain walker. Mutations are
// staged until Commit and discarded by Rollback.
type OutputStorage interface {
	// EnsureSchema creates tables and indexes if they don't exist.
	EnsureSchema(ctx context.Context) error

	// InsertOutput stages a new output.
	InsertOutput(ctx context.Context, uo *types.Output) error

	// MarkSpent stages the spend of an existing unspent output by a block at spentHeight.
	MarkSpent(ctx context.Context, key types.OutputKey, spentHeight int64) error

	// MaxHeight returns the maximum committed creating height, 0 for an empty table.
	MaxHeight(ctx context.Context) (int64, error)

	// Commit atomically applies all staged mutations.
	Commit() error

	// Rollback discards all staged mutations.
	Rollback() error
}

// OutputReader are read only queries over committed outputs.
type OutputReader interface {
	GetOutput(ctx context.Context, key types.OutputKey) (*types.Output, error)
	FindAllUTxO(ctx context.Context, addr string) ([]*types.Output, error)
	Stats(ctx context.Context) (*Stats, error)
	AddressBalances(ctx context.Context) ([]*types.AddressBalance, error)
	Verify(ctx context.Context) (*VerifyReport, error)
}

// OutputDatabase is the complete output store.
type OutputDatabase interface {
	io.Closer

	OutputStorage
	OutputReader

	Engine() string
}

// Stats summarizes the output table.
type Stats struct {
	Outputs   int64 `json:"outputs"`
	Unspent   int64 `json:"unspent"`
	MaxHeight int64 `json:"maxHeight"`
}

// VerifyReport counts rows breaking the output invariants.
type VerifyReport struct {
	// FutureSpends are spent rows whose spending height is below the creating height.
	FutureSpends int64 `json:"futureSpends"`
	// UnspentWithHeight are unspent rows carrying a spending height.
	UnspentWithHeight int64 `json:"unspentWithHeight"`
}

// Ok reports whether no violations were found.
func (r *VerifyReport) Ok() bool {
	return r.FutureSpends == 0 && r.UnspentWithHeight == 0
}

// RunRecord is one indexer invocation kept in the run journal.
type RunRecord struct {
	ID            uint64    `json:"id"`
	Started       time.Time `json:"started"`
	Finished      time.Time `json:"finished"`
	Resume        int64     `json:"resume"`
	Target        int64     `json:"target"`
	LastCommitted int64     `json:"lastCommitted"`
	Created       int64     `json:"created"`
	Spent         int64     `json:"spent"`
	Error         string    `json:"error,omitempty"`
}

// RunJournal stores run records. It never takes part in resume decisions.
type RunJournal interface {
	io.Closer

	StartRun(rec *RunRecord) error
	FinishRun(rec *RunRecord) error
	LastRuns(n int) ([]*RunRecord, error)
	DatabasePath() string
}
