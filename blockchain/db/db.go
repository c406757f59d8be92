package db

import (
	"context"

	"github.com/raidoNetwork/ledgerxfr/blockchain/db/kv"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo"
)

// NewUTxODB initializes the output store of engine dbType.
func NewUTxODB(ctx context.Context, dbType string, config *SQLConfig) (OutputDatabase, error) {
	s, err := utxo.NewStore(ctx, dbType, config)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewRunJournal opens the run journal in dirPath. Opening takes an exclusive
// lock on the journal file so only one indexer works with a data directory.
func NewRunJournal(ctx context.Context, dirPath string, config *kv.Config) (RunJournal, error) {
	s, err := kv.NewKVStore(ctx, dirPath, config)
	if err != nil {
		return nil, err
	}

	return s, nil
}
