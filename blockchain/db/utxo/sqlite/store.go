package sqlite

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/raidoNetwork/ledgerxfr/utils/file"
)

const (
	utxoPath  = "utxo"
	utxoFname = "outputs.db"
)

// DatabaseFile returns the sqlite file used for a data directory.
func DatabaseFile(dataDir string) string {
	return filepath.Join(dataDir, utxoPath, utxoFname)
}

func NewStore(cfg *iface.SQLConfig) (*sql.DB, []string, error) {
	if cfg.DataDir == "" {
		return nil, nil, errors.New("empty data directory for sqlite database")
	}

	dbPath := filepath.Join(cfg.DataDir, utxoPath)
	if err := file.EnsureDir(dbPath); err != nil {
		return nil, nil, err
	}

	fpath := DatabaseFile(cfg.DataDir) + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", fpath)
	if err != nil {
		return nil, nil, err
	}

	return db, utxoSchema, nil
}
