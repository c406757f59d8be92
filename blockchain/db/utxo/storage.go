package utxo

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/dbshared"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/mysql"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/postgres"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/sqlite"
	"github.com/raidoNetwork/ledgerxfr/shared/common"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "OutputDB")

var (
	ErrOutputNotFound = errors.New("output not found")
	ErrAlreadySpent   = errors.New("output already spent")
	ErrClosed         = errors.New("Database is closing.")
)

const outputColumns = `block_height, block_hash, tx_hash, tx_index, script_type, address, value, spent, spent_height`

func NewStore(ctx context.Context, dbType string, config *iface.SQLConfig) (*Store, error) {
	var db *sql.DB
	var err error
	var schema []string

	dialect := dbshared.Dialect(dbType)
	switch dialect {
	case dbshared.MySQL:
		db, schema, err = mysql.NewStore(config)
	case dbshared.SQLite:
		db, schema, err = sqlite.NewStore(config)
	case dbshared.Postgres:
		db, schema, err = postgres.NewStore(config)
	default:
		return nil, errs.Newf(errs.KindStore, "open", "unknown database type %s", dbType)
	}

	if err != nil {
		return nil, errs.Store("open "+dbType, err)
	}

	str := NewStoreFromDB(ctx, db, dialect, config)
	str.schema = schema

	if err := str.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return str, nil
}

// NewStoreFromDB wraps an already opened database handle. Schema statements
// are not known for it, so EnsureSchema does nothing until they're set by NewStore.
func NewStoreFromDB(ctx context.Context, db *sql.DB, dialect dbshared.Dialect, config *iface.SQLConfig) *Store {
	if config == nil {
		config = &iface.SQLConfig{}
	}

	return &Store{
		db:           db,
		dialect:      dialect,
		databasePath: config.DataDir,
		ctx:          ctx,
		cfg:          config,
		canCreateTx:  true,
	}
}

type Store struct {
	db           *sql.DB
	dialect      dbshared.Dialect
	databasePath string
	ctx          context.Context
	cfg          *iface.SQLConfig

	// current batch, opened on first mutation
	tx     *sql.Tx
	staged int

	canCreateTx bool
	lock        sync.Mutex

	schema []string
}

// Close rolls back the open batch and closes database connections.
func (s *Store) Close() error {
	s.finishWriting()

	if err := s.Rollback(); err != nil {
		log.Errorf("Rollback on close failed: %s", err)
	}

	return s.db.Close()
}

// Engine returns the database dialect name.
func (s *Store) Engine() string {
	return string(s.dialect)
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

// EnsureSchema generates needed database structure if not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errs.Store("create schema", err)
		}
	}

	return nil
}

// MaxHeight searches the max creating height among committed outputs.
func (s *Store) MaxHeight(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(block_height), 0) FROM ` + dbshared.UtxoTable

	var num int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&num); err != nil {
		return 0, errs.Store("max height", err)
	}

	return num, nil
}

// GetOutput returns the committed output with the given key.
func (s *Store) GetOutput(ctx context.Context, key types.OutputKey) (*types.Output, error) {
	list, err := s.getOutputsList(ctx, `WHERE tx_hash = ? AND tx_index = ?`, key.TxHash, key.Index)
	if err != nil {
		return nil, err
	}

	if len(list) == 0 {
		return nil, errors.Wrap(ErrOutputNotFound, key.String())
	}

	return list[0], nil
}

// FindAllUTxO find all address unspent outputs
func (s *Store) FindAllUTxO(ctx context.Context, addr string) ([]*types.Output, error) {
	return s.getOutputsList(ctx, `WHERE address = ? AND spent = ? ORDER BY block_height, tx_hash, tx_index`, addr, false)
}

func (s *Store) Stats(ctx context.Context) (*iface.Stats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(CASE WHEN spent = ? THEN 0 ELSE 1 END), 0), COALESCE(MAX(block_height), 0) FROM ` + dbshared.UtxoTable

	st := new(iface.Stats)
	err := s.db.QueryRowContext(ctx, s.rebind(query), true).Scan(&st.Outputs, &st.Unspent, &st.MaxHeight)
	if err != nil {
		return nil, errs.Store("stats", err)
	}

	return st, nil
}

// AddressBalances sums unspent standard outputs per address. Sums are computed
// on exact satoshi values, not by the database.
func (s *Store) AddressBalances(ctx context.Context) ([]*types.AddressBalance, error) {
	query := `SELECT address, value FROM ` + dbshared.UtxoTable + ` WHERE spent = ? AND script_type IN (?, ?, ?) ORDER BY address`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), false, common.PubKeyHashScript, common.PubKeyScript, common.ScriptHashScript)
	if err != nil {
		return nil, errs.Store("address balances", err)
	}
	defer rows.Close()

	res := make([]*types.AddressBalance, 0)
	var cur *types.AddressBalance
	var sum btcutil.Amount

	flush := func() {
		if cur != nil {
			cur.Balance = types.FormatValue(sum)
			res = append(res, cur)
		}
	}

	for rows.Next() {
		var addr, raw string
		if err := rows.Scan(&addr, &raw); err != nil {
			return nil, errs.Store("address balances", err)
		}

		val, err := types.ParseValue(raw)
		if err != nil {
			return nil, errs.Store("address balances", errors.Wrapf(err, "address %s", addr))
		}

		if cur == nil || cur.Address != addr {
			flush()
			cur = &types.AddressBalance{Address: addr}
			sum = 0
		}

		sum += val
		cur.Outputs++
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("address balances", err)
	}

	flush()

	return res, nil
}

// Verify counts rows that break the spend ordering invariants.
func (s *Store) Verify(ctx context.Context) (*iface.VerifyReport, error) {
	rep := new(iface.VerifyReport)

	query := `SELECT COUNT(*) FROM ` + dbshared.UtxoTable + ` WHERE spent = ? AND (spent_height IS NULL OR spent_height < block_height)`
	if err := s.db.QueryRowContext(ctx, s.rebind(query), true).Scan(&rep.FutureSpends); err != nil {
		return nil, errs.Store("verify", err)
	}

	query = `SELECT COUNT(*) FROM ` + dbshared.UtxoTable + ` WHERE spent = ? AND spent_height IS NOT NULL`
	if err := s.db.QueryRowContext(ctx, s.rebind(query), false).Scan(&rep.UnspentWithHeight); err != nil {
		return nil, errs.Store("verify", err)
	}

	return rep, nil
}

// getOutputsList return outputs list with given query and params.
func (s *Store) getOutputsList(ctx context.Context, query string, params ...interface{}) ([]*types.Output, error) {
	start := time.Now()
	prefix := `SELECT ` + outputColumns + ` FROM ` + dbshared.UtxoTable + ` `
	rows, err := s.db.QueryContext(ctx, s.rebind(prefix+query), params...)
	if err != nil {
		return nil, errs.Store("query outputs", err)
	}

	defer rows.Close()

	if s.cfg.ShowFullStat {
		log.Debugf("Get query result object in %s.", common.StatFmt(time.Since(start)))
	}

	uoArr := make([]*types.Output, 0)

	start = time.Now()
	for rows.Next() {
		uo, err := scanOutput(rows)
		if err != nil {
			return nil, errs.Store("query outputs", err)
		}

		uoArr = append(uoArr, uo)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("query outputs", err)
	}

	if s.cfg.ShowFullStat {
		log.Debugf("Get query parsed result in %s.", common.StatFmt(time.Since(start)))
	}

	return uoArr, nil
}

func scanOutput(rows *sql.Rows) (*types.Output, error) {
	var value string
	var spentHeight sql.NullInt64

	uo := new(types.Output)
	err := rows.Scan(&uo.BlockHeight, &uo.BlockHash, &uo.TxHash, &uo.Index, &uo.ScriptType, &uo.Address, &value, &uo.Spent, &spentHeight)
	if err != nil {
		return nil, err
	}

	uo.Value, err = types.ParseValue(value)
	if err != nil {
		return nil, errors.Wrapf(err, "output %s", uo.Key())
	}

	if spentHeight.Valid {
		uo.SpentHeight = spentHeight.Int64
	}

	return uo, nil
}

func (s *Store) rebind(query string) string {
	return dbshared.Rebind(s.dialect, query)
}
