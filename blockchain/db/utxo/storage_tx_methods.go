package utxo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/dbshared"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
)

// InsertOutput stages new output in the current batch.
func (s *Store) InsertOutput(ctx context.Context, uo *types.Output) error {
	if uo == nil {
		return errs.Newf(errs.KindStore, "insert output", "nil output")
	}

	if uo.Value < 0 {
		return errs.Newf(errs.KindStore, "insert output", "negative value of %s", uo.Key())
	}

	tx, err := s.currentTx()
	if err != nil {
		return err
	}

	query := `INSERT INTO ` + dbshared.UtxoTable + ` 
			(
				block_height, 
				block_hash, 
				tx_hash, 
				tx_index, 
				script_type, 
				address, 
				value, 
				spent
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(
		ctx,
		s.rebind(query),
		uo.BlockHeight,
		uo.BlockHash,
		uo.TxHash,
		uo.Index,
		uo.ScriptType,
		uo.Address,
		types.FormatValue(uo.Value),
		false,
	)
	if err != nil {
		return errs.Store("insert output "+uo.Key().String(), err)
	}

	s.staged++

	return nil
}

// MarkSpent stages spending of the unspent output with the given key.
// It returns ErrOutputNotFound or ErrAlreadySpent if output can't be spent.
func (s *Store) MarkSpent(ctx context.Context, key types.OutputKey, spentHeight int64) error {
	tx, err := s.currentTx()
	if err != nil {
		return err
	}

	query := `UPDATE ` + dbshared.UtxoTable + ` SET spent = ?, spent_height = ? WHERE tx_hash = ? AND tx_index = ? AND spent = ?`

	res, err := tx.ExecContext(ctx, s.rebind(query), true, spentHeight, key.TxHash, key.Index, false)
	if err != nil {
		return errs.Store("spend output "+key.String(), err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errs.Store("spend output "+key.String(), err)
	}

	switch rows {
	case 1:
		s.staged++
		return nil
	case 0:
	default:
		return errs.Newf(errs.KindStore, "spend output "+key.String(), "%d rows updated", rows)
	}

	// distinguish a missing output from a spent one
	var spent bool
	query = `SELECT spent FROM ` + dbshared.UtxoTable + ` WHERE tx_hash = ? AND tx_index = ?`
	err = tx.QueryRowContext(ctx, s.rebind(query), key.TxHash, key.Index).Scan(&spent)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errors.Wrap(ErrOutputNotFound, key.String())
	case err != nil:
		return errs.Store("spend output "+key.String(), err)
	default:
		return errors.Wrap(ErrAlreadySpent, key.String())
	}
}

// Staged returns number of mutations in the current batch.
func (s *Store) Staged() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.staged
}

// Commit applies the current batch. Committing without staged mutations does nothing.
func (s *Store) Commit() error {
	s.lock.Lock()
	tx, staged := s.tx, s.staged
	s.tx, s.staged = nil, 0
	s.lock.Unlock()

	if tx == nil {
		return nil
	}

	if err := tx.Commit(); err != nil {
		return errs.Store("commit", err)
	}

	log.Debugf("OutputDB.Commit: %d mutations committed.", staged)

	return nil
}

// Rollback discards the current batch.
func (s *Store) Rollback() error {
	s.lock.Lock()
	tx, staged := s.tx, s.staged
	s.tx, s.staged = nil, 0
	s.lock.Unlock()

	if tx == nil {
		return nil
	}

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return errs.Store("rollback", err)
	}

	log.Debugf("OutputDB.Rollback: %d mutations discarded.", staged)

	return nil
}

// currentTx returns the open batch transaction, starting a new one if needed.
func (s *Store) currentTx() (*sql.Tx, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.canCreateTx {
		return nil, errs.Store("begin", ErrClosed)
	}

	if s.tx != nil {
		return s.tx, nil
	}

	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return nil, errs.Store("begin", err)
	}

	s.tx = tx

	return tx, nil
}

// finishWriting prepare database for closing
func (s *Store) finishWriting() {
	s.lock.Lock()
	s.canCreateTx = false
	s.lock.Unlock()
}
