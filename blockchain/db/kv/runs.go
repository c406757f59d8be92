package kv

import (
	"encoding/binary"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StartRun saves a new run and assigns its ID.
func (s *Store) StartRun(rec *iface.RunRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(runsBucket)

		id, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		rec.ID = id

		if err := putRun(bkt, rec); err != nil {
			return err
		}

		return tx.Bucket(metaBucket).Put(lastRunKey, runKey(id))
	})
}

// FinishRun overwrites a started run.
func (s *Store) FinishRun(rec *iface.RunRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(runsBucket)
		if bkt.Get(runKey(rec.ID)) == nil {
			return errors.Errorf("run #%d is not found", rec.ID)
		}

		return putRun(bkt, rec)
	})
}

// LastRuns returns up to n latest runs, newest first.
func (s *Store) LastRuns(n int) ([]*iface.RunRecord, error) {
	if n < 0 {
		n = 0
	}

	res := make([]*iface.RunRecord, 0, n)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()

		for k, v := c.Last(); k != nil && len(res) < n; k, v = c.Prev() {
			rec := new(iface.RunRecord)
			if err := json.Unmarshal(v, rec); err != nil {
				return errors.Wrapf(err, "bad run #%d", binary.BigEndian.Uint64(k))
			}

			res = append(res, rec)
		}

		return nil
	})

	return res, err
}

func putRun(bkt *bolt.Bucket, rec *iface.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return bkt.Put(runKey(rec.ID), data)
}

func runKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
