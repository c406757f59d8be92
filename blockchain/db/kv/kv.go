package kv

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/shared/params"
	"github.com/raidoNetwork/ledgerxfr/utils/file"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	// DatabaseFileName is the name of the indexer journal database.
	DatabaseFileName = "journal.db"

	// DefaultLockTimeout is the time to wait for the journal file lock.
	DefaultLockTimeout = 1 * time.Second
)

var log = logrus.WithField("prefix", "journal")

// ErrLocked is returned when another process holds the journal.
var ErrLocked = errors.New("cannot obtain database lock, database may be in use by another process")

// Config for the bolt db kv store.
type Config struct {
	InitialMMapSize int
	LockTimeout     time.Duration
}

// Store defines an implementation of the run journal.
type Store struct {
	db           *bolt.DB
	databasePath string
	ctx          context.Context
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
// The open handle keeps an exclusive lock on the file.
func NewKVStore(ctx context.Context, dirPath string, config *Config) (*Store, error) {
	if config == nil {
		config = &Config{}
	}

	timeout := config.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	if err := file.EnsureDir(dirPath); err != nil {
		return nil, err
	}

	datafile := KVStoreDatafilePath(dirPath)
	boltDB, err := bolt.Open(
		datafile,
		params.IoParams().ReadWritePermissions,
		&bolt.Options{
			Timeout:         timeout,
			InitialMmapSize: config.InitialMMapSize,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrLocked
		}
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		ctx:          ctx,
	}

	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			runsBucket,
			metaBucket,
		)
	}); err != nil {
		_ = boltDB.Close()
		return nil, err
	}

	log.Debugf("Journal opened at %s", datafile)

	return kv, nil
}

// KVStoreDatafilePath is the canonical construction of a full
// database file path from the directory path, so that code outside
// this package can find the full path in a consistent way.
func KVStoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(KVStoreDatafilePath(s.databasePath)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database and releases the lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}
