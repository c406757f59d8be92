package node

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/core/indexer"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/kv"
	"github.com/raidoNetwork/ledgerxfr/blockchain/rpc"
	"github.com/raidoNetwork/ledgerxfr/metrics"
	"github.com/raidoNetwork/ledgerxfr/shared/version"
	"github.com/raidoNetwork/ledgerxfr/utils/async"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "node")

const defaultStatusInterval = 30 * time.Second

// IndexerNode handles the lifecycle of the indexer: the data directory lock,
// the output database, the node connection and the metrics server.
type IndexerNode struct {
	cfg    *Config
	ctx    context.Context
	cancel context.CancelFunc
	lock   sync.RWMutex
	stop   chan struct{} // Channel to wait for termination notifications.
	closed bool

	journal db.RunJournal
	outDB   db.OutputDatabase
	client  *rpc.Client
	metrics *metrics.Service

	walker  *indexer.Walker
	lastErr error
}

// New creates a writer node. It takes the data directory lock, so only one
// writer works with a data directory at a time.
func New(ctx context.Context, cfg *Config) (*IndexerNode, error) {
	n := newNode(ctx, cfg)

	journal, err := db.NewRunJournal(n.ctx, cfg.JournalDir(), &kv.Config{LockTimeout: cfg.LockTimeout})
	if err != nil {
		n.Close()
		return nil, err
	}
	n.journal = journal

	if err := n.startDB(); err != nil {
		n.Close()
		return nil, err
	}

	if err := n.startClient(); err != nil {
		n.Close()
		return nil, err
	}

	if cfg.MonitoringAddr != "" {
		n.metrics = metrics.New(cfg.MonitoringAddr, n)
		n.metrics.Start()
	}

	return n, nil
}

// NewReader creates a node for read only commands. It doesn't take the lock.
func NewReader(ctx context.Context, cfg *Config, withClient bool) (*IndexerNode, error) {
	n := newNode(ctx, cfg)

	if err := n.startDB(); err != nil {
		n.Close()
		return nil, err
	}

	if withClient {
		if err := n.startClient(); err != nil {
			n.Close()
			return nil, err
		}
	}

	return n, nil
}

func newNode(ctx context.Context, cfg *Config) *IndexerNode {
	ctx, cancel := context.WithCancel(ctx)

	return &IndexerNode{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
	}
}

func (n *IndexerNode) startDB() error {
	log.WithField("engine", n.cfg.DBType).WithField("database-path", n.cfg.DataDir).Info("Checking DB")

	outDB, err := db.NewUTxODB(n.ctx, n.cfg.DBType, &n.cfg.SQL)
	if err != nil {
		return err
	}

	n.outDB = outDB
	return nil
}

func (n *IndexerNode) startClient() error {
	client, err := rpc.New(n.cfg.RPC)
	if err != nil {
		return err
	}

	n.client = client
	return nil
}

// Start runs the sync and waits for it, cancelling on SIGINT or SIGTERM.
func (n *IndexerNode) Start() (*indexer.Result, error) {
	log.WithField("Version", version.Version()).Info("Starting UTXO indexer")

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)

		select {
		case <-sigc:
		case <-n.stop:
			return
		}

		log.Info("Got interrupt, discarding blocks after the last checkpoint...")
		n.cancel()

		for i := 10; i > 0; i-- {
			select {
			case <-sigc:
			case <-n.stop:
				return
			}
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the indexer")
	}()

	defer n.Close()

	return n.Sync()
}

// Sync opens the node connection and walks to the target height. The run is
// recorded in the journal.
func (n *IndexerNode) Sync() (*indexer.Result, error) {
	if n.journal == nil {
		return nil, errors.New("sync needs a writer node")
	}

	rec := &iface.RunRecord{Started: time.Now().UTC()}
	if err := n.journal.StartRun(rec); err != nil {
		log.Errorf("Can't save run to the journal: %s", err)
	}

	res, err := n.sync()

	rec.Finished = time.Now().UTC()
	if res != nil {
		rec.Resume = res.Resume
		rec.Target = res.Target
		rec.LastCommitted = res.LastCommitted
		rec.Created = res.Created
		rec.Spent = res.Spent
	}
	if err != nil {
		rec.Error = err.Error()
	}

	if errj := n.journal.FinishRun(rec); errj != nil {
		log.Errorf("Can't save run to the journal: %s", errj)
	}

	return res, err
}

func (n *IndexerNode) sync() (*indexer.Result, error) {
	if err := n.client.Open(n.ctx); err != nil {
		n.setErr(err)
		return nil, err
	}

	w, err := indexer.NewWalker(n.client, n.outDB, &n.cfg.Walker)
	if err != nil {
		return nil, err
	}

	n.lock.Lock()
	n.walker = w
	n.lock.Unlock()

	interval := n.cfg.StatusInterval
	if interval <= 0 {
		interval = defaultStatusInterval
	}

	statusCtx, stopStatus := context.WithCancel(n.ctx)
	done := async.WithInterval(statusCtx, interval, func() {
		applied, target := w.Position()
		log.WithField("state", w.State()).Infof("Sync at height %d of %d.", applied, target)
	})

	res, err := w.Run(n.ctx)
	stopStatus()
	<-done

	n.setErr(err)

	return res, err
}

// Tip returns the node block count.
func (n *IndexerNode) Tip() (int64, error) {
	if n.client == nil {
		return 0, errors.New("node has no RPC client")
	}

	if err := n.client.Open(n.ctx); err != nil {
		return 0, err
	}

	return n.client.BlockCount(n.ctx)
}

// OutputDB returns the output database.
func (n *IndexerNode) OutputDB() db.OutputDatabase {
	return n.outDB
}

// LastRuns reads the journal. A reader node opens it for the call and fails
// with kv.ErrLocked while a writer is running.
func (n *IndexerNode) LastRuns(limit int) ([]*iface.RunRecord, error) {
	if n.journal != nil {
		return n.journal.LastRuns(limit)
	}

	j, err := db.NewRunJournal(n.ctx, n.cfg.JournalDir(), &kv.Config{LockTimeout: 100 * time.Millisecond})
	if err != nil {
		return nil, err
	}
	defer j.Close()

	return j.LastRuns(limit)
}

// Statuses reports component health for the metrics service.
func (n *IndexerNode) Statuses() map[string]error {
	n.lock.RLock()
	defer n.lock.RUnlock()

	st := map[string]error{
		"walker": n.lastErr,
	}

	if n.metrics != nil {
		st["metrics"] = n.metrics.Status()
	}

	return st
}

// State returns the walker state, idle before the sync starts.
func (n *IndexerNode) State() string {
	n.lock.RLock()
	defer n.lock.RUnlock()

	if n.walker == nil {
		return indexer.StateIdle
	}

	return n.walker.State()
}

func (n *IndexerNode) setErr(err error) {
	n.lock.Lock()
	n.lastErr = err
	n.lock.Unlock()
}

// Close handles graceful shutdown of the system.
func (n *IndexerNode) Close() {
	n.lock.Lock()
	if n.closed {
		n.lock.Unlock()
		return
	}
	n.closed = true
	n.lock.Unlock()

	log.Info("Stopping UTXO indexer")

	if n.metrics != nil {
		if err := n.metrics.Stop(); err != nil {
			log.Errorf("Failed to stop metrics server: %v", err)
		}
	}

	if n.client != nil {
		if err := n.client.Close(); err != nil {
			log.Errorf("Failed to close RPC client: %v", err)
		}
	}

	if n.outDB != nil {
		if err := n.outDB.Close(); err != nil {
			log.Errorf("Failed to close UTxO database: %v", err)
		}
	}

	if n.journal != nil {
		if err := n.journal.Close(); err != nil {
			log.Errorf("Failed to close journal: %v", err)
		}
	}

	n.cancel()
	close(n.stop)
}
