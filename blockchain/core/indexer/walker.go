package indexer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/classifier"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo"
	"github.com/raidoNetwork/ledgerxfr/shared/common"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "indexer")

var ErrWalkerUsed = errors.New("walker has already run")

// ChainSource gives decoded blocks by height.
type ChainSource interface {
	BlockCount(ctx context.Context) (int64, error)
	BlockHash(ctx context.Context, height int64) (string, error)
	Block(ctx context.Context, hash string) (*types.Block, error)
}

type Config struct {
	// Ceiling is the last height to index. Zero means the node tip.
	Ceiling int64
	// CheckpointInterval is the commit period in block heights.
	CheckpointInterval int64
	ShowStat           bool
}

// Progress is reported after each commit.
type Progress struct {
	Height  int64
	Target  int64
	Blocks  int64
	Created int64
	Spent   int64
	Elapsed time.Duration
}

type ProgressFunc func(Progress)

// Result describes a finished or aborted walk.
type Result struct {
	Resume        int64
	Target        int64
	LastCommitted int64
	Blocks        int64
	Created       int64
	Spent         int64
	Commits       int64
}

type Option func(*Walker)

// WithProgress sets the callback invoked after every commit.
func WithProgress(fn ProgressFunc) Option {
	return func(w *Walker) {
		w.onCommit = fn
	}
}

// Walker applies ledger blocks to the output store in height order.
type Walker struct {
	src ChainSource
	db  iface.OutputStorage
	cfg Config
	fsm *fsm.FSM

	onCommit ProgressFunc
	start    time.Time
	res      Result

	// applied and target are read by other goroutines while Run works.
	applied atomic.Int64
	target  atomic.Int64
}

func NewWalker(src ChainSource, db iface.OutputStorage, cfg *Config, opts ...Option) (*Walker, error) {
	if src == nil || db == nil {
		return nil, errors.New("walker needs chain source and output storage")
	}

	c := Config{CheckpointInterval: common.DefaultCheckpointInterval}
	if cfg != nil {
		c = *cfg
	}

	if c.CheckpointInterval <= 0 {
		return nil, errors.Errorf("bad checkpoint interval %d", c.CheckpointInterval)
	}

	if c.Ceiling < 0 {
		return nil, errors.Errorf("bad ceiling height %d", c.Ceiling)
	}

	w := &Walker{
		src: src,
		db:  db,
		cfg: c,
		fsm: newStateMachine(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// State returns the current walker state.
func (w *Walker) State() string {
	return w.fsm.Current()
}

// Position returns the last applied height and the target of the running walk.
// Applied heights above the last checkpoint are not durable yet.
func (w *Walker) Position() (applied, target int64) {
	return w.applied.Load(), w.target.Load()
}

// Run catches the output store up to the target height. On error the uncommitted
// batch is rolled back and the returned result shows the last durable height.
// A Walker runs once.
func (w *Walker) Run(ctx context.Context) (*Result, error) {
	if w.State() != StateIdle {
		return nil, ErrWalkerUsed
	}

	w.start = time.Now()

	resume, err := w.db.MaxHeight(ctx)
	if err != nil {
		return w.fail(errors.Wrap(err, "resume height"))
	}

	tip, err := w.src.BlockCount(ctx)
	if err != nil {
		return w.fail(errors.Wrap(err, "node tip"))
	}

	target := tip
	if w.cfg.Ceiling > 0 && w.cfg.Ceiling < tip {
		target = w.cfg.Ceiling
	}

	w.res = Result{Resume: resume, Target: target, LastCommitted: resume}
	w.applied.Store(resume)
	w.target.Store(target)
	committedHeight.Set(float64(resume))
	targetHeight.Set(float64(target))

	if resume >= target {
		log.Infof("Output database is up to date at height %d (target %d).", resume, target)
		if err := w.event(EventFinish); err != nil {
			return w.fail(err)
		}
		return w.result(), nil
	}

	log.Infof("Start indexing from height %d to %d.", resume+1, target)

	if err := w.event(EventStart); err != nil {
		return w.fail(err)
	}

	for height := resume + 1; height <= target; height++ {
		if err := ctx.Err(); err != nil {
			return w.fail(errors.Wrapf(err, "interrupted before height %d", height))
		}

		start := time.Now()

		block, err := w.fetch(ctx, height)
		if err != nil {
			return w.fail(err)
		}

		if err := w.event(EventApply); err != nil {
			return w.fail(err)
		}

		if err := w.applyBlock(ctx, block); err != nil {
			return w.fail(errors.Wrapf(err, "height %d block %s", block.Height, block.Hash))
		}

		blockApplyTime.Observe(float64(time.Since(start).Milliseconds()))
		w.applied.Store(height)

		if height%w.cfg.CheckpointInterval != 0 && height != target {
			if err := w.event(EventNext); err != nil {
				return w.fail(err)
			}
			continue
		}

		if err := w.event(EventCheckpoint); err != nil {
			return w.fail(err)
		}

		if err := w.commit(height); err != nil {
			return w.fail(errors.Wrapf(err, "checkpoint at height %d", height))
		}

		if height == target {
			break
		}

		if err := w.event(EventNext); err != nil {
			return w.fail(err)
		}
	}

	if err := w.event(EventFinish); err != nil {
		return w.fail(err)
	}

	log.Infof("Indexing finished at height %d: %d blocks, %d outputs created, %d spent in %s.",
		w.res.LastCommitted, w.res.Blocks, w.res.Created, w.res.Spent, time.Since(w.start).Round(time.Millisecond))

	return w.result(), nil
}

// fetch returns decoded block at height and checks the node answered for it.
func (w *Walker) fetch(ctx context.Context, height int64) (*types.Block, error) {
	hash, err := w.src.BlockHash(ctx, height)
	if err != nil {
		return nil, errors.Wrapf(err, "height %d", height)
	}

	block, err := w.src.Block(ctx, hash)
	if err != nil {
		return nil, errors.Wrapf(err, "height %d block %s", height, hash)
	}

	if block.Height != height || block.Hash != hash {
		return nil, errs.Newf(errs.KindTransport, "getblock", "node returned block %d %s for height %d %s", block.Height, block.Hash, height, hash)
	}

	return block, nil
}

// applyBlock stages all block mutations in node order.
func (w *Walker) applyBlock(ctx context.Context, block *types.Block) error {
	var created, spent int64

	for _, tx := range block.Transactions {
		muts, err := classifier.Classify(block.Height, block.Hash, tx)
		if err != nil {
			return err
		}

		for _, m := range muts {
			switch m.Kind {
			case classifier.MarkSpent:
				if err := w.db.MarkSpent(ctx, m.Key, m.SpentHeight); err != nil {
					return errors.Wrapf(spendError(err), "tx %s", tx.Hash)
				}
				spent++
			case classifier.Create:
				if err := w.db.InsertOutput(ctx, m.Output); err != nil {
					return errors.Wrapf(err, "tx %s", tx.Hash)
				}
				created++
			}
		}
	}

	w.res.Blocks++
	w.res.Created += created
	w.res.Spent += spent

	blocksProcessed.Inc()
	outputsCreated.Add(float64(created))
	outputsSpent.Add(float64(spent))

	return nil
}

// spendError turns a spend of a missing or spent output into a ledger level error.
func spendError(err error) error {
	if errors.Is(err, utxo.ErrOutputNotFound) || errors.Is(err, utxo.ErrAlreadySpent) {
		return errs.Classification("spend", err)
	}

	return err
}

func (w *Walker) commit(height int64) error {
	start := time.Now()

	if err := w.db.Commit(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	commitTime.Observe(float64(elapsed.Milliseconds()))
	committedHeight.Set(float64(height))

	w.res.LastCommitted = height
	w.res.Commits++

	if w.cfg.ShowStat {
		log.Infof("Commit height %d in %s.", height, common.StatFmt(elapsed))
	}

	log.Infof("Committed height %d of %d (%d outputs created, %d spent).", height, w.res.Target, w.res.Created, w.res.Spent)

	if w.onCommit != nil {
		w.onCommit(Progress{
			Height:  height,
			Target:  w.res.Target,
			Blocks:  w.res.Blocks,
			Created: w.res.Created,
			Spent:   w.res.Spent,
			Elapsed: time.Since(w.start),
		})
	}

	return nil
}

// fail discards the uncommitted batch and moves walker to the terminal state.
func (w *Walker) fail(err error) (*Result, error) {
	if errb := w.db.Rollback(); errb != nil {
		log.Errorf("Rollback error: %s", errb)
	}

	if w.fsm.Can(EventFail) {
		if errf := w.event(EventFail); errf != nil {
			log.Errorf("Walker state error: %s", errf)
		}
	}

	walkerFailures.WithLabelValues(errs.KindOf(err).String()).Inc()
	log.WithError(err).Errorf("Indexing aborted, last committed height %d.", w.res.LastCommitted)

	return w.result(), err
}

func (w *Walker) event(name string) error {
	return w.fsm.Event(context.Background(), name)
}

func (w *Walker) result() *Result {
	res := w.res
	return &res
}
