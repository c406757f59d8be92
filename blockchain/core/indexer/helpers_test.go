package indexer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo"
	"github.com/raidoNetwork/ledgerxfr/shared/common"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
	"github.com/stretchr/testify/require"
)

const coinbaseValue = 50 * btcutil.SatoshiPerBitcoin

func hash(n int64) string {
	return fmt.Sprintf("%064x", n)
}

func blockHash(height int64) string {
	return hash(1_000_000 + height)
}

func coinbaseHash(height int64) string {
	return hash(height)
}

func minerAddr(height int64) string {
	return fmt.Sprintf("miner%d", height)
}

// fakeChain is an in-memory ledger where every block pays its coinbase to minerAddr(height).
type fakeChain struct {
	mu     sync.Mutex
	tip    int64
	blocks map[int64]*types.Block

	// failHash makes BlockHash at the height fail with a transport error.
	failHash map[int64]int
	// wrongHash makes Block return a block with another hash.
	wrongHash map[int64]bool
	// onHash is called before BlockHash answers.
	onHash func(height int64)

	hashCalls int
}

func newFakeChain(tip int64) *fakeChain {
	c := &fakeChain{
		tip:       tip,
		blocks:    make(map[int64]*types.Block),
		failHash:  make(map[int64]int),
		wrongHash: make(map[int64]bool),
	}

	for h := int64(0); h <= tip; h++ {
		c.blocks[h] = &types.Block{
			Height:       h,
			Hash:         blockHash(h),
			Transactions: []*types.Tx{coinbase(h)},
		}
	}

	return c
}

func coinbase(height int64) *types.Tx {
	return &types.Tx{
		Hash:   coinbaseHash(height),
		Inputs: []*types.Input{{Coinbase: true}},
		Outputs: []*types.TxOut{{
			N:          0,
			Value:      coinbaseValue,
			ScriptType: common.PubKeyHashScript,
			Addresses:  []string{minerAddr(height)},
		}},
	}
}

// addSpend appends to block at height a tx spending the coinbase of block from.
func (c *fakeChain) addSpend(height, from int64, outs ...*types.TxOut) *types.Tx {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := &types.Tx{
		Hash:    hash(500_000 + height),
		Inputs:  []*types.Input{{TxHash: coinbaseHash(from), Index: 0}},
		Outputs: outs,
	}

	b := c.blocks[height]
	b.Transactions = append(b.Transactions, tx)

	return tx
}

func (c *fakeChain) BlockCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errs.Transport("getblockcount", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tip, nil
}

func (c *fakeChain) BlockHash(ctx context.Context, height int64) (string, error) {
	if c.onHash != nil {
		c.onHash(height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.hashCalls++

	if c.failHash[height] > 0 {
		c.failHash[height]--
		return "", errs.Newf(errs.KindTransport, "getblockhash", "failed to connect for remote procedure call after 10 attempts")
	}

	b, ok := c.blocks[height]
	if !ok {
		return "", errs.Newf(errs.KindRPC, "getblockhash", "Block height out of range")
	}

	return b.Hash, nil
}

func (c *fakeChain) Block(ctx context.Context, hash string) (*types.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for h, b := range c.blocks {
		if b.Hash != hash {
			continue
		}

		if c.wrongHash[h] {
			cp := *b
			cp.Hash = blockHash(h + 7)
			return &cp, nil
		}

		return b, nil
	}

	return nil, errs.Newf(errs.KindRPC, "getblock", "Block not found")
}

func newTestStore(t *testing.T) *utxo.Store {
	t.Helper()

	s, err := utxo.NewStore(context.Background(), "sqlite", &iface.SQLConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func newTestWalker(t *testing.T, src ChainSource, db iface.OutputStorage, cfg *Config, opts ...Option) *Walker {
	t.Helper()

	w, err := NewWalker(src, db, cfg, opts...)
	require.NoError(t, err)
	require.Equal(t, StateIdle, w.State())

	return w
}
