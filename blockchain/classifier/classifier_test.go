package classifier

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

func TestCoinbaseCreatesOnlyOutputs(t *testing.T) {
	tx := &types.Tx{
		Hash:   "aa",
		Inputs: []*types.Input{{Coinbase: true}},
		Outputs: []*types.TxOut{
			{N: 0, Value: 50 * btcutil.SatoshiPerBitcoin, ScriptType: "pubkey", Addresses: []string{"SaddrA"}},
		},
	}

	muts, err := Classify(100, blockHash, tx)
	require.NoError(t, err)
	require.Len(t, muts, 1)

	m := muts[0]
	assert.Equal(t, Create, m.Kind)
	assert.Equal(t, int64(100), m.Output.BlockHeight)
	assert.Equal(t, blockHash, m.Output.BlockHash)
	assert.Equal(t, "SaddrA", m.Output.Address)
	assert.Equal(t, btcutil.Amount(50*btcutil.SatoshiPerBitcoin), m.Output.Value)
	assert.False(t, m.Output.Spent)
}

func TestSpendsPrecedeCreates(t *testing.T) {
	tx := &types.Tx{
		Hash: "bb",
		Inputs: []*types.Input{
			{TxHash: "aa", Index: 0},
			{TxHash: "aa", Index: 3},
		},
		Outputs: []*types.TxOut{
			{N: 0, Value: 1, ScriptType: "pubkeyhash", Addresses: []string{"first", "second"}},
			{N: 1, Value: 2, ScriptType: "scripthash", Addresses: []string{"p2sh"}},
		},
	}

	muts, err := Classify(150, blockHash, tx)
	require.NoError(t, err)
	require.Len(t, muts, 4)

	assert.Equal(t, MarkSpent, muts[0].Kind)
	assert.Equal(t, types.OutputKey{TxHash: "aa", Index: 0}, muts[0].Key)
	assert.Equal(t, int64(150), muts[0].SpentHeight)
	assert.Equal(t, types.OutputKey{TxHash: "aa", Index: 3}, muts[1].Key)

	assert.Equal(t, Create, muts[2].Kind)
	assert.Equal(t, "first", muts[2].Output.Address)
	assert.Equal(t, "p2sh", muts[3].Output.Address)
	assert.Equal(t, uint32(1), muts[3].Output.Index)
}

func TestNonStandardGetsSentinel(t *testing.T) {
	for _, st := range []string{"nonstandard", "multisig"} {
		tx := &types.Tx{
			Hash:    "cc",
			Outputs: []*types.TxOut{{N: 0, Value: 7, ScriptType: st, Addresses: []string{"a", "b"}}},
		}

		muts, err := Classify(5, blockHash, tx)
		require.NoError(t, err)
		require.Len(t, muts, 1)
		assert.Equal(t, "** "+st+" **", muts[0].Output.Address)
		assert.Equal(t, st, muts[0].Output.ScriptType)
	}
}

func TestUnknownScriptTypeIsFatal(t *testing.T) {
	tx := &types.Tx{
		Hash: "dd",
		Outputs: []*types.TxOut{
			{N: 0, Value: 1, ScriptType: "pubkeyhash", Addresses: []string{"ok"}},
			{N: 1, Value: 1, ScriptType: "nulldata"},
		},
	}

	muts, err := Classify(9, blockHash, tx)
	require.Error(t, err)
	assert.Nil(t, muts)
	assert.True(t, errs.Is(err, errs.KindClassification))
	assert.Contains(t, err.Error(), "nulldata")
	assert.Contains(t, err.Error(), "dd")
}

func TestStandardWithoutAddressIsFatal(t *testing.T) {
	tx := &types.Tx{
		Hash:    "ee",
		Outputs: []*types.TxOut{{N: 0, Value: 1, ScriptType: "pubkeyhash"}},
	}

	_, err := Classify(9, blockHash, tx)
	require.Error(t, err)
	assert.Equal(t, errs.KindClassification, errs.KindOf(err))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("pubkeyhash"))
	assert.True(t, IsKnown("multisig"))
	assert.False(t, IsKnown("witness_v0_keyhash"))
}
