package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	spr, ok := ByName(SpreadcoinNetwork)
	require.True(t, ok)
	assert.Equal(t, 41678, spr.RPCPort)
	assert.Equal(t, int64(1657200), spr.LedgerCeiling)

	def, ok := ByName("")
	require.True(t, ok)
	assert.Equal(t, int64(0), def.LedgerCeiling)

	_, ok = ByName("dogecoin")
	assert.False(t, ok)
}

func TestCopy(t *testing.T) {
	a := SpreadcoinConfig()
	a.LedgerCeiling = 1

	assert.Equal(t, int64(1657200), SpreadcoinConfig().LedgerCeiling)
}

func TestDefaultConfigIsCopy(t *testing.T) {
	require.NotNil(t, ChainParams())

	a := DefaultConfig()
	a.Symbol = "CHANGED"

	assert.NotEqual(t, "CHANGED", DefaultConfig().Symbol)
	assert.Equal(t, *DefaultConfig(), *DefaultConfig().Copy())
}

func TestOverrideChainConfig(t *testing.T) {
	old := ChainParams()
	t.Cleanup(func() { OverrideChainConfig(old) })

	c := ChainParams().Copy()
	c.Symbol = "TST"
	OverrideChainConfig(c)

	assert.Equal(t, "TST", ChainParams().Symbol)
}

func TestLoadChainConfigFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "chain.yaml")
	data := "NAME: local\nRPC_PORT: 19332\nLEDGER_CEILING: 500\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	conf, err := LoadChainConfigFile(path, SpreadcoinConfig())
	require.NoError(t, err)
	assert.Equal(t, "local", conf.Name)
	assert.Equal(t, "SPR", conf.Symbol)
	assert.Equal(t, 19332, conf.RPCPort)
	assert.Equal(t, int64(500), conf.LedgerCeiling)
	assert.Equal(t, int64(10000), conf.CheckpointInterval)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("CHECKPOINT_INTERVAL: 0\n"), 0600))
	_, err = LoadChainConfigFile(bad, nil)
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("SLOT_TIME: 7\n"), 0600))
	_, err = LoadChainConfigFile(unknown, nil)
	require.Error(t, err)

	_, err = LoadChainConfigFile(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
}
