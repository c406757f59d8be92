package params

import "github.com/raidoNetwork/ledgerxfr/shared/common"

const (
	DefaultNetwork    = "default"
	SpreadcoinNetwork = "spreadcoin"
)

// DefaultConfig returns the profile of a generic bitcoin-derived node.
func DefaultConfig() *ChainConfig {
	return defaultChainConfig.Copy()
}

// SpreadcoinConfig returns the profile of the frozen Spreadcoin ledger.
func SpreadcoinConfig() *ChainConfig {
	return spreadcoinChainConfig.Copy()
}

// ByName returns built-in profile with given name.
func ByName(name string) (*ChainConfig, bool) {
	switch name {
	case DefaultNetwork, "":
		return DefaultConfig(), true
	case SpreadcoinNetwork:
		return SpreadcoinConfig(), true
	default:
		return nil, false
	}
}

// Networks lists built-in profile names.
func Networks() []string {
	return []string{DefaultNetwork, SpreadcoinNetwork}
}

var defaultChainConfig = &ChainConfig{
	Name:               DefaultNetwork,
	Symbol:             "BTC",
	RPCPort:            8332,
	TestnetRPCPort:     18332,
	LedgerCeiling:      0,
	CheckpointInterval: common.DefaultCheckpointInterval,
}

var spreadcoinChainConfig = &ChainConfig{
	Name:               SpreadcoinNetwork,
	Symbol:             "SPR",
	RPCPort:            41678,
	TestnetRPCPort:     51678,
	LedgerCeiling:      1657200,
	CheckpointInterval: common.DefaultCheckpointInterval,
}
