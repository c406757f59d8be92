package params

import "os"

// ChainConfig contains constant configs of the indexed ledger.
type ChainConfig struct {
	Name   string `yaml:"NAME"`   // Name is the profile name used by the --network flag.
	Symbol string `yaml:"SYMBOL"` // Symbol is the ticker of the chain coin.

	// RPC defaults
	RPCPort        int `yaml:"RPC_PORT"`         // RPCPort is the default node RPC port.
	TestnetRPCPort int `yaml:"TESTNET_RPC_PORT"` // TestnetRPCPort is the default node RPC port on testnet.

	// Walk parameters
	LedgerCeiling      int64 `yaml:"LEDGER_CEILING"`      // LedgerCeiling is the last height to index, 0 means the node tip.
	CheckpointInterval int64 `yaml:"CHECKPOINT_INTERVAL"` // CheckpointInterval defines how often the walker commits.
}

// IoConfig defines the shared io parameters.
type IoConfig struct {
	ReadWritePermissions        os.FileMode
	ReadWriteExecutePermissions os.FileMode
}
