package node

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/core/indexer"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db"
	"github.com/raidoNetwork/ledgerxfr/blockchain/rpc"
	"github.com/raidoNetwork/ledgerxfr/cmd/utxoindexer/flags"
	"github.com/raidoNetwork/ledgerxfr/shared/cmd"
	"github.com/raidoNetwork/ledgerxfr/shared/params"
	"github.com/urfave/cli/v2"
)

// JournalDirName is the data directory subfolder of the run journal.
const JournalDirName = "journal"

// Config holds everything the indexer node needs.
type Config struct {
	DataDir     string
	DBType      string
	SQL         db.SQLConfig
	LockTimeout time.Duration

	RPC    rpc.Config
	Walker indexer.Config

	MonitoringAddr string
	StatusInterval time.Duration

	Chain *params.ChainConfig
}

// JournalDir returns the run journal directory.
func (c *Config) JournalDir() string {
	return filepath.Join(c.DataDir, JournalDirName)
}

// ConfigFromCli builds the node config from flags and the chain profile.
func ConfigFromCli(cliCtx *cli.Context) (*Config, error) {
	chain, err := configureChainConfig(cliCtx)
	if err != nil {
		return nil, err
	}

	dataDir := cliCtx.String(cmd.DataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.New("empty data directory")
	}

	cfg := &Config{
		DataDir: dataDir,
		DBType:  cliCtx.String(cmd.DBTypeFlag.Name),
		SQL: db.SQLConfig{
			DataDir:      dataDir,
			ConfigPath:   cliCtx.String(cmd.SQLConfigPath.Name),
			ShowFullStat: cliCtx.Bool(cmd.SQLStatFlag.Name),
		},
		LockTimeout:    cliCtx.Duration(cmd.LockTimeoutFlag.Name),
		StatusInterval: cliCtx.Duration(flags.StatusInterval.Name),
		Chain:          chain,
	}

	if cfg.RPC, err = rpcConfig(cliCtx, chain); err != nil {
		return nil, err
	}

	cfg.Walker = indexer.Config{
		Ceiling:            chain.LedgerCeiling,
		CheckpointInterval: chain.CheckpointInterval,
		ShowStat:           cliCtx.Bool(flags.WalkerStat.Name),
	}

	if ceiling := cliCtx.Int(flags.CeilingHeight.Name); ceiling > 0 {
		cfg.Walker.Ceiling = int64(ceiling)
	}

	if interval := cliCtx.Int(flags.CheckpointInterval.Name); interval > 0 {
		cfg.Walker.CheckpointInterval = int64(interval)
	}

	if port := cliCtx.Int(flags.MonitoringPortFlag.Name); port > 0 {
		cfg.MonitoringAddr = net.JoinHostPort(cliCtx.String(flags.MonitoringHostFlag.Name), strconv.Itoa(port))
	}

	return cfg, nil
}

func rpcConfig(cliCtx *cli.Context, chain *params.ChainConfig) (rpc.Config, error) {
	port := cliCtx.Int(flags.RPCPort.Name)
	if port == 0 {
		port = chain.RPCPort
		if cliCtx.Bool(flags.Testnet.Name) {
			port = chain.TestnetRPCPort
		}
	}

	rc := rpc.Config{
		Host:       cliCtx.String(flags.RPCHost.Name),
		Port:       port,
		User:       cliCtx.String(flags.RPCUser.Name),
		Password:   cliCtx.String(flags.RPCPassword.Name),
		Retries:    cliCtx.Int(flags.RPCRetries.Name),
		RetryDelay: cliCtx.Duration(flags.RPCRetryDelay.Name),
		Timeout:    cliCtx.Duration(flags.RPCTimeout.Name),
		TxDecode:   rpc.DecodeMode(cliCtx.String(flags.TxDecode.Name)),
	}

	if path := cliCtx.String(flags.RPCEnv.Name); path != "" {
		env, err := godotenv.Read(path)
		if err != nil {
			return rc, errors.Errorf("Error loading .env file %s.", path)
		}

		if rc.User == "" {
			rc.User = env["RPC_USER"]
		}
		if rc.Password == "" {
			rc.Password = env["RPC_PASS"]
		}
	}

	if rc.User == "" {
		rc.User = os.Getenv("RPC_USER")
	}
	if rc.Password == "" {
		rc.Password = os.Getenv("RPC_PASS")
	}

	policy, ok := rpc.PolicyByName(cliCtx.String(flags.RPCBackoff.Name), rc.RetryDelay)
	if !ok {
		return rc, errors.Errorf("unknown rpc backoff %q", cliCtx.String(flags.RPCBackoff.Name))
	}
	rc.Backoff = policy

	return rc, nil
}

// configureChainConfig selects built-in profile and applies yaml file over it.
func configureChainConfig(cliCtx *cli.Context) (*params.ChainConfig, error) {
	chain, ok := params.ByName(cliCtx.String(flags.Network.Name))
	if !ok {
		return nil, errors.Errorf("unknown network %q, known %v", cliCtx.String(flags.Network.Name), params.Networks())
	}

	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		var err error
		chain, err = params.LoadChainConfigFile(cliCtx.String(cmd.ChainConfigFileFlag.Name), chain)
		if err != nil {
			return nil, err
		}
	}

	params.OverrideChainConfig(chain)

	return chain, nil
}
