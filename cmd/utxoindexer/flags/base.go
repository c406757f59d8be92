package flags

import (
	"time"

	"github.com/raidoNetwork/ledgerxfr/blockchain/rpc"
	"github.com/raidoNetwork/ledgerxfr/shared/params"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

var (
	// RPCHost defines the ledger node host.
	RPCHost = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "rpc-host",
		Usage: "Host of the ledger node JSON-RPC server",
		Value: "127.0.0.1",
	})
	// RPCPort defines the ledger node RPC port. Zero takes the port of the chain profile.
	RPCPort = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "rpc-port",
		Usage: "RPC port exposed by the ledger node, 0 uses the chain profile port",
	})
	// Testnet selects the testnet RPC port of the chain profile.
	Testnet = altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "testnet",
		Usage: "Use the testnet RPC port of the chain profile",
	})
	// RPCUser is the basic auth user.
	RPCUser = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "rpc-user",
		Usage: "RPC user name",
	})
	// RPCPassword is the basic auth password.
	RPCPassword = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "rpc-password",
		Usage: "RPC password",
	})
	// RPCEnv is a dotenv file with RPC_USER and RPC_PASS.
	RPCEnv = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "rpc-env",
		Usage: "Dotenv file path with RPC_USER and RPC_PASS",
	})
	// RPCRetries is the number of attempts for a call failing at connection level.
	RPCRetries = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "rpc-retries",
		Usage: "Attempts made for one RPC call when the node can't be reached",
		Value: rpc.DefaultRetries,
	})
	// RPCRetryDelay is the pause between attempts.
	RPCRetryDelay = altsrc.NewDurationFlag(&cli.DurationFlag{
		Name:  "rpc-retry-delay",
		Usage: "Pause between RPC attempts",
		Value: rpc.DefaultRetryDelay,
	})
	// RPCBackoff selects the retry schedule.
	RPCBackoff = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "rpc-backoff",
		Usage: "Retry schedule: fixed or exponential",
		Value: "fixed",
	})
	// RPCTimeout bounds one HTTP round trip.
	RPCTimeout = altsrc.NewDurationFlag(&cli.DurationFlag{
		Name:  "rpc-timeout",
		Usage: "Timeout of one RPC round trip, 0 disables it",
		Value: 5 * time.Minute,
	})
	// TxDecode selects how transactions are decoded.
	TxDecode = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "tx-decode",
		Usage: "Transaction decoding: raw (getrawtransaction + decoderawtransaction) or verbose (getblock verbosity 2)",
		Value: string(rpc.DecodeRaw),
	})

	// Network selects the built-in chain profile.
	Network = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "network",
		Usage: "Built-in chain profile (default, spreadcoin)",
		Value: params.DefaultNetwork,
	})
	// CeilingHeight is the last height to index.
	CeilingHeight = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "ceiling-height",
		Usage: "Last block height to index, 0 uses the chain profile ceiling or the node tip",
	})
	// CheckpointInterval is the commit period in blocks.
	CheckpointInterval = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "checkpoint-interval",
		Usage: "Commit the output database every N block heights, 0 uses the chain profile value",
	})
	// WalkerStat enables commit timing logs.
	WalkerStat = altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "walker-stat",
		Usage: "Log commit timings",
	})

	// StatusInterval is the period of sync position logs.
	StatusInterval = altsrc.NewDurationFlag(&cli.DurationFlag{
		Name:  "status-interval",
		Usage: "Period of sync position logs between checkpoints",
		Value: 30 * time.Second,
	})

	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus, 0 disables it",
	})
	// MonitoringHostFlag defines the metrics server host.
	MonitoringHostFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "monitoring-host",
		Usage: "Host used to serve prometheus metrics",
		Value: "127.0.0.1",
	})

	// OutFile is the balances export destination.
	OutFile = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output file, stdout by default",
	}
	// Address filters outputs by address.
	Address = &cli.StringFlag{
		Name:     "address",
		Usage:    "Address to list unspent outputs of",
		Required: true,
	}
	// RunsLimit is the number of journal entries shown.
	RunsLimit = &cli.IntFlag{
		Name:  "runs",
		Usage: "Number of latest runs to show",
		Value: 5,
	}
)
