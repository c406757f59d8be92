package main

import (
	"os"
	"runtime"
	runtimeDebug "runtime/debug"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/raidoNetwork/ledgerxfr/cmd/utxoindexer/flags"
	"github.com/raidoNetwork/ledgerxfr/shared/cmd"
	"github.com/raidoNetwork/ledgerxfr/shared/logutil"
	"github.com/raidoNetwork/ledgerxfr/shared/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var appFlags = []cli.Flag{
	// RPC flags
	flags.RPCHost,
	flags.RPCPort,
	flags.Testnet,
	flags.RPCUser,
	flags.RPCPassword,
	flags.RPCEnv,
	flags.RPCRetries,
	flags.RPCRetryDelay,
	flags.RPCBackoff,
	flags.RPCTimeout,
	flags.TxDecode,

	// walker flags
	flags.Network,
	flags.CeilingHeight,
	flags.CheckpointInterval,
	flags.WalkerStat,
	flags.StatusInterval,

	flags.MonitoringPortFlag,
	flags.MonitoringHostFlag,

	// db flags
	cmd.DBTypeFlag,
	cmd.SQLConfigPath,
	cmd.SQLStatFlag,
	cmd.DataDirFlag,
	cmd.LockTimeoutFlag,

	cmd.LogFileName,
	cmd.VerbosityFlag,
	cmd.ConfigFileFlag,
	cmd.ChainConfigFileFlag,
}

var log = logrus.WithField("prefix", "main")

func newApp() *cli.App {
	app := &cli.App{}
	app.Name = "utxoindexer"
	app.Usage = "Incremental UTXO set indexer of a bitcoin-derived ledger"
	app.Action = syncAction
	app.Version = version.Version()
	app.Commands = commands

	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		// Load cmd from config file, if specified.
		if err := cmd.LoadFlagsFromConfig(ctx, app.Flags); err != nil {
			return err
		}

		logrus.SetFormatter(&nested.Formatter{
			HideKeys:        true,
			FieldsOrder:     []string{"component", "category"},
			TimestampFormat: "2006-01-02 15:04:05.000",
		})

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logutil.ConfigurePersistentLogging(logFileName); err != nil {
				log.WithError(err).Error("Failed to configuring logging to disk.")
			}
		}

		if err := logutil.SetVerbosity(ctx.String(cmd.VerbosityFlag.Name)); err != nil {
			return err
		}

		runtime.GOMAXPROCS(runtime.NumCPU())

		return cmd.ValidateNoArgs(ctx)
	}

	return app
}

func main() {
	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
