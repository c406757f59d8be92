// Package cmd defines the command line flags for the shared utilities.
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/raidoNetwork/ledgerxfr/utils/file"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

var (
	// DBTypeFlag selects the output database engine.
	DBTypeFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "db-type",
		Usage: "Output database engine (sqlite, mysql, postgres)",
		Value: "sqlite",
	})
	// SQLConfigPath setups path to the dotenv file with database credentials.
	SQLConfigPath = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "sql-cfg",
		Usage: "Dotenv file path with DB_USER, DB_PASS, DB_HOST, DB_PORT and DB_NAME",
	})
	// SQLStatFlag enables query timing logs.
	SQLStatFlag = altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "sql-stat",
		Usage: "Log output database query timings",
	})

	// DataDirFlag defines a path on disk.
	DataDirFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the sqlite database and the run journal",
		Value: file.DefaultDataDir(),
	})
	// LockTimeoutFlag defines how long to wait for the data directory lock.
	LockTimeoutFlag = altsrc.NewDurationFlag(&cli.DurationFlag{
		Name:  "lock-timeout",
		Usage: "Time to wait for another indexer to release the data directory",
		Value: time.Second,
	})
	// LogFileName specifies the log output file name.
	LogFileName = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "log-file",
		Usage: "Specify log file name, relative or absolute",
	})
	// ConfigFileFlag specifies the filepath to load flag values.
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config-file",
		Usage: "The filepath to a yaml file with flag values",
	}
	// ChainConfigFileFlag specifies the filepath to load chain profile values.
	ChainConfigFileFlag = &cli.StringFlag{
		Name:  "chain-config-file",
		Usage: "The path to a YAML file with chain config values",
	}
	// VerbosityFlag specifies the logging level
	VerbosityFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	})
)

// LoadFlagsFromConfig sets flags values from config file if ConfigFileFlag is set.
func LoadFlagsFromConfig(cliCtx *cli.Context, flags []cli.Flag) error {
	if cliCtx.IsSet(ConfigFileFlag.Name) {
		if err := altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc(ConfigFileFlag.Name))(cliCtx); err != nil {
			return err
		}
	}

	return nil
}

// ValidateNoArgs fails on positional arguments that are neither a known
// command nor a flag value. It is meant for app.Before when the app has a
// default action.
func ValidateNoArgs(ctx *cli.Context) error {
	commands := ctx.App.Commands
	known := append([]cli.Flag{}, ctx.App.Flags...)
	if ctx.Command != nil {
		known = append(known, ctx.Command.Flags...)
	}

	skipValue := false
	for _, arg := range ctx.Args().Slice() {
		if skipValue {
			skipValue = false
			continue
		}

		if strings.HasPrefix(arg, "-") {
			// "--name value" form takes the next argument unless the flag is boolean.
			name := strings.TrimLeft(arg, "-")
			skipValue = !strings.Contains(arg, "=") && !isBoolFlag(known, name)
			continue
		}

		c := findCommand(commands, arg)
		if c == nil {
			return fmt.Errorf("unrecognized argument: %s", arg)
		}

		commands = c.Subcommands
		known = c.Flags
	}

	return nil
}

func findCommand(commands []*cli.Command, name string) *cli.Command {
	for _, c := range commands {
		if c.HasName(name) {
			return c
		}
	}
	return nil
}

func isBoolFlag(flags []cli.Flag, name string) bool {
	for _, f := range flags {
		switch bf := f.(type) {
		case *cli.BoolFlag:
			if bf.Name == name {
				return true
			}
		case *altsrc.BoolFlag:
			if bf.Name == name {
				return true
			}
		}
	}
	return false
}
