package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/kv"
	"github.com/raidoNetwork/ledgerxfr/blockchain/node"
	"github.com/raidoNetwork/ledgerxfr/cmd/utxoindexer/flags"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var commands = []*cli.Command{
	{
		Name:   "sync",
		Usage:  "Index blocks up to the target height (default command)",
		Action: syncAction,
	},
	{
		Name:   "status",
		Usage:  "Show output database statistics, node tip and latest runs",
		Flags:  []cli.Flag{flags.RunsLimit},
		Action: statusAction,
	},
	{
		Name:   "verify",
		Usage:  "Check that no output is spent below its creating height",
		Action: verifyAction,
	},
	{
		Name:   "balances",
		Usage:  "Export unspent standard output balances per address as CSV",
		Flags:  []cli.Flag{flags.OutFile},
		Action: balancesAction,
	},
	{
		Name:   "outputs",
		Usage:  "List unspent outputs of an address",
		Flags:  []cli.Flag{flags.Address},
		Action: outputsAction,
	},
}

func syncAction(cliCtx *cli.Context) error {
	cfg, err := node.ConfigFromCli(cliCtx)
	if err != nil {
		return err
	}

	n, err := node.New(cliCtx.Context, cfg)
	if err != nil {
		return err
	}

	res, err := n.Start()
	if err != nil {
		return err
	}

	log.Infof("Output database is at height %d of %d.", res.LastCommitted, res.Target)

	return nil
}

type statusReport struct {
	Engine    string      `json:"engine"`
	Outputs   int64       `json:"outputs"`
	Unspent   int64       `json:"unspent"`
	MaxHeight int64       `json:"maxHeight"`
	NodeTip   *int64      `json:"nodeTip,omitempty"`
	Runs      interface{} `json:"runs,omitempty"`
}

func statusAction(cliCtx *cli.Context) error {
	limit := cliCtx.Int(flags.RunsLimit.Name)
	if limit < 0 {
		return errors.Errorf("bad --%s value %d", flags.RunsLimit.Name, limit)
	}

	cfg, err := node.ConfigFromCli(cliCtx)
	if err != nil {
		return err
	}

	n, err := node.NewReader(cliCtx.Context, cfg, true)
	if err != nil {
		return err
	}
	defer n.Close()

	st, err := n.OutputDB().Stats(cliCtx.Context)
	if err != nil {
		return err
	}

	rep := statusReport{
		Engine:    n.OutputDB().Engine(),
		Outputs:   st.Outputs,
		Unspent:   st.Unspent,
		MaxHeight: st.MaxHeight,
	}

	if tip, err := n.Tip(); err != nil {
		log.WithError(err).Warn("Node tip is unavailable")
	} else {
		rep.NodeTip = &tip
	}

	runs, err := n.LastRuns(limit)
	switch {
	case errors.Is(err, kv.ErrLocked):
		log.Warn("Journal is locked, sync is in progress")
	case err != nil:
		log.WithError(err).Warn("Can't read the run journal")
	default:
		rep.Runs = runs
	}

	return writeJSON(cliCtx.App.Writer, rep)
}

func verifyAction(cliCtx *cli.Context) error {
	cfg, err := node.ConfigFromCli(cliCtx)
	if err != nil {
		return err
	}

	n, err := node.NewReader(cliCtx.Context, cfg, false)
	if err != nil {
		return err
	}
	defer n.Close()

	rep, err := n.OutputDB().Verify(cliCtx.Context)
	if err != nil {
		return err
	}

	if err := writeJSON(cliCtx.App.Writer, rep); err != nil {
		return err
	}

	if !rep.Ok() {
		return errors.Errorf("output database is inconsistent: %d future spends, %d unspent outputs with spending height",
			rep.FutureSpends, rep.UnspentWithHeight)
	}

	log.Info("Output database is consistent.")

	return nil
}

func balancesAction(cliCtx *cli.Context) error {
	cfg, err := node.ConfigFromCli(cliCtx)
	if err != nil {
		return err
	}

	n, err := node.NewReader(cliCtx.Context, cfg, false)
	if err != nil {
		return err
	}
	defer n.Close()

	balances, err := n.OutputDB().AddressBalances(cliCtx.Context)
	if err != nil {
		return err
	}

	out := cliCtx.App.Writer
	if path := cliCtx.String(flags.OutFile.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		out = f
	}

	if err := gocsv.Marshal(balances, out); err != nil {
		return errors.Wrap(err, "csv export")
	}

	log.Infof("Exported %d address balances.", len(balances))

	return nil
}

func outputsAction(cliCtx *cli.Context) error {
	cfg, err := node.ConfigFromCli(cliCtx)
	if err != nil {
		return err
	}

	n, err := node.NewReader(cliCtx.Context, cfg, false)
	if err != nil {
		return err
	}
	defer n.Close()

	list, err := n.OutputDB().FindAllUTxO(cliCtx.Context, cliCtx.String(flags.Address.Name))
	if err != nil {
		return err
	}

	for _, uo := range list {
		if _, err := fmt.Fprintf(cliCtx.App.Writer, "%s %d %s\n", uo.Key(), uo.BlockHeight, types.FormatValue(uo.Value)); err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
