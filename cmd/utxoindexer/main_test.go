package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testEndpoint = "http://node.test:41678/"

// serveChain answers for a ledger where block h pays 50 coins to miner(h % 2).
func serveChain(t *testing.T, tip int64) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	blockHash := func(h int64) string { return fmt.Sprintf("%064x", 1_000_000+h) }

	httpmock.RegisterResponder(http.MethodPost, testEndpoint, func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)

		var r struct {
			ID     uint64                `json:"id"`
			Method string                `json:"method"`
			Params []jsoniter.RawMessage `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &r))

		var result interface{}
		switch r.Method {
		case "getblockcount":
			result = tip
		case "getblockhash":
			var h int64
			require.NoError(t, json.Unmarshal(r.Params[0], &h))
			result = blockHash(h)
		case "getblock":
			var hash string
			require.NoError(t, json.Unmarshal(r.Params[0], &hash))

			var h int64
			for h = 0; h < tip && blockHash(h) != hash; h++ {
			}

			result = map[string]interface{}{
				"hash":   hash,
				"height": h,
				"tx": []interface{}{map[string]interface{}{
					"txid": fmt.Sprintf("%064x", h),
					"vin":  []interface{}{map[string]interface{}{"coinbase": "04ffff001d0104"}},
					"vout": []interface{}{map[string]interface{}{
						"value":        50,
						"n":            0,
						"scriptPubKey": map[string]interface{}{"type": "pubkeyhash", "addresses": []string{fmt.Sprintf("miner%d", h%2)}},
					}},
				}},
			}
		}

		return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{"result": result, "error": nil, "id": r.ID})
	})
}

func runApp(t *testing.T, dataDir string, args ...string) (string, error) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	base := []string{
		"utxoindexer",
		"--datadir", dataDir,
		"--rpc-host", "node.test",
		"--rpc-port", "41678",
		"--rpc-retries", "1",
		"--tx-decode", "verbose",
		"--checkpoint-interval", "2",
		"--verbosity", "error",
	}

	err := app.Run(append(base, args...))
	return out.String(), err
}

func TestSyncAndExport(t *testing.T) {
	serveChain(t, 5)
	dir := t.TempDir()

	_, err := runApp(t, dir)
	require.NoError(t, err)

	out, err := runApp(t, dir, "status", "--runs", "1")
	require.NoError(t, err)

	var st struct {
		Engine    string `json:"engine"`
		Outputs   int64  `json:"outputs"`
		MaxHeight int64  `json:"maxHeight"`
		NodeTip   int64  `json:"nodeTip"`
		Runs      []struct {
			Target int64 `json:"target"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "sqlite", st.Engine)
	assert.Equal(t, int64(5), st.Outputs)
	assert.Equal(t, int64(5), st.MaxHeight)
	assert.Equal(t, int64(5), st.NodeTip)
	require.Len(t, st.Runs, 1)
	assert.Equal(t, int64(5), st.Runs[0].Target)

	_, err = runApp(t, dir, "verify")
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "balances.csv")
	_, err = runApp(t, dir, "balances", "--out", csvPath)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "address,balance,outputs\nminer0,100.00000000,2\nminer1,150.00000000,3\n", string(data))

	out, err = runApp(t, dir, "outputs", "--address", "miner0")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestSyncCommandIdempotent(t *testing.T) {
	serveChain(t, 3)
	dir := t.TempDir()

	_, err := runApp(t, dir, "sync")
	require.NoError(t, err)
	_, err = runApp(t, dir, "sync")
	require.NoError(t, err)

	out, err := runApp(t, dir, "balances")
	require.NoError(t, err)
	assert.Equal(t, "address,balance,outputs\nminer0,50.00000000,1\nminer1,100.00000000,2\n", out)
}

func TestBadArguments(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, dir, "resync")
	require.Error(t, err)

	_, err = runApp(t, dir, "--network", "dogecoin", "verify")
	require.Error(t, err)

	_, err = runApp(t, dir, "--db-type", "oracle", "verify")
	require.Error(t, err)

	_, err = runApp(t, dir, "status", "--runs", "-1")
	require.Error(t, err)
}
