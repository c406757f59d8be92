package rpc

import (
	"context"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
)

// DecodeMode selects how the transactions of a block are obtained.
type DecodeMode string

const (
	// DecodeRaw fetches each transaction with getrawtransaction and decodes it
	// with decoderawtransaction. Works with every node version.
	DecodeRaw DecodeMode = "raw"
	// DecodeVerbose asks getblock for decoded transactions (verbosity 2).
	DecodeVerbose DecodeMode = "verbose"
)

// Valid reports whether m is a known mode.
func (m DecodeMode) Valid() bool {
	return m == DecodeRaw || m == DecodeVerbose
}

// Node methods used by the indexer.
const (
	MethodBlockCount           = "getblockcount"
	MethodBlockHash            = "getblockhash"
	MethodBlock                = "getblock"
	MethodRawTransaction       = "getrawtransaction"
	MethodDecodeRawTransaction = "decoderawtransaction"
)

type blockResult struct {
	Hash   string            `json:"hash"`
	Height *int64            `json:"height"`
	Tx     []json.RawMessage `json:"tx"`
}

type txResult struct {
	Txid string       `json:"txid"`
	Vin  []vinResult  `json:"vin"`
	Vout []voutResult `json:"vout"`
}

type vinResult struct {
	Coinbase *string `json:"coinbase"`
	Txid     string  `json:"txid"`
	Vout     *uint32 `json:"vout"`
}

type voutResult struct {
	Value        *json.Number `json:"value"`
	N            *uint32      `json:"n"`
	ScriptPubKey *struct {
		Type      string   `json:"type"`
		Address   string   `json:"address"`
		Addresses []string `json:"addresses"`
	} `json:"scriptPubKey"`
}

// BlockCount returns the height of the node's best block.
func (c *Client) BlockCount(ctx context.Context) (int64, error) {
	raw, err := c.Call(ctx, MethodBlockCount)
	if err != nil {
		return 0, err
	}

	var count *int64
	if err := jsonAPI.Unmarshal(raw, &count); err != nil || count == nil || *count < 0 {
		return 0, malformed(MethodBlockCount, err, "block count %s", raw)
	}

	return *count, nil
}

// BlockHash returns the hash of the main chain block at height.
func (c *Client) BlockHash(ctx context.Context, height int64) (string, error) {
	raw, err := c.Call(ctx, MethodBlockHash, height)
	if err != nil {
		return "", err
	}

	var hash string
	if err := jsonAPI.Unmarshal(raw, &hash); err != nil {
		return "", malformed(MethodBlockHash, err, "block hash %s", raw)
	}

	if err := checkHash(hash); err != nil {
		return "", malformed(MethodBlockHash, err, "block hash at height %d", height)
	}

	return hash, nil
}

// Block returns the block with hash and all of its transactions decoded.
func (c *Client) Block(ctx context.Context, hash string) (*types.Block, error) {
	var raw json.RawMessage
	var err error

	if c.cfg.TxDecode == DecodeVerbose {
		raw, err = c.Call(ctx, MethodBlock, hash, 2)
	} else {
		raw, err = c.Call(ctx, MethodBlock, hash)
	}

	if err != nil {
		return nil, err
	}

	var res blockResult
	if err := jsonAPI.Unmarshal(raw, &res); err != nil {
		return nil, malformed(MethodBlock, err, "block %s", hash)
	}

	if res.Height == nil || *res.Height < 0 {
		return nil, malformed(MethodBlock, nil, "block %s has no height", hash)
	}

	if err := checkHash(res.Hash); err != nil {
		return nil, malformed(MethodBlock, err, "block %s", hash)
	}

	block := &types.Block{
		Height:       *res.Height,
		Hash:         res.Hash,
		Transactions: make([]*types.Tx, 0, len(res.Tx)),
	}

	for i, item := range res.Tx {
		var tx *types.Tx

		if c.cfg.TxDecode == DecodeVerbose {
			tx, err = parseTx(MethodBlock, item)
		} else {
			var txid string
			if err := jsonAPI.Unmarshal(item, &txid); err != nil {
				return nil, malformed(MethodBlock, err, "transaction %d of block %s is not a txid", i, hash)
			}

			tx, err = c.Transaction(ctx, txid)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d of block %s", i, hash)
		}

		block.Transactions = append(block.Transactions, tx)
	}

	return block, nil
}

// Transaction fetches txid and decodes it.
func (c *Client) Transaction(ctx context.Context, txid string) (*types.Tx, error) {
	hex, err := c.RawTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}

	tx, err := c.DecodeRawTransaction(ctx, hex)
	if err != nil {
		return nil, err
	}

	if tx.Hash != txid {
		return nil, malformed(MethodDecodeRawTransaction, nil, "decoded txid %s, requested %s", tx.Hash, txid)
	}

	return tx, nil
}

// RawTransaction returns the serialized transaction txid as hex.
func (c *Client) RawTransaction(ctx context.Context, txid string) (string, error) {
	if err := checkHash(txid); err != nil {
		return "", malformed(MethodRawTransaction, err, "txid")
	}

	raw, err := c.Call(ctx, MethodRawTransaction, txid)
	if err != nil {
		return "", err
	}

	var hex string
	if err := jsonAPI.Unmarshal(raw, &hex); err != nil || hex == "" {
		return "", malformed(MethodRawTransaction, err, "raw transaction %s", txid)
	}

	return hex, nil
}

// DecodeRawTransaction asks the node to decode a serialized transaction.
func (c *Client) DecodeRawTransaction(ctx context.Context, hex string) (*types.Tx, error) {
	raw, err := c.Call(ctx, MethodDecodeRawTransaction, hex)
	if err != nil {
		return nil, err
	}

	return parseTx(MethodDecodeRawTransaction, raw)
}

// parseTx converts a decoded transaction object into types.Tx.
func parseTx(method string, raw json.RawMessage) (*types.Tx, error) {
	var res txResult
	if err := jsonAPI.Unmarshal(raw, &res); err != nil {
		return nil, malformed(method, err, "transaction")
	}

	if err := checkHash(res.Txid); err != nil {
		return nil, malformed(method, err, "transaction id")
	}

	tx := &types.Tx{
		Hash:    res.Txid,
		Inputs:  make([]*types.Input, 0, len(res.Vin)),
		Outputs: make([]*types.TxOut, 0, len(res.Vout)),
	}

	for i, vin := range res.Vin {
		if vin.Coinbase != nil {
			tx.Inputs = append(tx.Inputs, &types.Input{Coinbase: true})
			continue
		}

		if vin.Vout == nil {
			return nil, malformed(method, nil, "input %d of %s has no vout", i, res.Txid)
		}

		if err := checkHash(vin.Txid); err != nil {
			return nil, malformed(method, err, "input %d of %s", i, res.Txid)
		}

		tx.Inputs = append(tx.Inputs, &types.Input{TxHash: vin.Txid, Index: *vin.Vout})
	}

	for i, vout := range res.Vout {
		if vout.N == nil || vout.Value == nil || vout.ScriptPubKey == nil {
			return nil, malformed(method, nil, "output %d of %s is incomplete", i, res.Txid)
		}

		value, err := parseAmount(*vout.Value)
		if err != nil {
			return nil, malformed(method, err, "output %d of %s", i, res.Txid)
		}

		addresses := vout.ScriptPubKey.Addresses
		if len(addresses) == 0 && vout.ScriptPubKey.Address != "" {
			addresses = []string{vout.ScriptPubKey.Address}
		}

		tx.Outputs = append(tx.Outputs, &types.TxOut{
			N:          *vout.N,
			Value:      value,
			ScriptType: vout.ScriptPubKey.Type,
			Addresses:  addresses,
		})
	}

	return tx, nil
}

func parseAmount(n json.Number) (btcutil.Amount, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}

	amount, err := btcutil.NewAmount(f)
	if err != nil {
		return 0, err
	}

	if amount < 0 {
		return 0, errors.Errorf("negative value %s", n)
	}

	return amount, nil
}

func checkHash(s string) error {
	if len(s) != chainhash.MaxHashStringSize {
		return errors.Errorf("hash %q has length %d", s, len(s))
	}

	_, err := chainhash.NewHashFromStr(s)
	return err
}

func malformed(method string, cause error, format string, args ...interface{}) error {
	err := errors.Errorf("malformed "+format, args...)
	if cause != nil {
		err = errors.Wrap(cause, err.Error())
	}

	return errs.Transport(method, err)
}
