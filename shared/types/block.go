package types

import "github.com/btcsuite/btcd/btcutil"

// Block is a block with fully decoded transactions in node order.
type Block struct {
	Height       int64
	Hash         string
	Transactions []*Tx
}

// Tx is a decoded transaction.
type Tx struct {
	Hash    string
	Inputs  []*Input
	Outputs []*TxOut
}

// Input references a previously created output. Coinbase inputs have no reference.
type Input struct {
	Coinbase bool
	TxHash   string
	Index    uint32
}

// Key returns referenced output key.
func (in *Input) Key() OutputKey {
	return OutputKey{TxHash: in.TxHash, Index: in.Index}
}

// TxOut is a decoded transaction output as reported by the node.
type TxOut struct {
	N          uint32
	Value      btcutil.Amount
	ScriptType string
	Addresses  []string
}
