package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
)

// OutputKey identifies an output by the hash of its transaction and its position.
type OutputKey struct {
	TxHash string `json:"txHash"`
	Index  uint32 `json:"index"`
}

func (k OutputKey) String() string {
	return k.TxHash + ":" + strconv.FormatUint(uint64(k.Index), 10)
}

// Output is one row of the output table.
type Output struct {
	BlockHeight int64          `json:"blockHeight"`
	BlockHash   string         `json:"blockHash"`
	TxHash      string         `json:"txHash"`
	Index       uint32         `json:"index"`
	ScriptType  string         `json:"scriptType"`
	Address     string         `json:"address"`
	Value       btcutil.Amount `json:"value"`
	Spent       bool           `json:"spent"`
	SpentHeight int64          `json:"spentHeight,omitempty"`
}

// Key returns output identity.
func (o *Output) Key() OutputKey {
	return OutputKey{TxHash: o.TxHash, Index: o.Index}
}

func (o *Output) ToString() string {
	return fmt.Sprintf("Key: %s Height: %d Block: %s Type: %s Address: %s Value: %s Spent: %v SpentHeight: %d",
		o.Key(),
		o.BlockHeight,
		o.BlockHash,
		o.ScriptType,
		o.Address,
		FormatValue(o.Value),
		o.Spent,
		o.SpentHeight)
}

// AddressBalance is the sum of unspent outputs paying to one address.
type AddressBalance struct {
	Address string `csv:"address" json:"address"`
	Balance string `csv:"balance" json:"balance"`
	Outputs int64  `csv:"outputs" json:"outputs"`
}

// FormatValue renders amount as an exact decimal with eight fractional digits.
func FormatValue(a btcutil.Amount) string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%08d", sign, v/btcutil.SatoshiPerBitcoin, v%btcutil.SatoshiPerBitcoin)
}

// ParseValue parses decimal chain units into an amount. It accepts integers,
// fixed point and exponent forms as returned by SQL drivers.
func ParseValue(s string) (btcutil.Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad value %q", s)
	}

	amount, err := btcutil.NewAmount(f)
	if err != nil {
		return 0, errors.Wrapf(err, "bad value %q", s)
	}

	if amount < 0 {
		return 0, errors.Errorf("negative value %q", s)
	}

	return amount, nil
}
