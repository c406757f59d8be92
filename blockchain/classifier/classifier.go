// Package classifier turns decoded transactions into output store mutations.
package classifier

import (
	"github.com/raidoNetwork/ledgerxfr/shared/common"
	"github.com/raidoNetwork/ledgerxfr/shared/errs"
	"github.com/raidoNetwork/ledgerxfr/shared/types"
)

// MutationKind is the kind of store change.
type MutationKind int

const (
	// MarkSpent flips the spent flag of an existing output.
	MarkSpent MutationKind = iota + 1
	// Create inserts a new output.
	Create
)

func (k MutationKind) String() string {
	switch k {
	case MarkSpent:
		return "spend"
	case Create:
		return "create"
	default:
		return "unknown"
	}
}

// Mutation is one change to apply to the output store.
type Mutation struct {
	Kind MutationKind

	// Key and SpentHeight are set for MarkSpent.
	Key         types.OutputKey
	SpentHeight int64

	// Output is set for Create.
	Output *types.Output
}

// standard scripts pay to exactly one decodable address.
var standard = map[string]bool{
	common.PubKeyHashScript: true,
	common.PubKeyScript:     true,
	common.ScriptHashScript: true,
}

// nonStandard scripts have no single destination and get a placeholder address.
var nonStandard = map[string]bool{
	common.NonStandardScript: true,
	common.MultiSigScript:    true,
}

// Sentinel returns the placeholder stored instead of an address for scripts
// without a single destination.
func Sentinel(scriptType string) string {
	return "** " + scriptType + " **"
}

// IsKnown reports whether outputs of scriptType can be indexed.
func IsKnown(scriptType string) bool {
	return standard[scriptType] || nonStandard[scriptType]
}

// Classify returns the mutations for tx contained in block (height, blockHash):
// one MarkSpent per non coinbase input followed by one Create per output.
// An output with a script type it cannot interpret fails the whole transaction.
func Classify(height int64, blockHash string, tx *types.Tx) ([]Mutation, error) {
	muts := make([]Mutation, 0, len(tx.Inputs)+len(tx.Outputs))

	for _, in := range tx.Inputs {
		if in.Coinbase {
			continue
		}

		muts = append(muts, Mutation{
			Kind:        MarkSpent,
			Key:         in.Key(),
			SpentHeight: height,
		})
	}

	for _, out := range tx.Outputs {
		addr, err := destination(tx.Hash, out)
		if err != nil {
			return nil, err
		}

		muts = append(muts, Mutation{
			Kind: Create,
			Output: &types.Output{
				BlockHeight: height,
				BlockHash:   blockHash,
				TxHash:      tx.Hash,
				Index:       out.N,
				ScriptType:  out.ScriptType,
				Address:     addr,
				Value:       out.Value,
			},
		})
	}

	return muts, nil
}

func destination(txHash string, out *types.TxOut) (string, error) {
	switch {
	case standard[out.ScriptType]:
		if len(out.Addresses) == 0 || out.Addresses[0] == "" {
			return "", errs.Newf(errs.KindClassification, "classify",
				"%s output %d of transaction %s has no address", out.ScriptType, out.N, txHash)
		}

		return out.Addresses[0], nil
	case nonStandard[out.ScriptType]:
		return Sentinel(out.ScriptType), nil
	default:
		return "", errs.Newf(errs.KindClassification, "classify",
			"don't know how to handle %q scripts in transaction %s", out.ScriptType, txHash)
	}
}
