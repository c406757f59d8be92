package common

import (
	"fmt"
	"time"
)

// Script types reported by the node in scriptPubKey.type.
const (
	PubKeyHashScript  = "pubkeyhash"
	PubKeyScript      = "pubkey"
	ScriptHashScript  = "scripthash"
	NonStandardScript = "nonstandard"
	MultiSigScript    = "multisig"
)

// DefaultCheckpointInterval is the number of blocks between two index commits.
const DefaultCheckpointInterval = 10000

// StatFmt formats durations for statistic logs.
func StatFmt(d time.Duration) string {
	return fmt.Sprintf("%d μs", int64(d/time.Microsecond))
}

// MillisecondsBuckets used for the block duration histograms.
var MillisecondsBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
