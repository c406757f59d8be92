package kv

var (
	runsBucket = []byte("runs")
	metaBucket = []byte("meta")

	lastRunKey = []byte("last-run")
)
