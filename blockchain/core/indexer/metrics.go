package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raidoNetwork/ledgerxfr/shared/common"
)

var (
	walkerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "walker_state",
		Help: "Walker state: 0 idle, 1 fetching, 2 applying, 3 committing, 4 done, 5 failed",
	})
	committedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "walker_committed_height",
		Help: "Last committed block height",
	})
	targetHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "walker_target_height",
		Help: "Height the walker is catching up to",
	})
	blocksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walker_blocks_total",
		Help: "Blocks applied to the output store",
	})
	outputsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walker_outputs_created_total",
		Help: "Outputs inserted",
	})
	outputsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walker_outputs_spent_total",
		Help: "Outputs marked spent",
	})
	walkerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walker_failures_total",
		Help: "Aborted walks by error kind",
	}, []string{"kind"})
	blockApplyTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "walker_block_time",
		Help:    "Block fetch and apply duration in milliseconds",
		Buckets: common.MillisecondsBuckets,
	})
	commitTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "walker_commit_time",
		Help:    "Checkpoint commit duration in milliseconds",
		Buckets: common.MillisecondsBuckets,
	})
)
