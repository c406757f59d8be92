package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raidoNetwork/ledgerxfr/shared/common"
)

var (
	rpcCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_calls_total",
		Help: "Remote procedure calls sent to the node",
	}, []string{"method", "result"})
	rpcRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_retries_total",
		Help: "Remote procedure call attempts repeated after a connection failure",
	}, []string{"method"})
	rpcCallTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rpc_call_time",
		Help:    "Remote procedure call duration including retries",
		Buckets: common.MillisecondsBuckets,
	}, []string{"method"})
)
