package ckv

import "github.com/VictoriaMetrics/metrics"

var (
	txCommits          = metrics.NewCounter(`dstruct_txn_total{outcome="commit"}`)
	txRollbacks        = metrics.NewCounter(`dstruct_txn_total{outcome="rollback"}`)
	txRollbackFailures = metrics.NewCounter(`dstruct_txn_rollback_failures_total`)
	lockTimeouts       = metrics.NewCounter(`dstruct_lock_timeouts_total`)
	lockExpiries       = metrics.NewCounter(`dstruct_lock_expired_in_txn_total`)
	lockWait           = metrics.NewHistogram(`dstruct_lock_wait_seconds`)
)
