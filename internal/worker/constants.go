package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Reconcile Worker
// ============================================================================

// Reconcile worker defaults
const (
	DefaultReconcileInterval = 5 * time.Minute
	DefaultReconcileWorkers  = 2
	ReconcileQueueSize       = 64
)

// Log messages for reconcile worker operations
const (
	LogMsgReconcileWorkerStarted  = "Reconcile worker started"
	LogMsgReconcileSweepStarting  = "Reconcile sweep found unsettled bets"
	LogMsgReconcileSweepFailed    = "Reconcile sweep failed to list unsettled bets"
	LogMsgReconcileQueueFull      = "Reconcile queue full, bet deferred to next sweep"
	LogMsgReconcileWorkerStopping = "Shutting down reconcile worker"
	LogMsgReconcileWorkerStopped  = "Reconcile worker shutdown complete"
	LogMsgReconcileWorkerTimeout  = "Reconcile worker shutdown timeout"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
