package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileName is the active log file inside LOG_DIR; rotated files get a timestamp suffix
	LogFileName = "lunabet.log"

	// LogFileMaxSizeMB rotates the file once it grows past this size
	LogFileMaxSizeMB = 50

	// LogFileMaxBackups is the number of rotated files to retain
	LogFileMaxBackups = 9

	// LogFileMaxAgeDays drops rotated files older than this
	LogFileMaxAgeDays = 30
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingLunaBet     = "Starting LunaBet"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
)

// =============================================================================
// Storage
// =============================================================================

const (
	// DBMaxConnIdleTime closes pooled connections idle for longer
	DBMaxConnIdleTime = 5 * time.Minute

	// DBMaxConnLifetime recycles pooled connections
	DBMaxConnLifetime = time.Hour
)

const (
	LogMsgLedgerOpened          = "Ledger store opened"
	ErrMsgFailedConnectDatabase = "failed to connect to database"
	ErrMsgFailedMigrateDatabase = "failed to migrate database"
	ErrMsgFailedOpenSQLite      = "failed to open sqlite ledger"
	ErrMsgUnknownStorageDriver  = "unknown storage driver %q"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgDiscordNotifierEnabled     = "Discord notifier enabled"
	ErrMsgFailedOpenJournal          = "failed to open reconcile journal"
	ErrMsgFailedCreateDiscordSession = "failed to create discord session"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgReconcileWorkerFailed      = "Reconcile worker shutdown failed"
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgJournalCloseFailed         = "Failed to close reconcile journal"
	LogMsgServerStopped              = "Server stopped"
)
