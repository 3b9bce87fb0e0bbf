package config

import "time"

// Defaults applied when a key is not set
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultLogDir            = "logs"
	DefaultEnvironment       = "dev"
	DefaultServiceName       = "lunabet"
	DefaultVersion           = "dev"
	DefaultStorageDriver     = "postgres"
	DefaultSQLitePath        = "data/lunabet.db"
	DefaultDBName            = "lunabet"
	DefaultDBMaxConns        = 20
	DefaultReconcileInterval = 5 * time.Minute
	DefaultJournalPath       = "data/pending_events.jsonl"
)

// Error messages
const (
	ErrMsgInvalidPort           = "invalid PORT value"
	ErrMsgPortOutOfRange        = "PORT must be between 1 and 65535, got %d"
	ErrMsgAPIKeyRequired        = "API_KEY environment variable must be set for security"
	ErrMsgUnknownStorageDriver  = "STORAGE_DRIVER must be postgres or sqlite, got %q"
	ErrMsgSQLitePathRequired    = "SQLITE_PATH must be set when STORAGE_DRIVER is sqlite"
	ErrMsgNegativeStartingPoint = "DEFAULT_STARTING_POINTS must not be negative, got %d"
	ErrMsgInvalidMaxConns       = "DB_MAX_CONNS must be at least 1, got %d"
)
