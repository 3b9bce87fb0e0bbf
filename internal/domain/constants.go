package domain

// DefaultStartingPoints is the balance a user receives on first access
const DefaultStartingPoints int64 = 1000

// Storage driver names
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)
