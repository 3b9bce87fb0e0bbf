package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"

	// JournalSchemaVersion is the version of the journal line format.
	// Increment it when JournalEntry changes.
	JournalSchemaVersion = "1.0"
)

// Metadata keys
const (
	MetadataKeyEventID = "event_id"
)

// Retry configuration constants
const (
	// RetryQueueBufferSize is the buffer size for the retry queue
	RetryQueueBufferSize = 1000

	// RetryInitialDelay is the delay before the first retry
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// JournalFilePermissions is the file permission mode for journal files
const JournalFilePermissions = 0o644

// Log message constants
const (
	LogMsgEventPublishFailed   = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull       = "Retry queue full, event journaled"
	LogMsgJournalWriteFailed   = "Failed to write journal entry"
	LogMsgEventRetryExhausted  = "Event retry exhausted, journaling"
	LogMsgEventRetryFailed     = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded  = "Event retry succeeded"
	LogMsgEventDroppedShutdown = "Event journaled during shutdown"
	LogMsgShutdownTimeout      = "Resilient publisher shutdown timed out"
	LogMsgEventJournaled       = "Event journaled"
)

// Error message constants
const (
	ErrMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %w"
	ErrMsgPublisherClosed    = "publisher is shut down"
)

// CalculateRetryDelay calculates the exponential backoff delay for retry attempts.
// Formula: baseDelay * 2^(attempt-1)
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay * time.Duration(1<<(attempt-1))
}
