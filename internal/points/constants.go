package points

// History limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Log messages
const (
	LogMsgBalanceSet    = "Balance set"
	LogMsgBalanceGiven  = "Points given"
	LogMsgPublishFailed = "Failed to publish balance event"
)
