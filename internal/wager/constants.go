package wager

// Input limits
const (
	MaxTopicLength = 200
	MaxLabelLength = 100
)

// Log messages
const (
	LogMsgBetCreated    = "Bet created"
	LogMsgWagerPlaced   = "Wager placed"
	LogMsgWagerRejected = "Wager rejected"
	LogMsgPublishFailed = "Failed to publish wager event"
)

// Error messages
const (
	ErrMsgUserIDRequired   = "user id is required"
	ErrMsgTopicRequired    = "topic is required"
	ErrMsgTopicTooLong     = "topic is too long"
	ErrMsgOptionCount      = "exactly two options are required"
	ErrMsgLabelRequired    = "option labels cannot be empty"
	ErrMsgLabelTooLong     = "option label is too long"
	ErrMsgNegativeDuration = "duration cannot be negative"
	ErrMsgBetAlreadyExists = "bet %s already exists"
)
