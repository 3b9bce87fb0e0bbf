package discord

// Embed colors
const (
	colorInfo    = 0x5865F2 // Discord Blurple
	colorSuccess = 0x57F287 // Green
	colorWarning = 0xFEE75C // Yellow
	colorAlert   = 0xED4245 // Red
)

// Embed limits
const (
	maxPayoutLines = 15
	footerText     = "LunaBet ledger"
)

// Notifier log messages
const (
	logMsgNotifierDisabled = "Discord log channel not configured, audit lines go to the log only"
	logMsgAudit            = "Ledger audit"
	logMsgSendFailed       = "Failed to post to Discord log channel"
	logMsgPayloadInvalid   = "Failed to decode event for Discord notifier"
)
