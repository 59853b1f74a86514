package discord

// Log messages
const (
	LogMsgBotRunning     = "Discord bot is now running"
	LogMsgBotReady       = "Bot is ready"
	LogMsgBotStopping    = "Discord bot stopping"
	LogMsgCloseFailed    = "Failed to close Discord session"
	LogMsgRegisterFailed = "Failed to register commands"
	LogMsgDeferFailed    = "Failed to send deferred response"
	LogMsgDisconnected   = "Discord gateway disconnected"
)
