package matrix

// LoginDeviceName is shown in the account's session list
const LoginDeviceName = "watson"

// Log messages
const (
	LogMsgBotRunning  = "Matrix bot is now running"
	LogMsgBotStopping = "Matrix bot stopping"
	LogMsgSynced      = "Matrix sync established"
	LogMsgJoinedRoom  = "Joined room after invite"
	LogMsgJoinFailed  = "Failed to join room"
)
