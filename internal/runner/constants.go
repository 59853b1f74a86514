package runner

import "time"

// WaitDelay bounds how long Run waits for output pipes after the process is killed
const WaitDelay = 2 * time.Second

// Log messages
const (
	LogMsgProcessTimedOut    = "Tool process timed out"
	LogMsgProcessCanceled    = "Tool process canceled"
	LogMsgProcessSpawnFailed = "Tool process failed to start"
	LogMsgProcessFinished    = "Tool process finished"
)
