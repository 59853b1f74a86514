package dispatch

// User-facing replies. Raw errors and tool stderr never reach chat.
const (
	MsgUsageFmt = "Usage: %s"

	MsgInvalidUsername = "Error: The username contains invalid characters. " +
		"Allowed characters are letters, numbers, underscores (_), hyphens (-), and periods (.)"

	MsgSearchingFmt       = "Searching %s `%s` for %s"
	MsgSearchTypeExact    = "username"
	MsgSearchTypeSimilar  = "similar usernames of"
	MsgSearchFailed       = "An error occurred while running Sherlock. Please try again later."
	MsgSearchCompletedFmt = "[*] Search completed with %d results for `%s`"
	MsgNoResultsFmt       = "No results found for `%s`."
	MsgFinishedFmt        = "Finished report on `%s` for %s"

	MsgInternalError = "An error occurred while processing your command."

	MsgHelpHeader = "Available commands:"
	MsgHelpLine   = "- `%s`: %s"
)

// Command descriptions, shared with slash command registration
const (
	DescSherlock        = "Search for the exact username on social networks."
	DescSherlockSimilar = "Search for similar usernames on social networks."
	DescHelp            = "Display this help message."
	DescUsernameOption  = "The username to search for"
)

// Log messages
const (
	LogMsgCommandReceived  = "Command received"
	LogMsgCommandFailed    = "Command failed"
	LogMsgCommandPanicked  = "Command handler panicked"
	LogMsgSearchStarted    = "Search started"
	LogMsgSearchFailed     = "Search tool failed"
	LogMsgSearchCompleted  = "Search completed"
	LogMsgValidationFailed = "Username rejected"
	LogMsgDeliveryFailed   = "Failed to deliver reply"
)
