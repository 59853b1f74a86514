package domain

import "time"

// Platform identifies the chat network a request arrived on
type Platform string

// Platform constants
const (
	PlatformMatrix  Platform = "matrix"
	PlatformDiscord Platform = "discord"
)

// Rich reports whether the platform renders markdown links in plain messages
func (p Platform) Rich() bool {
	return p == PlatformDiscord
}

// Search limits
const (
	MaxChunkSize       = 1900
	DefaultToolTimeout = 300 * time.Second
	DefaultSiteTimeout = 5 // seconds, forwarded to the tool
)

// Command names - shared by the message-prefix and slash surfaces
const (
	CommandSherlock        = "sherlock"
	CommandSherlockSimilar = "sherlock-similar"
	CommandHelp            = "help"
)

// Similar search modes
const (
	SimilarModeWildcard = "wildcard" // substitute {?} client-side
	SimilarModeFlag     = "flag"     // forward --similar to the tool
)

// WildcardToken is the tool's single-character wildcard
const WildcardToken = "{?}"
