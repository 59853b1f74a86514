// Package format renders found entries into chat-sized message chunks.
package format

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/osse101/watson/internal/domain"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"[", `\[`,
	"]", `\]`,
)

// linkTargetEscaper keeps a URL from closing the markdown link early
var linkTargetEscaper = strings.NewReplacer(
	"(", "%28",
	")", "%29",
	" ", "%20",
)

// Line renders one entry, newline included. Rich platforms get a markdown
// link; plain platforms get the bare URL.
func Line(entry domain.FoundEntry, platform domain.Platform) string {
	if !platform.Rich() {
		return entry.URL + "\n"
	}
	return "[" + markdownEscaper.Replace(LinkText(entry)) + "](" + linkTargetEscaper.Replace(entry.URL) + ")\n"
}

// LinkText is the visible text for an entry: its label, else the URL host,
// else the raw URL.
func LinkText(entry domain.FoundEntry) string {
	if entry.PlatformLabel != "" {
		return entry.PlatformLabel
	}
	if u, err := url.Parse(entry.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return entry.URL
}

// Lines renders every entry in order
func Lines(entries []domain.FoundEntry, platform domain.Platform) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, Line(e, platform))
	}
	return lines
}

// Chunks packs rendered lines greedily into messages of at most maxChunkSize
// characters. A line is never split; a single line longer than the budget is
// sent alone. No entries means no chunks.
func Chunks(entries []domain.FoundEntry, platform domain.Platform, maxChunkSize int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	for _, line := range Lines(entries, platform) {
		n := utf8.RuneCountInString(line)
		if curLen > 0 && curLen+n > maxChunkSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(line)
		curLen += n
	}

	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
