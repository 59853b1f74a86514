package sherlock

import (
	"strings"

	"github.com/osse101/watson/internal/domain"
)

// Line markers in the tool's output
const (
	FoundMarker = "[+]"
	ErrorMarker = "Error"
	LabelSep    = ": "
)

// Parser extracts found entries from raw tool output
type Parser interface {
	Parse(stdout string) []domain.FoundEntry
}

// LineParser reads the "[+] label: url" convention
type LineParser struct{}

// Parse returns one entry per qualifying line, in input order. Lines that do
// not start with the found marker, or that mention an error, are skipped.
func (LineParser) Parse(stdout string) []domain.FoundEntry {
	var entries []domain.FoundEntry
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, FoundMarker) || strings.Contains(line, ErrorMarker) {
			continue
		}

		rest := strings.TrimSpace(strings.TrimPrefix(line, FoundMarker))
		if rest == "" {
			continue
		}

		label, url, ok := strings.Cut(rest, LabelSep)
		if !ok {
			entries = append(entries, domain.FoundEntry{URL: rest})
			continue
		}
		entries = append(entries, domain.FoundEntry{
			PlatformLabel: strings.TrimSpace(label),
			URL:           strings.TrimSpace(url),
		})
	}
	return entries
}
