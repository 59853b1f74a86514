// Package sherlock adapts the sherlock CLI: its flags, its username rules and
// its "[+] label: url" output convention.
package sherlock

import (
	"path/filepath"
	"strconv"

	"github.com/osse101/watson/internal/domain"
)

// Tool flags
const (
	FlagNSFW       = "--nsfw"
	FlagPrintFound = "--print-found"
	FlagNoColor    = "--no-color"
	FlagTimeout    = "--timeout"
	FlagOutput     = "--output"
	FlagLocal      = "--local"
	FlagSimilar    = "--similar"
)

// Tool builds invocations of the search tool
type Tool struct {
	OutputDir   string
	SiteTimeout int
	SimilarMode string
}

// Invocation is the resolved command line for one request
type Invocation struct {
	Pattern    string
	OutputFile string
	Args       []string
}

// Invocation builds the argument list for a validated request. The output
// file is always named after the raw username, never the wildcard pattern.
func (t Tool) Invocation(req domain.SearchRequest) Invocation {
	pattern := req.RawUsername
	extra := []string(nil)
	if req.Similar {
		if t.SimilarMode == domain.SimilarModeFlag {
			extra = append(extra, FlagSimilar)
		} else {
			pattern = SimilarPattern(req.RawUsername)
		}
	}

	siteTimeout := t.SiteTimeout
	if siteTimeout <= 0 {
		siteTimeout = domain.DefaultSiteTimeout
	}

	outputFile := filepath.Join(t.OutputDir, req.RawUsername+".txt")

	args := []string{
		pattern,
		FlagNSFW,
		FlagPrintFound,
		FlagNoColor,
		FlagTimeout, strconv.Itoa(siteTimeout),
		FlagOutput, outputFile,
		FlagLocal,
	}
	args = append(args, extra...)

	return Invocation{Pattern: pattern, OutputFile: outputFile, Args: args}
}
