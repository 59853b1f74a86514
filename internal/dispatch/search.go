package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/format"
	"github.com/osse101/watson/internal/logger"
	"github.com/osse101/watson/internal/metrics"
	"github.com/osse101/watson/internal/sherlock"
)

// ProcessRunner runs the search tool. *runner.Runner satisfies it.
type ProcessRunner interface {
	Run(ctx context.Context, args []string, timeout time.Duration) domain.ProcessOutcome
}

// SearchConfig holds the pipeline settings
type SearchConfig struct {
	Tool      sherlock.Tool
	Timeout   time.Duration
	ChunkSize int
}

// Searcher runs validated requests through the tool, parser and formatter
type Searcher struct {
	runner    ProcessRunner
	parser    sherlock.Parser
	tool      sherlock.Tool
	timeout   time.Duration
	chunkSize int
}

// NewSearcher creates a Searcher. Zero timeout and chunk size fall back to defaults.
func NewSearcher(runner ProcessRunner, parser sherlock.Parser, cfg SearchConfig) *Searcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultToolTimeout
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = domain.MaxChunkSize
	}
	return &Searcher{
		runner:    runner,
		parser:    parser,
		tool:      cfg.Tool,
		timeout:   cfg.Timeout,
		chunkSize: cfg.ChunkSize,
	}
}

// Search runs one request and reports progress through send. The request must
// already be valid; an invalid one is refused before anything is spawned.
// Tool failures are reported to the user and are not returned as errors; the
// returned error is a validation or delivery failure.
func (s *Searcher) Search(ctx context.Context, req domain.SearchRequest, send SendFunc) error {
	if err := sherlock.ValidateRequest(req); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	mode := metrics.Mode(req.Similar)
	inv := s.tool.Invocation(req)

	searchType := MsgSearchTypeExact
	if req.Similar {
		searchType = MsgSearchTypeSimilar
	}
	if err := send(ctx, fmt.Sprintf(MsgSearchingFmt, searchType, req.RawUsername, req.RequesterID)); err != nil {
		return fmt.Errorf("send acknowledgement: %w", err)
	}

	log.Info(LogMsgSearchStarted, "pattern", inv.Pattern, "output", inv.OutputFile)

	outcome, elapsed := s.run(ctx, inv.Args)
	metrics.SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())

	if !outcome.Succeeded() {
		result := metrics.OutcomeFailed
		if outcome.TimedOut {
			result = metrics.OutcomeTimedOut
		}
		metrics.SearchesTotal.WithLabelValues(string(req.Platform), mode, result).Inc()
		log.Error(LogMsgSearchFailed,
			"exit_code", outcome.ExitCode,
			"timed_out", outcome.TimedOut,
			"stderr", outcome.Stderr,
			"elapsed", elapsed)
		if err := send(ctx, MsgSearchFailed); err != nil {
			return fmt.Errorf("send failure notice: %w", err)
		}
		return nil
	}

	entries := s.parser.Parse(outcome.Stdout)
	metrics.SearchResults.Observe(float64(len(entries)))
	log.Info(LogMsgSearchCompleted, "results", len(entries), "elapsed", elapsed)

	if len(entries) == 0 {
		metrics.SearchesTotal.WithLabelValues(string(req.Platform), mode, metrics.OutcomeNoResults).Inc()
		if err := send(ctx, fmt.Sprintf(MsgNoResultsFmt, req.RawUsername)); err != nil {
			return fmt.Errorf("send no-results notice: %w", err)
		}
	} else {
		metrics.SearchesTotal.WithLabelValues(string(req.Platform), mode, metrics.OutcomeFound).Inc()
		for i, chunk := range format.Chunks(entries, req.Platform, s.chunkSize) {
			if err := send(ctx, chunk); err != nil {
				return fmt.Errorf("send result chunk %d: %w", i, err)
			}
		}
		if err := send(ctx, fmt.Sprintf(MsgSearchCompletedFmt, len(entries), req.RawUsername)); err != nil {
			return fmt.Errorf("send summary: %w", err)
		}
	}

	if err := send(ctx, fmt.Sprintf(MsgFinishedFmt, req.RawUsername, req.RequesterID)); err != nil {
		return fmt.Errorf("send finished notice: %w", err)
	}
	return nil
}

// run spawns the tool immediately. Identical usernames write the same output
// file and are not coordinated.
func (s *Searcher) run(ctx context.Context, args []string) (domain.ProcessOutcome, time.Duration) {
	metrics.SearchesInFlight.Inc()
	defer metrics.SearchesInFlight.Dec()

	start := time.Now()
	outcome := s.runner.Run(ctx, args, s.timeout)
	return outcome, time.Since(start)
}

// searchHandler validates the argument, answering usage or character errors
// itself, then hands the request to the searcher.
func searchHandler(s *Searcher, similar bool) HandlerFunc {
	return func(ctx context.Context, req Request, send SendFunc) error {
		sr := domain.SearchRequest{
			RawUsername: req.Argument,
			Similar:     similar,
			Platform:    req.Platform,
			RequesterID: req.Requester,
			RequestID:   logger.GetRequestID(ctx),
		}

		if err := sherlock.ValidateRequest(sr); err != nil {
			metrics.SearchesTotal.WithLabelValues(string(req.Platform), metrics.Mode(similar), metrics.OutcomeInvalid).Inc()
			logger.FromContext(ctx).Info(LogMsgValidationFailed, "argument", req.Argument, "reason", err)

			msg := MsgInvalidUsername
			if errors.Is(err, domain.ErrEmptyUsername) {
				cmd := Command{Name: req.Command, TakesArg: true}
				msg = fmt.Sprintf(MsgUsageFmt, cmd.Usage(req.Surface))
			}
			return send(ctx, msg)
		}

		return s.Search(ctx, sr, send)
	}
}
