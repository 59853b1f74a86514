// Package runner spawns the external search tool and captures its output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/logger"
)

// Config describes the command line prefix and environment for the tool
type Config struct {
	Command string            // executable, e.g. "python3"
	Args    []string          // prepended to every call, e.g. ["-m", "sherlock_project"]
	Dir     string            // working directory; also exported as PYTHONPATH
	Env     map[string]string // extra variables
}

// Runner runs one tool process per call
type Runner struct {
	cfg Config
}

// New creates a Runner
func New(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run spawns the tool with args and waits up to timeout. It never returns an
// error: spawn failures and timeouts are reported through the outcome with
// ExitCode -1.
func (r *Runner) Run(ctx context.Context, args []string, timeout time.Duration) domain.ProcessOutcome {
	log := logger.FromContext(ctx)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := make([]string, 0, len(r.cfg.Args)+len(args))
	argv = append(argv, r.cfg.Args...)
	argv = append(argv, args...)

	cmd := exec.CommandContext(runCtx, r.cfg.Command, argv...)
	cmd.Dir = r.cfg.Dir
	cmd.Env = r.environ()
	cmd.WaitDelay = WaitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if outcome, killed := interrupted(ctx, runCtx, err); killed {
		if outcome.TimedOut {
			log.Warn(LogMsgProcessTimedOut, "timeout", timeout, "elapsed", elapsed)
		} else {
			log.Warn(LogMsgProcessCanceled, "elapsed", elapsed)
		}
		return outcome
	}

	outcome := domain.ProcessOutcome{
		Stdout: decode(stdout.Bytes()),
		Stderr: decode(stderr.Bytes()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Error(LogMsgProcessSpawnFailed, "command", r.cfg.Command, "error", err)
			return domain.ProcessOutcome{Stderr: domain.ErrMsgProcessInternal, ExitCode: -1}
		}
		outcome.ExitCode = exitErr.ExitCode()
	}

	log.Debug(LogMsgProcessFinished,
		"exit_code", outcome.ExitCode,
		"elapsed", elapsed,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len())

	return outcome
}

// interrupted reports whether a failed run was cut short by its deadline or by
// the parent context. A clean exit counts even if the deadline fired meanwhile.
func interrupted(parent, runCtx context.Context, runErr error) (domain.ProcessOutcome, bool) {
	if runErr == nil || runCtx.Err() == nil {
		return domain.ProcessOutcome{}, false
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return domain.ProcessOutcome{Stderr: domain.ErrMsgProcessTimedOut, ExitCode: -1, TimedOut: true}, true
	}
	return domain.ProcessOutcome{Stderr: domain.ErrMsgProcessCanceled, ExitCode: -1}, true
}

func (r *Runner) environ() []string {
	env := os.Environ()
	if r.cfg.Dir != "" {
		env = append(env, "PYTHONPATH="+r.cfg.Dir)
	}
	for k, v := range r.cfg.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// decode converts tool output to a string, replacing invalid UTF-8 with U+FFFD
func decode(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		slog.Debug("Output decode fell back to raw bytes", "error", err)
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}
