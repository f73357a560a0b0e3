package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var execLog = logger.New("audit:exec")

// ErrToolNotFound indicates the external binary could not be located or
// started. Callers translate it into the install-hint result shape.
var ErrToolNotFound = errors.New("tool not found")

// ErrToolTimedOut indicates the external tool exceeded the per-invocation
// timeout. Treated the same as an unavailable tool: the check fails without
// claiming the target violates policy.
var ErrToolTimedOut = errors.New("tool timed out")

// ExecResult carries the observable outcome of one external process run.
// A non-zero ExitCode is data, not an error: for every tool in this repo it
// means "violations found".
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stdout, falling back to stderr when stdout is empty.
// Linters disagree about which stream carries findings.
func (r *ExecResult) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}

// CommandRunner executes an external command and captures its outcome.
// Implementations return an error only when the process could not run to
// completion (missing binary, timeout, signal); a process that exits
// non-zero yields a nil error and the exit code in ExecResult.
type CommandRunner func(ctx context.Context, name string, args ...string) (*ExecResult, error)

// NewRunner returns the production CommandRunner. Every invocation is bounded
// by timeout; a tool that hangs past it is killed and reported through
// ErrToolTimedOut.
func NewRunner(timeout time.Duration) CommandRunner {
	return func(ctx context.Context, name string, args ...string) (*ExecResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		execLog.Printf("Running: %s %v", name, args)

		cmd := exec.CommandContext(runCtx, name, args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		result := &ExecResult{
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}

		if err != nil {
			var exitErr *exec.ExitError
			switch {
			case errors.Is(runCtx.Err(), context.DeadlineExceeded):
				execLog.Printf("Timed out after %s: %s", timeout, name)
				return nil, fmt.Errorf("%s: %w", name, ErrToolTimedOut)
			case errors.As(err, &exitErr):
				result.ExitCode = exitErr.ExitCode()
			case errors.Is(err, exec.ErrNotFound):
				execLog.Printf("Binary not found: %s", name)
				return nil, fmt.Errorf("%s: %w", name, ErrToolNotFound)
			default:
				return nil, fmt.Errorf("failed to run %s: %w", name, err)
			}
		}

		execLog.Printf("Finished: %s (exit=%d, stdout=%d bytes)", name, result.ExitCode, len(result.Stdout))
		return result, nil
	}
}
