package audit

import (
	"context"
	"errors"
	"fmt"
)

// Checker is the contract every individual check satisfies: a stable tool
// name and a Run method that always returns exactly one CheckResult. Checkers
// never return an error for a tool-reported violation; only truly unexpected
// environment failures may escape as a panic, which the owning auditor
// converts into a failed result.
type Checker interface {
	ToolName() string
	Run(ctx context.Context, targets []string) CheckResult
}

// outputParser turns one tool's stdout/stderr into an ordered list of
// human-readable error messages. It is only consulted on non-zero exit.
type outputParser func(result *ExecResult) []string

// commandChecker holds the behavior shared by every checker that wraps an
// external process: invoking the tool, discriminating "violations found"
// from "tool unavailable", and delegating output parsing to a hook.
type commandChecker struct {
	runner      CommandRunner
	tool        string
	installHint string
}

// execute runs the tool and normalizes its outcome into a CheckResult.
func (c *commandChecker) execute(ctx context.Context, name string, args []string, parse outputParser) CheckResult {
	result, err := c.runner(ctx, name, args...)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrToolTimedOut) {
			return CheckResult{
				Passed:      false,
				ToolName:    c.tool,
				Stdout:      err.Error(),
				InstallHint: c.installHint,
			}
		}
		// Unexpected environment failure: the tool started but could not be
		// waited on, or the process could not be set up. Reported as a failed
		// check, not an install problem.
		return CheckResult{
			Passed:   false,
			ToolName: c.tool,
			Errors:   []string{fmt.Sprintf("%s could not be run: %v", c.tool, err)},
		}
	}

	if result.ExitCode != 0 {
		errs := parse(result)
		if len(errs) == 0 {
			errs = []string{fmt.Sprintf("%s exited with code %d:\n%s", c.tool, result.ExitCode, result.Output())}
		}
		return CheckResult{
			Passed:   false,
			ToolName: c.tool,
			Errors:   errs,
			Stdout:   result.Stdout,
		}
	}

	return CheckResult{
		Passed:   true,
		ToolName: c.tool,
		Stdout:   result.Stdout,
	}
}

// runCheckerSafely invokes a checker and converts any panic into a failed
// result so a broken checker never prevents the rest of an auditor's list
// from running.
func runCheckerSafely(ctx context.Context, checker Checker, targets []string) (result CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			result = CheckResult{
				Passed:   false,
				ToolName: checker.ToolName(),
				Errors:   []string{fmt.Sprintf("%s check failed unexpectedly: %v", checker.ToolName(), r)},
			}
		}
	}()
	return checker.Run(ctx, targets)
}
