package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/console"
	"github.com/devstack-labs/stackaudit/pkg/constants"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var codeLog = logger.New("audit:code")

// BlackChecker verifies code formatting by running black in check-only mode.
// The line-length policy is fixed; black never modifies files here.
type BlackChecker struct {
	commandChecker
}

// NewBlackChecker creates a black formatting checker using the given runner.
func NewBlackChecker(runner CommandRunner) *BlackChecker {
	return &BlackChecker{commandChecker{
		runner:      runner,
		tool:        "Black",
		installHint: "pip install black",
	}}
}

// ToolName returns the stable checker identifier.
func (c *BlackChecker) ToolName() string { return c.tool }

// Run checks formatting of the target paths.
func (c *BlackChecker) Run(ctx context.Context, targets []string) CheckResult {
	args := append([]string{"--check", fmt.Sprintf("--line-length=%d", constants.BlackLineLength)}, targets...)
	return c.execute(ctx, "black", args, parseBlackOutput)
}

// parseBlackOutput extracts one error per file black would reformat. Black
// writes its report to stderr.
func parseBlackOutput(result *ExecResult) []string {
	var errs []string
	for _, line := range strings.Split(result.Output(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "would reformat ") {
			errs = append(errs, line)
		}
	}
	if len(errs) == 0 {
		return []string{"Black found formatting issues:\n" + result.Output()}
	}
	return errs
}

// RuffChecker runs the ruff linter over the target paths.
type RuffChecker struct {
	commandChecker
}

// NewRuffChecker creates a ruff lint checker using the given runner.
func NewRuffChecker(runner CommandRunner) *RuffChecker {
	return &RuffChecker{commandChecker{
		runner:      runner,
		tool:        "Ruff",
		installHint: "pip install ruff",
	}}
}

// ToolName returns the stable checker identifier.
func (c *RuffChecker) ToolName() string { return c.tool }

// Run lints the target paths.
func (c *RuffChecker) Run(ctx context.Context, targets []string) CheckResult {
	args := append([]string{"check"}, targets...)
	return c.execute(ctx, "ruff", args, parseRuffOutput)
}

// parseRuffOutput yields one error per reported finding line, skipping the
// trailing summary and fix hints ruff appends.
func parseRuffOutput(result *ExecResult) []string {
	var errs []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "Found ") ||
			strings.HasPrefix(line, "[*]") ||
			strings.HasPrefix(line, "No fixes") {
			continue
		}
		errs = append(errs, line)
	}
	return errs
}

// MypyChecker runs mypy in strict mode.
type MypyChecker struct {
	commandChecker
}

// NewMypyChecker creates a strict-mode mypy type checker using the given runner.
func NewMypyChecker(runner CommandRunner) *MypyChecker {
	return &MypyChecker{commandChecker{
		runner:      runner,
		tool:        "mypy",
		installHint: "pip install mypy",
	}}
}

// ToolName returns the stable checker identifier.
func (c *MypyChecker) ToolName() string { return c.tool }

// Run type-checks the target paths.
func (c *MypyChecker) Run(ctx context.Context, targets []string) CheckResult {
	args := append([]string{"--strict"}, targets...)
	return c.execute(ctx, "mypy", args, parseMypyOutput)
}

// parseMypyOutput groups mypy's multi-line error blocks into single logical
// errors: an "error:" line opens a block and subsequent "note:" lines attach
// to it rather than counting as separate findings.
func parseMypyOutput(result *ExecResult) []string {
	var errs []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "Found ") ||
			strings.HasPrefix(trimmed, "Success:") {
			continue
		}
		if strings.Contains(trimmed, " note: ") && len(errs) > 0 {
			errs[len(errs)-1] += "\n" + trimmed
			continue
		}
		errs = append(errs, trimmed)
	}
	return errs
}

// CodeQualityAuditor runs the fixed formatting/lint/type-check sequence and
// folds the results into one report. Checkers always all run; a failure never
// short-circuits the list.
type CodeQualityAuditor struct {
	targets  []string
	checkers []Checker
	verbose  bool
	out      io.Writer
}

// NewCodeQualityAuditor constructs the auditor with its fixed checker order:
// black, ruff, mypy.
func NewCodeQualityAuditor(targets []string, runner CommandRunner, verbose bool) *CodeQualityAuditor {
	return &CodeQualityAuditor{
		targets: targets,
		checkers: []Checker{
			NewBlackChecker(runner),
			NewRuffChecker(runner),
			NewMypyChecker(runner),
		},
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetOutput redirects progress and summary output, primarily for tests.
func (a *CodeQualityAuditor) SetOutput(w io.Writer) { a.out = w }

// RunAllChecks executes every checker in order and returns the folded report.
func (a *CodeQualityAuditor) RunAllChecks(ctx context.Context) CheckReport {
	if a.verbose {
		fmt.Fprintln(a.out, console.Separator())
		fmt.Fprintln(a.out, console.FormatBold("Code Quality Audit"))
		fmt.Fprintln(a.out, console.Separator())
	}

	report := CheckReport{}
	for _, checker := range a.checkers {
		if a.verbose {
			fmt.Fprintf(a.out, "\n%s\n", console.FormatHeader("Running "+checker.ToolName()))
		}
		codeLog.Printf("Running checker: %s", checker.ToolName())

		result := runCheckerSafely(ctx, checker, a.targets)
		report.Results = append(report.Results, result)

		if a.verbose {
			a.printProgress(result)
		}
	}
	return report
}

func (a *CodeQualityAuditor) printProgress(result CheckResult) {
	switch {
	case result.Passed:
		fmt.Fprintln(a.out, console.FormatSuccessMessage(result.ToolName+" check passed"))
	case result.InstallHint != "":
		fmt.Fprintln(a.out, console.FormatErrorMessage(result.ToolName+" not found"))
	default:
		fmt.Fprintln(a.out, console.FormatWarningMessage(result.ToolName+" found issues"))
		for _, err := range result.Errors {
			fmt.Fprintln(a.out, "  "+err)
		}
	}
}

// PrintSummary renders the report. It is pure with respect to the report: no
// checker is re-run and no state is consulted beyond the results.
func (a *CodeQualityAuditor) PrintSummary(report CheckReport) {
	fmt.Fprintf(a.out, "\n%s\n", console.Separator())
	if report.Passed() {
		fmt.Fprintln(a.out, console.FormatSuccessMessage("ALL CODE QUALITY CHECKS PASSED"))
	} else {
		fmt.Fprintln(a.out, console.FormatErrorMessage(
			fmt.Sprintf("CODE QUALITY AUDIT FAILED (%d/%d checks)", report.FailedChecks(), report.TotalChecks())))
	}
	fmt.Fprintln(a.out, console.Separator())

	if report.Passed() {
		return
	}

	if errs := report.AllErrors(); len(errs) > 0 {
		fmt.Fprintln(a.out, "\nIssues:")
		for _, err := range errs {
			fmt.Fprintln(a.out, "  - "+err)
		}
	}

	for _, result := range report.Results {
		if result.InstallHint != "" {
			fmt.Fprintf(a.out, "\nInstall %s: %s\n", result.ToolName, console.FormatCommandMessage(result.InstallHint))
		}
	}

	for _, result := range report.Results {
		if result.Passed || len(result.Errors) == 0 {
			continue
		}
		switch result.ToolName {
		case "Black":
			fmt.Fprintf(a.out, "\nFix formatting: %s\n",
				console.FormatCommandMessage("black "+strings.Join(a.targets, " ")))
		case "Ruff":
			fmt.Fprintf(a.out, "\nFix lint findings: %s\n",
				console.FormatCommandMessage("ruff check --fix "+strings.Join(a.targets, " ")))
		}
	}
}
