package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var codeCmdLog = logger.New("cli:code")

// NewCodeCommand creates the `stackaudit code` subcommand.
func NewCodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code [targets...]",
		Short: "Run the Python code quality audit (black, ruff, mypy)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, verbose, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			return RunCodeAudit(cmd.Context(), cfg, args, verbose)
		},
	}
	return cmd
}

// RunCodeAudit runs every code quality checker and prints the summary.
// Explicit targets override the configured defaults.
func RunCodeAudit(ctx context.Context, cfg *config.Config, targets []string, verbose bool) error {
	if len(targets) == 0 {
		targets = cfg.PythonTargets
	}
	codeCmdLog.Printf("Auditing targets: %v", targets)

	runner := audit.NewRunner(cfg.ToolTimeout)
	auditor := audit.NewCodeQualityAuditor(targets, runner, verbose)

	report := auditor.RunAllChecks(ctx)
	auditor.PrintSummary(report)

	if !report.Passed() {
		return NewExitError(1, fmt.Sprintf("code quality audit failed: %d of %d checks failed",
			report.FailedChecks(), report.TotalChecks()))
	}
	return nil
}
