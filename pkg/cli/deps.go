package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/constants"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var depsCmdLog = logger.New("cli:deps")

// NewDepsCommand creates the `stackaudit deps` subcommand.
func NewDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Audit Python dependencies (declared, outdated, installed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, verbose, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			return RunDependencyAudit(cmd.Context(), cfg, verbose)
		},
	}
}

// RunDependencyAudit runs the dependency checkers and prints the summary.
func RunDependencyAudit(ctx context.Context, cfg *config.Config, verbose bool) error {
	depsCmdLog.Printf("Auditing dependencies, manifest=%s", cfg.PyprojectPath)

	runner := audit.NewRunner(cfg.ToolTimeout)
	auditor := audit.NewDependencyAuditor(runner, cfg.PyprojectPath, constants.RequiredPackages, verbose)

	report := auditor.RunAllChecks(ctx)
	auditor.PrintSummary(report)

	if !report.Passed() {
		return NewExitError(1, fmt.Sprintf("dependency audit found %d issue(s)", len(report.AllErrors())))
	}
	return nil
}
