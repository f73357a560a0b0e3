package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/console"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var allCmdLog = logger.New("cli:all")

// NewAllCommand creates the `stackaudit all` subcommand, running every audit
// domain in sequence.
func NewAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every audit: environment, code quality, configuration, dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, verbose, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			type step struct {
				name string
				run  func() error
			}
			steps := []step{
				{"environment", func() error { return RunEnvValidation(cfg) }},
				{"code quality", func() error { return RunCodeAudit(cmd.Context(), cfg, nil, verbose) }},
				{"configuration", func() error { return RunConfigValidation(cmd.Context(), cfg, ".", verbose) }},
				{"dependencies", func() error { return RunDependencyAudit(cmd.Context(), cfg, verbose) }},
			}

			var failed []string
			for _, s := range steps {
				allCmdLog.Printf("Running %s audit", s.name)
				if err := s.run(); err != nil {
					var exitErr *ExitError
					if !errors.As(err, &exitErr) {
						return err
					}
					failed = append(failed, s.name)
				}
				fmt.Fprintln(os.Stdout)
			}

			if len(failed) > 0 {
				fmt.Fprintln(os.Stdout, console.FormatErrorMessage(
					fmt.Sprintf("Audits with failures: %v", failed)))
				return NewExitError(1, fmt.Sprintf("%d of %d audits failed", len(failed), len(steps)))
			}
			fmt.Fprintln(os.Stdout, console.FormatSuccessMessage("All audits passed"))
			return nil
		},
	}
}
