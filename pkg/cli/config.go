package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	"github.com/devstack-labs/stackaudit/pkg/validation"
)

var configCmdLog = logger.New("cli:config")

// NewConfigCommand creates the `stackaudit config` subcommand.
func NewConfigCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "config [root]",
		Short: "Validate configuration files (YAML, JSON, nginx, PostgreSQL, MariaDB)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, verbose, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if watch {
				return RunConfigWatch(cmd.Context(), cfg, root, verbose)
			}
			return RunConfigValidation(cmd.Context(), cfg, root, verbose)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever a config file changes")
	return cmd
}

// newConfigurationAuditor binds the loaded settings to the validator set.
func newConfigurationAuditor(cfg *config.Config, root string, verbose bool) *validation.ConfigurationAuditor {
	runner := audit.NewRunner(cfg.ToolTimeout)
	return validation.NewConfigurationAuditor(runner, validation.Options{
		Root:             root,
		ExcludedDirs:     cfg.ExcludedDirs,
		NginxConfigs:     cfg.NginxConfigs,
		NginxImage:       cfg.NginxImage,
		PostgreSQLConfig: cfg.PostgreSQLConfig,
		PostgreSQLImage:  cfg.PostgreSQLImage,
		MariaDBConfig:    cfg.MariaDBConfig,
		MariaDBImage:     cfg.MariaDBImage,
		Verbose:          verbose,
	})
}

// RunConfigValidation runs one full validation pass and prints the summary.
func RunConfigValidation(ctx context.Context, cfg *config.Config, root string, verbose bool) error {
	configCmdLog.Printf("Validating configuration under %s", root)

	auditor := newConfigurationAuditor(cfg, root, verbose)
	report := auditor.RunAll(ctx)
	auditor.PrintSummary(report)

	if !report.IsValid() {
		return NewExitError(1, fmt.Sprintf("configuration validation failed with %d error(s)",
			report.TotalErrors()))
	}
	return nil
}
