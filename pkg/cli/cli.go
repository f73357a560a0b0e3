// Package cli wires the audit and validation domains into the stackaudit
// command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var cliLog = logger.New("cli:root")

// ExitError carries the process exit code for a failed run. Audit failures
// are reported through it so main can translate them without treating
// policy violations as crashes.
type ExitError struct {
	Code    int
	Message string
}

// Error returns the failure message.
func (e *ExitError) Error() string { return e.Message }

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// NewRootCommand builds the stackaudit command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stackaudit",
		Short: "Audit code quality, configuration and environment for the dev stack",
		Long: `stackaudit runs the repository's audit toolchain: Python code quality
(black, ruff, mypy), configuration validation (YAML, JSON, nginx,
PostgreSQL, MariaDB), dependency health, and environment variable checks.

Every check runs to completion; a failing check never aborts the rest.
The process exits non-zero when any check fails.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose progress output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default .stackaudit.yaml)")

	rootCmd.AddCommand(NewCodeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDepsCommand())
	rootCmd.AddCommand(NewEnvCommand())
	rootCmd.AddCommand(NewAllCommand())

	return rootCmd
}

// loadRunConfig resolves the shared flags into a ready configuration.
func loadRunConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load configuration: %w", err)
	}
	cliLog.Printf("Loaded run config, verbose=%v", verbose)
	return cfg, verbose, nil
}
