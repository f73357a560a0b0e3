package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/envcheck"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var envCmdLog = logger.New("cli:env")

// NewEnvCommand creates the `stackaudit env` subcommand.
func NewEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Validate required environment variables without revealing values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			return RunEnvValidation(cfg)
		},
	}
}

// RunEnvValidation checks the variable sets from the manifest (or the
// built-in defaults) against the live environment.
func RunEnvValidation(cfg *config.Config) error {
	envCmdLog.Printf("Validating environment, manifest=%s", cfg.EnvManifest)

	validator, err := envcheck.LoadManifest(cfg.EnvManifest)
	if err != nil {
		return fmt.Errorf("failed to load environment manifest: %w", err)
	}

	result := validator.Validate()
	envcheck.PrintReport(os.Stdout, result)

	if !result.IsValid() {
		return NewExitError(1, fmt.Sprintf("%d required environment variable(s) missing",
			len(result.MissingRequired)))
	}
	return nil
}
