package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/constants"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var yamlLog = logger.New("validation:yaml")

// YAMLValidator lints every YAML file under root with yamllint. The lint
// policy extends the default ruleset with a relaxed line length and no
// document-start requirement.
type YAMLValidator struct {
	runner   audit.CommandRunner
	root     string
	excluded []string
}

// NewYAMLValidator creates a yamllint-backed validator rooted at root.
func NewYAMLValidator(runner audit.CommandRunner, root string, excluded []string) *YAMLValidator {
	return &YAMLValidator{runner: runner, root: root, excluded: excluded}
}

// ConfigType identifies this validator.
func (v *YAMLValidator) ConfigType() ConfigType { return ConfigTypeYAML }

// lintConfig is the inline yamllint ruleset passed with -d.
func lintConfig() string {
	return fmt.Sprintf(
		"{extends: default, rules: {line-length: {max: %d}, document-start: disable}}",
		constants.YAMLLineLength)
}

// Validate runs yamllint over the tree. A tree with no YAML files passes
// without invoking the tool.
func (v *YAMLValidator) Validate(ctx context.Context) Result {
	files, err := DiscoverFiles(v.root, v.excluded, ".yml", ".yaml")
	if err != nil {
		return Result{
			Passed:     false,
			ConfigType: v.ConfigType(),
			Errors:     []string{fmt.Sprintf("file discovery failed: %v", err)},
		}
	}
	if len(files) == 0 {
		yamlLog.Printf("No YAML files under %s", v.root)
		return Result{Passed: true, ConfigType: v.ConfigType()}
	}

	result, err := v.runner(ctx, "yamllint", "-d", lintConfig(), v.root)
	if err != nil {
		if errors.Is(err, audit.ErrToolNotFound) || errors.Is(err, audit.ErrToolTimedOut) {
			return Result{
				Passed:         false,
				ConfigType:     v.ConfigType(),
				ValidatedFiles: files,
				Errors:         []string{"yamllint not found. Install with: pip install yamllint"},
			}
		}
		return Result{
			Passed:         false,
			ConfigType:     v.ConfigType(),
			ValidatedFiles: files,
			Errors:         []string{err.Error()},
		}
	}

	if result.ExitCode == 0 {
		return Result{Passed: true, ConfigType: v.ConfigType(), ValidatedFiles: files}
	}
	return Result{
		Passed:         false,
		ConfigType:     v.ConfigType(),
		ValidatedFiles: files,
		Errors:         parseYamllintOutput(result),
	}
}

// parseYamllintOutput splits the lint report into one error per finding.
func parseYamllintOutput(result *audit.ExecResult) []string {
	var errs []string
	for _, line := range strings.Split(result.Output(), "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		errs = append(errs, line)
	}
	if len(errs) == 0 {
		errs = []string{fmt.Sprintf("yamllint exited with code %d", result.ExitCode)}
	}
	return errs
}
