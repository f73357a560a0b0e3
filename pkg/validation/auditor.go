package validation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/console"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	"github.com/devstack-labs/stackaudit/pkg/sandbox"
)

var auditorLog = logger.New("validation:auditor")

// Options configures a ConfigurationAuditor. Zero values fall back to the
// repository defaults wired in by the CLI.
type Options struct {
	Root             string
	ExcludedDirs     []string
	NginxConfigs     []string
	NginxImage       string
	PostgreSQLConfig string
	PostgreSQLImage  string
	MariaDBConfig    string
	MariaDBImage     string
	Verbose          bool
}

// ConfigurationAuditor runs every config validator in a fixed order and
// folds the outcomes into a Report. A failing validator never stops the
// pass.
type ConfigurationAuditor struct {
	validators []Validator
	verbose    bool
	out        io.Writer
}

// NewConfigurationAuditor builds the auditor with its standard validator
// sequence: yaml, json, nginx, postgresql, mariadb.
func NewConfigurationAuditor(runner audit.CommandRunner, opts Options) *ConfigurationAuditor {
	sb := sandbox.New(runner)
	return &ConfigurationAuditor{
		validators: []Validator{
			NewYAMLValidator(runner, opts.Root, opts.ExcludedDirs),
			NewJSONValidator(opts.Root, opts.ExcludedDirs),
			NewNginxValidator(sb, opts.NginxConfigs, opts.NginxImage),
			NewPostgreSQLValidator(sb, opts.PostgreSQLConfig, opts.PostgreSQLImage),
			NewMariaDBValidator(sb, opts.MariaDBConfig, opts.MariaDBImage),
		},
		verbose: opts.Verbose,
		out:     os.Stdout,
	}
}

// NewConfigurationAuditorWithValidators builds an auditor over an explicit
// validator list, primarily for tests.
func NewConfigurationAuditorWithValidators(validators []Validator, verbose bool) *ConfigurationAuditor {
	return &ConfigurationAuditor{validators: validators, verbose: verbose, out: os.Stdout}
}

// SetOutput redirects progress and summary output.
func (a *ConfigurationAuditor) SetOutput(w io.Writer) { a.out = w }

// RunAll executes every validator in order and returns the folded report.
func (a *ConfigurationAuditor) RunAll(ctx context.Context) Report {
	if a.verbose {
		fmt.Fprintln(a.out, console.Separator())
		fmt.Fprintln(a.out, console.FormatBold("Configuration Validation"))
		fmt.Fprintln(a.out, console.Separator())
	}

	report := Report{}
	for _, validator := range a.validators {
		if a.verbose {
			fmt.Fprintf(a.out, "\n%s\n", console.FormatHeader("Validating "+string(validator.ConfigType())))
		}
		auditorLog.Printf("Running validator: %s", validator.ConfigType())

		result := runValidatorSafely(ctx, validator)
		report.Results = append(report.Results, result)

		if a.verbose {
			a.printProgress(result)
		}
	}
	return report
}

func (a *ConfigurationAuditor) printProgress(result Result) {
	if result.Passed {
		fmt.Fprintln(a.out, console.FormatSuccessMessage(
			fmt.Sprintf("%s: %d file(s) valid", result.ConfigType, len(result.ValidatedFiles))))
		return
	}
	fmt.Fprintln(a.out, console.FormatErrorMessage(
		fmt.Sprintf("%s: %d error(s)", result.ConfigType, len(result.Errors))))
	for _, err := range result.Errors {
		fmt.Fprintln(a.out, "  "+err)
	}
}

// PrintSummary renders the report without re-running any validator.
func (a *ConfigurationAuditor) PrintSummary(report Report) {
	fmt.Fprintf(a.out, "\n%s\n", console.Separator())
	if report.IsValid() {
		fmt.Fprintln(a.out, console.FormatSuccessMessage(
			fmt.Sprintf("ALL VALIDATIONS PASSED (%d file(s) checked)", report.TotalFiles())))
	} else {
		fmt.Fprintln(a.out, console.FormatErrorMessage(
			fmt.Sprintf("VALIDATION FAILED (%d error(s))", report.TotalErrors())))
	}
	fmt.Fprintln(a.out, console.Separator())

	if report.IsValid() {
		return
	}
	fmt.Fprintln(a.out, "\nErrors:")
	for _, err := range report.AllErrors() {
		fmt.Fprintln(a.out, "  - "+err)
	}
	for _, failed := range report.FailedValidators() {
		fmt.Fprintln(a.out, console.FormatInfoMessage(
			fmt.Sprintf("Validator '%s' reported problems", failed)))
	}
}
