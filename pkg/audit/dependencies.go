package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/console"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	goversion "github.com/hashicorp/go-version"
	"github.com/pelletier/go-toml/v2"
)

var depsLog = logger.New("audit:deps")

const pipInstallHint = "python3 -m ensurepip --upgrade"

// Package describes one installed Python package. LatestVersion is empty when
// the package is current (or when only an installed listing was requested).
type Package struct {
	Name           string `json:"name"`
	CurrentVersion string `json:"version"`
	LatestVersion  string `json:"latest_version"`
}

// IsOutdated reports whether a newer version is available. An empty
// LatestVersion means up to date, never unknown.
func (p Package) IsOutdated() bool {
	if p.LatestVersion == "" {
		return false
	}
	current, err1 := goversion.NewVersion(p.CurrentVersion)
	latest, err2 := goversion.NewVersion(p.LatestVersion)
	if err1 != nil || err2 != nil {
		// Non-PEP440-parseable versions fall back to string inequality.
		return p.CurrentVersion != p.LatestVersion
	}
	return latest.GreaterThan(current)
}

// VersionInfo renders the package for display.
func (p Package) VersionInfo() string {
	if p.IsOutdated() {
		return fmt.Sprintf("%s: %s -> %s", p.Name, p.CurrentVersion, p.LatestVersion)
	}
	return fmt.Sprintf("%s: %s", p.Name, p.CurrentVersion)
}

// ParsePipJSON decodes `pip list --format=json` output.
func ParsePipJSON(output string) ([]Package, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}
	var packages []Package
	if err := json.Unmarshal([]byte(output), &packages); err != nil {
		return nil, fmt.Errorf("failed to parse pip output: %w", err)
	}
	return packages, nil
}

// pipList runs `python3 -m pip list` with extra arguments and decodes the
// JSON listing.
func pipList(ctx context.Context, runner CommandRunner, extra ...string) ([]Package, *ExecResult, error) {
	args := append([]string{"-m", "pip", "list", "--format=json"}, extra...)
	result, err := runner(ctx, "python3", args...)
	if err != nil {
		return nil, nil, err
	}
	if result.ExitCode != 0 {
		return nil, result, fmt.Errorf("pip exited with code %d: %s", result.ExitCode, result.Output())
	}
	packages, err := ParsePipJSON(result.Stdout)
	if err != nil {
		return nil, result, err
	}
	return packages, result, nil
}

// unavailableResult builds the install-hint result shape for a missing or
// timed-out tool.
func unavailableResult(tool, hint string, err error) CheckResult {
	return CheckResult{
		Passed:      false,
		ToolName:    tool,
		Stdout:      err.Error(),
		InstallHint: hint,
	}
}

// OutdatedPackagesChecker reports installed packages with a newer release
// available. The listing itself succeeding with outdated entries is a policy
// violation, not a crash.
type OutdatedPackagesChecker struct {
	runner CommandRunner
}

// NewOutdatedPackagesChecker creates the outdated-package checker.
func NewOutdatedPackagesChecker(runner CommandRunner) *OutdatedPackagesChecker {
	return &OutdatedPackagesChecker{runner: runner}
}

// ToolName returns the stable checker identifier.
func (c *OutdatedPackagesChecker) ToolName() string { return "Outdated Packages" }

// Run lists outdated packages. Targets are ignored: the environment itself is
// the subject.
func (c *OutdatedPackagesChecker) Run(ctx context.Context, _ []string) CheckResult {
	packages, result, err := pipList(ctx, c.runner, "--outdated")
	if err != nil {
		if errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrToolTimedOut) {
			return unavailableResult(c.ToolName(), pipInstallHint, err)
		}
		return CheckResult{
			Passed:   false,
			ToolName: c.ToolName(),
			Errors:   []string{err.Error()},
		}
	}

	if len(packages) == 0 {
		return CheckResult{Passed: true, ToolName: c.ToolName(), Stdout: result.Stdout}
	}

	errs := make([]string, 0, len(packages))
	for _, pkg := range packages {
		errs = append(errs, pkg.VersionInfo())
	}
	depsLog.Printf("Found %d outdated package(s)", len(packages))
	return CheckResult{
		Passed:   false,
		ToolName: c.ToolName(),
		Errors:   errs,
		Stdout:   result.Stdout,
	}
}

// InstalledPackagesChecker lists every installed package. Purely
// informational: it only fails when the listing itself cannot run.
type InstalledPackagesChecker struct {
	runner CommandRunner
}

// NewInstalledPackagesChecker creates the installed-package lister.
func NewInstalledPackagesChecker(runner CommandRunner) *InstalledPackagesChecker {
	return &InstalledPackagesChecker{runner: runner}
}

// ToolName returns the stable checker identifier.
func (c *InstalledPackagesChecker) ToolName() string { return "Installed Packages" }

// Run captures the installed-package listing in the result's Stdout.
func (c *InstalledPackagesChecker) Run(ctx context.Context, _ []string) CheckResult {
	_, result, err := pipList(ctx, c.runner)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrToolTimedOut) {
			return unavailableResult(c.ToolName(), pipInstallHint, err)
		}
		return CheckResult{
			Passed:   false,
			ToolName: c.ToolName(),
			Errors:   []string{err.Error()},
		}
	}
	return CheckResult{Passed: true, ToolName: c.ToolName(), Stdout: result.Stdout}
}

// pyprojectFile models the subset of pyproject.toml the manifest checker
// reads.
type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// depNamePattern matches the leading package name of a PEP 508 requirement
// specifier.
var (
	depNamePattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)
	depNameSeparators = regexp.MustCompile(`[-_.]+`)
)

// normalizePackageName applies PEP 503 normalization so declared and
// installed names compare equal regardless of separator style.
func normalizePackageName(name string) string {
	return depNameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

// parseRequirementName extracts the package name from a requirement
// specifier like "ruff>=0.6" or "uvicorn[standard]".
func parseRequirementName(spec string) string {
	return depNamePattern.FindString(strings.TrimSpace(spec))
}

// ManifestDependenciesChecker cross-references the dependencies declared in
// pyproject.toml against the installed environment. A declared dependency
// that is not installed is an error.
type ManifestDependenciesChecker struct {
	runner       CommandRunner
	manifestPath string
	fallback     []string
}

// NewManifestDependenciesChecker creates the manifest checker. fallback names
// are checked when the manifest declares no dependencies of its own.
func NewManifestDependenciesChecker(runner CommandRunner, manifestPath string, fallback []string) *ManifestDependenciesChecker {
	return &ManifestDependenciesChecker{
		runner:       runner,
		manifestPath: manifestPath,
		fallback:     fallback,
	}
}

// ToolName returns the stable checker identifier.
func (c *ManifestDependenciesChecker) ToolName() string { return "Required Dependencies" }

// Run verifies every declared dependency resolves to an installed package.
// A missing manifest means there is nothing to check, which is success.
func (c *ManifestDependenciesChecker) Run(ctx context.Context, _ []string) CheckResult {
	declared, err := c.declaredDependencies()
	if err != nil {
		return CheckResult{
			Passed:   false,
			ToolName: c.ToolName(),
			Errors:   []string{err.Error()},
		}
	}
	if declared == nil {
		depsLog.Printf("No manifest at %s, nothing to check", c.manifestPath)
		return CheckResult{Passed: true, ToolName: c.ToolName()}
	}

	packages, result, err := pipList(ctx, c.runner)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrToolTimedOut) {
			return unavailableResult(c.ToolName(), pipInstallHint, err)
		}
		return CheckResult{
			Passed:   false,
			ToolName: c.ToolName(),
			Errors:   []string{err.Error()},
		}
	}

	installed := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		installed[normalizePackageName(pkg.Name)] = true
	}

	var missing []string
	for _, name := range declared {
		if !installed[normalizePackageName(name)] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Passed:   false,
			ToolName: c.ToolName(),
			Errors:   []string{"Missing packages: " + strings.Join(missing, ", ")},
			Stdout:   result.Stdout,
		}
	}
	return CheckResult{Passed: true, ToolName: c.ToolName(), Stdout: result.Stdout}
}

// declaredDependencies returns the ordered dependency names from the
// manifest, the fallback list when the manifest declares none, or nil when
// the manifest does not exist.
func (c *ManifestDependenciesChecker) declaredDependencies() ([]string, error) {
	data, err := os.ReadFile(c.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %v", c.manifestPath, err)
	}

	var manifest pyprojectFile
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", c.manifestPath, err)
	}

	var names []string
	seen := make(map[string]bool)
	add := func(specs []string) {
		for _, spec := range specs {
			name := parseRequirementName(spec)
			if name == "" || seen[normalizePackageName(name)] {
				continue
			}
			seen[normalizePackageName(name)] = true
			names = append(names, name)
		}
	}
	add(manifest.Project.Dependencies)
	for _, group := range sortedKeys(manifest.Project.OptionalDependencies) {
		add(manifest.Project.OptionalDependencies[group])
	}

	if len(names) == 0 {
		return append([]string(nil), c.fallback...), nil
	}
	return names, nil
}

// sortedKeys returns map keys in lexical order so dependency groups are
// always visited deterministically.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DependencyAuditor runs the fixed dependency check sequence: declared
// manifest dependencies, outdated packages, installed listing.
type DependencyAuditor struct {
	checkers []Checker
	verbose  bool
	out      io.Writer
}

// NewDependencyAuditor constructs the auditor with its fixed checker order.
func NewDependencyAuditor(runner CommandRunner, manifestPath string, fallback []string, verbose bool) *DependencyAuditor {
	return &DependencyAuditor{
		checkers: []Checker{
			NewManifestDependenciesChecker(runner, manifestPath, fallback),
			NewOutdatedPackagesChecker(runner),
			NewInstalledPackagesChecker(runner),
		},
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetOutput redirects progress and summary output, primarily for tests.
func (a *DependencyAuditor) SetOutput(w io.Writer) { a.out = w }

// RunAllChecks executes every checker in order and returns the folded report.
func (a *DependencyAuditor) RunAllChecks(ctx context.Context) CheckReport {
	if a.verbose {
		fmt.Fprintln(a.out, console.Separator())
		fmt.Fprintln(a.out, console.FormatBold("Dependencies Audit"))
		fmt.Fprintln(a.out, console.Separator())
	}

	report := CheckReport{}
	for _, checker := range a.checkers {
		if a.verbose {
			fmt.Fprintf(a.out, "\n%s\n", console.FormatHeader("Checking "+checker.ToolName()))
		}
		depsLog.Printf("Running checker: %s", checker.ToolName())

		result := runCheckerSafely(ctx, checker, nil)
		report.Results = append(report.Results, result)

		if a.verbose {
			a.printProgress(result)
		}
	}
	return report
}

func (a *DependencyAuditor) printProgress(result CheckResult) {
	switch {
	case result.Passed:
		fmt.Fprintln(a.out, console.FormatSuccessMessage(result.ToolName+" check passed"))
		if result.ToolName == "Installed Packages" {
			a.printPackageTable(result.Stdout)
		}
	case result.InstallHint != "":
		fmt.Fprintln(a.out, console.FormatErrorMessage(result.ToolName+": pip not available"))
	default:
		fmt.Fprintln(a.out, console.FormatWarningMessage(result.ToolName+" found issues"))
		for _, err := range result.Errors {
			fmt.Fprintln(a.out, "  "+err)
		}
	}
}

// printPackageTable renders the installed listing as an aligned table.
func (a *DependencyAuditor) printPackageTable(listing string) {
	packages, err := ParsePipJSON(listing)
	if err != nil || len(packages) == 0 {
		return
	}
	rows := make([][]string, 0, len(packages))
	for _, pkg := range packages {
		rows = append(rows, []string{pkg.Name, pkg.CurrentVersion})
	}
	fmt.Fprint(a.out, console.RenderTable(console.TableConfig{
		Headers: []string{"Package", "Version"},
		Rows:    rows,
	}))
}

// PrintSummary renders the report without re-running any check. Outdated
// packages are warnings in presentation but still fail the report.
func (a *DependencyAuditor) PrintSummary(report CheckReport) {
	fmt.Fprintf(a.out, "\n%s\n", console.Separator())
	if report.Passed() {
		fmt.Fprintln(a.out, console.FormatSuccessMessage("ALL DEPENDENCY CHECKS PASSED"))
	} else {
		fmt.Fprintln(a.out, console.FormatWarningMessage(
			fmt.Sprintf("DEPENDENCY AUDIT COMPLETED WITH ISSUES (%d issue(s))", len(report.AllErrors()))))
	}
	fmt.Fprintln(a.out, console.Separator())

	if errs := report.AllErrors(); len(errs) > 0 {
		fmt.Fprintln(a.out, "\nIssues:")
		for _, err := range errs {
			fmt.Fprintln(a.out, "  - "+err)
		}
		fmt.Fprintln(a.out, console.FormatInfoMessage("Run 'pip install --upgrade <package>' to update outdated packages"))
	}

	for _, result := range report.Results {
		if result.InstallHint != "" {
			fmt.Fprintf(a.out, "\nInstall %s: %s\n", result.ToolName, console.FormatCommandMessage(result.InstallHint))
		}
	}
}
