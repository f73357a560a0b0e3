// Package envcheck validates that the environment variables the stack needs
// are present, without ever printing their values in full.
package envcheck

import (
	"os"

	"github.com/devstack-labs/stackaudit/pkg/constants"
	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var envLog = logger.New("envcheck:validate")

// VarConfig describes one environment variable the stack depends on.
type VarConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"-"`
}

// IsSet reads the live environment. An empty value counts as unset: an
// empty secret is as unusable as a missing one.
func (v VarConfig) IsSet() bool {
	return os.Getenv(v.Name) != ""
}

// MaskedValue renders the variable's value for display. Long values keep a
// recognizable prefix, short values are fully hidden, unset values render
// empty.
func (v VarConfig) MaskedValue() string {
	value := os.Getenv(v.Name)
	if value == "" {
		return ""
	}
	if len(value) > constants.MaskLength {
		return value[:constants.MaskLength] + constants.MaskSuffix
	}
	return constants.ShortMask
}

// RequiredVars returns the default required variable set.
func RequiredVars() []VarConfig {
	return markRequired([]VarConfig{
		{Name: "GITHUB_OWNER", Description: "GitHub account owning the stack repositories"},
		{Name: "GH_PAT", Description: "GitHub personal access token"},
		{Name: "DOCKER_POSTGRES_PASSWORD", Description: "PostgreSQL superuser password"},
		{Name: "DOCKER_MARIADB_ROOT_PASSWORD", Description: "MariaDB root password"},
		{Name: "DOCKER_MARIADB_PASSWORD", Description: "MariaDB application user password"},
		{Name: "DOCKER_REDIS_PASSWORD", Description: "Redis auth password"},
		{Name: "DOCKER_MINIO_ROOT_USER", Description: "MinIO root user"},
		{Name: "DOCKER_MINIO_ROOT_PASSWORD", Description: "MinIO root password"},
		{Name: "DOCKER_GRAFANA_ADMIN_PASSWORD", Description: "Grafana admin password"},
		{Name: "DOCKER_JUPYTER_TOKEN", Description: "Jupyter access token"},
		{Name: "DOCKER_PGADMIN_PASSWORD", Description: "pgAdmin login password"},
	}, true)
}

// OptionalVars returns the default optional variable set.
func OptionalVars() []VarConfig {
	return markRequired([]VarConfig{
		{Name: "DOCKER_ACCESS_TOKEN", Description: "Docker Hub access token for higher pull limits"},
		{Name: "CODECOV_TOKEN", Description: "Codecov upload token"},
	}, false)
}

func markRequired(vars []VarConfig, required bool) []VarConfig {
	for i := range vars {
		vars[i].Required = required
	}
	return vars
}

// Result partitions the checked variables by outcome.
type Result struct {
	Present         []VarConfig
	MissingRequired []VarConfig
	MissingOptional []VarConfig
}

// IsValid reports whether every required variable is set. Missing optional
// variables never invalidate the environment.
func (r Result) IsValid() bool { return len(r.MissingRequired) == 0 }

// HasWarnings reports whether any optional variable is missing.
func (r Result) HasWarnings() bool { return len(r.MissingOptional) > 0 }

// TotalMissing counts every absent variable, required or not.
func (r Result) TotalMissing() int {
	return len(r.MissingRequired) + len(r.MissingOptional)
}

// Validator checks a fixed required/optional variable split against the
// live environment.
type Validator struct {
	required []VarConfig
	optional []VarConfig
}

// NewValidator builds a validator over explicit variable sets.
func NewValidator(required, optional []VarConfig) *Validator {
	return &Validator{required: required, optional: optional}
}

// NewDefaultValidator builds a validator over the built-in variable sets.
func NewDefaultValidator() *Validator {
	return NewValidator(RequiredVars(), OptionalVars())
}

// Validate reads the live environment once per variable and partitions the
// outcome.
func (v *Validator) Validate() Result {
	var result Result
	for _, vc := range v.required {
		if vc.IsSet() {
			result.Present = append(result.Present, vc)
		} else {
			envLog.Printf("Required variable %s is not set", vc.Name)
			result.MissingRequired = append(result.MissingRequired, vc)
		}
	}
	for _, vc := range v.optional {
		if vc.IsSet() {
			result.Present = append(result.Present, vc)
		} else {
			result.MissingOptional = append(result.MissingOptional, vc)
		}
	}
	return result
}
