// Package constants holds fixed policy values shared across the audit and
// validation domains: tool line-length limits, config file locations, masking
// rules for secret display, and the directories excluded from file discovery.
package constants

import "time"

// Code formatting policy.
const (
	BlackLineLength = 100
	YAMLLineLength  = 120
)

// Masking of sensitive environment values. Values longer than MaskLength show
// their first MaskLength characters followed by MaskSuffix; shorter values
// show only ShortMask.
const (
	MaskLength = 8
	MaskSuffix = "..."
	ShortMask  = "***"
)

// DefaultToolTimeout bounds every external tool invocation. A tool that
// exceeds it is reported as unavailable rather than hanging the audit.
const DefaultToolTimeout = 120 * time.Second

// DefaultPythonTargets are the paths checked by the code quality auditor.
var DefaultPythonTargets = []string{"scripts/python/", "scripts/orchestrator.py"}

// Service configuration files validated by the configuration auditor.
var (
	NginxConfigs = []string{
		".config/nginx/loadbalancer.conf",
		".config/nginx/main.conf",
		".config/nginx/default.conf",
	}
	PostgreSQLConfig = ".config/database/postgresql.conf"
	MariaDBConfig    = ".config/database/mariadb.conf"
)

// PyprojectPath is the project manifest checked by the dependency auditor.
const PyprojectPath = "pyproject.toml"

// RequiredPackages must be installed for the audit toolchain to work.
var RequiredPackages = []string{"black", "ruff", "mypy", "yamllint", "pytest"}

// ExcludedDirs are never descended into during file discovery.
var ExcludedDirs = []string{".git", "node_modules", ".vscode", "vendor", ".idea"}

// Container images used for service-binary config validation.
const (
	NginxImage      = "nginx:alpine"
	PostgreSQLImage = "postgres:16-alpine"
	MariaDBImage    = "mariadb:11"
)
