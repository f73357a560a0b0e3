// Package validation checks configuration files across the repository:
// YAML and JSON syntax, plus nginx, PostgreSQL and MariaDB configurations
// validated by the real service binaries running in sandboxed containers.
package validation

// ConfigType identifies the family of configuration a validator covers.
type ConfigType string

const (
	ConfigTypeYAML       ConfigType = "yaml"
	ConfigTypeJSON       ConfigType = "json"
	ConfigTypeNginx      ConfigType = "nginx"
	ConfigTypePostgreSQL ConfigType = "postgresql"
	ConfigTypeMariaDB    ConfigType = "mariadb"
)

// Result is the outcome of one validator run. ValidatedFiles lists every
// file the validator examined, passed or not.
type Result struct {
	Passed         bool
	ConfigType     ConfigType
	ValidatedFiles []string
	Errors         []string
}

// Report folds the results of a full validation pass. All accessors derive
// from Results so the report can never disagree with itself.
type Report struct {
	Results []Result
}

// IsValid reports whether every validator passed.
func (r Report) IsValid() bool {
	for _, result := range r.Results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// TotalFiles counts every file examined across all validators.
func (r Report) TotalFiles() int {
	n := 0
	for _, result := range r.Results {
		n += len(result.ValidatedFiles)
	}
	return n
}

// TotalErrors counts every recorded error.
func (r Report) TotalErrors() int {
	n := 0
	for _, result := range r.Results {
		n += len(result.Errors)
	}
	return n
}

// AllErrors flattens errors in validator order.
func (r Report) AllErrors() []string {
	var errs []string
	for _, result := range r.Results {
		errs = append(errs, result.Errors...)
	}
	return errs
}

// FailedValidators lists the config types that did not pass, in run order.
func (r Report) FailedValidators() []ConfigType {
	var failed []ConfigType
	for _, result := range r.Results {
		if !result.Passed {
			failed = append(failed, result.ConfigType)
		}
	}
	return failed
}
