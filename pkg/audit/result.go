package audit

// CheckResult captures the outcome of a single checker invocation.
//
// Exactly one of two failure shapes is possible: the tool ran and reported
// violations (Errors populated, InstallHint empty), or the tool could not be
// invoked at all (Errors empty, InstallHint populated). A passing result has
// neither.
type CheckResult struct {
	Passed      bool
	ToolName    string
	Errors      []string
	Stdout      string
	InstallHint string
}

// HasErrors reports whether the result contains any error messages.
func (r CheckResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// CheckReport aggregates the results of one auditor run. Results keep
// execution order; every aggregate value is derived, never stored.
type CheckReport struct {
	Results []CheckResult
}

// Passed reports whether every check passed. An empty report passes.
func (r CheckReport) Passed() bool {
	for _, result := range r.Results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// TotalChecks returns the number of checks run.
func (r CheckReport) TotalChecks() int {
	return len(r.Results)
}

// PassedChecks returns the number of checks that passed.
func (r CheckReport) PassedChecks() int {
	count := 0
	for _, result := range r.Results {
		if result.Passed {
			count++
		}
	}
	return count
}

// FailedChecks returns the number of checks that failed.
func (r CheckReport) FailedChecks() int {
	return len(r.Results) - r.PassedChecks()
}

// AllErrors returns every error message in execution order.
func (r CheckReport) AllErrors() []string {
	var errors []string
	for _, result := range r.Results {
		errors = append(errors, result.Errors...)
	}
	return errors
}
