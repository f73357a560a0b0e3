package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckReportAggregation(t *testing.T) {
	tests := []struct {
		name       string
		results    []CheckResult
		wantPassed bool
		wantFailed int
	}{
		{
			name:       "empty report passes",
			results:    nil,
			wantPassed: true,
			wantFailed: 0,
		},
		{
			name: "all passing",
			results: []CheckResult{
				{Passed: true, ToolName: "Black"},
				{Passed: true, ToolName: "Ruff"},
			},
			wantPassed: true,
			wantFailed: 0,
		},
		{
			name: "one failing flips report",
			results: []CheckResult{
				{Passed: true, ToolName: "Black"},
				{Passed: false, ToolName: "Ruff", Errors: []string{"a.py:1:1: E501"}},
				{Passed: true, ToolName: "mypy"},
			},
			wantPassed: false,
			wantFailed: 1,
		},
		{
			name: "all failing",
			results: []CheckResult{
				{Passed: false, ToolName: "Black", Errors: []string{"would reformat a.py"}},
				{Passed: false, ToolName: "Ruff", Errors: []string{"b.py:2:1: F401"}},
			},
			wantPassed: false,
			wantFailed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CheckReport{Results: tt.results}
			assert.Equal(t, tt.wantPassed, report.Passed())
			assert.Equal(t, len(tt.results), report.TotalChecks())
			assert.Equal(t, tt.wantFailed, report.FailedChecks())
			assert.Equal(t, len(tt.results)-tt.wantFailed, report.PassedChecks())
		})
	}
}

func TestCheckReportAllErrorsPreservesOrder(t *testing.T) {
	report := CheckReport{Results: []CheckResult{
		{Passed: false, ToolName: "Black", Errors: []string{"first", "second"}},
		{Passed: true, ToolName: "Ruff"},
		{Passed: false, ToolName: "mypy", Errors: []string{"third"}},
	}}

	assert.Equal(t, []string{"first", "second", "third"}, report.AllErrors())
}

func TestMixedDomainRunScenario(t *testing.T) {
	// Three checks, exactly one reporting violations.
	report := CheckReport{Results: []CheckResult{
		{Passed: true, ToolName: "Black"},
		{Passed: false, ToolName: "Ruff", Errors: []string{"x.py:1:1: E501 Line too long", "x.py:9:1: F401 unused import"}},
		{Passed: true, ToolName: "mypy"},
	}}

	assert.Equal(t, 3, report.TotalChecks())
	assert.Equal(t, 2, report.PassedChecks())
	assert.Equal(t, 1, report.FailedChecks())
	assert.False(t, report.Passed())
	assert.Equal(t,
		[]string{"x.py:1:1: E501 Line too long", "x.py:9:1: F401 unused import"},
		report.AllErrors())
}
