package validation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	kind   ConfigType
	result Result
	panics bool
	runs   int
}

func (s *stubValidator) ConfigType() ConfigType { return s.kind }
func (s *stubValidator) Validate(context.Context) Result {
	s.runs++
	if s.panics {
		panic("validator blew up")
	}
	return s.result
}

func TestAuditorRunsEveryValidatorDespiteFailures(t *testing.T) {
	yaml := &stubValidator{kind: ConfigTypeYAML, result: Result{Passed: true, ConfigType: ConfigTypeYAML}}
	json := &stubValidator{kind: ConfigTypeJSON, result: Result{
		Passed: false, ConfigType: ConfigTypeJSON, Errors: []string{"a.json: unexpected end of input"},
	}}
	nginx := &stubValidator{kind: ConfigTypeNginx, result: Result{Passed: true, ConfigType: ConfigTypeNginx}}

	auditor := NewConfigurationAuditorWithValidators([]Validator{yaml, json, nginx}, false)
	report := auditor.RunAll(context.Background())

	assert.Equal(t, 1, yaml.runs)
	assert.Equal(t, 1, json.runs)
	assert.Equal(t, 1, nginx.runs)
	assert.False(t, report.IsValid())
	assert.Equal(t, []ConfigType{ConfigTypeJSON}, report.FailedValidators())
}

func TestAuditorRecoversFromPanickingValidator(t *testing.T) {
	broken := &stubValidator{kind: ConfigTypePostgreSQL, panics: true}
	after := &stubValidator{kind: ConfigTypeMariaDB, result: Result{Passed: true, ConfigType: ConfigTypeMariaDB}}

	auditor := NewConfigurationAuditorWithValidators([]Validator{broken, after}, false)
	report := auditor.RunAll(context.Background())

	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].Passed)
	assert.Contains(t, report.Results[0].Errors[0], "validator blew up")
	assert.True(t, report.Results[1].Passed)
}

func TestAuditorDefaultOrder(t *testing.T) {
	auditor := NewConfigurationAuditor(nil, Options{Root: t.TempDir()})

	var order []ConfigType
	for _, v := range auditor.validators {
		order = append(order, v.ConfigType())
	}
	assert.Equal(t, []ConfigType{
		ConfigTypeYAML,
		ConfigTypeJSON,
		ConfigTypeNginx,
		ConfigTypePostgreSQL,
		ConfigTypeMariaDB,
	}, order)
}

func TestPrintSummaryPassing(t *testing.T) {
	auditor := NewConfigurationAuditorWithValidators(nil, false)
	var buf bytes.Buffer
	auditor.SetOutput(&buf)

	auditor.PrintSummary(Report{Results: []Result{
		{Passed: true, ConfigType: ConfigTypeYAML, ValidatedFiles: []string{"a.yml"}},
	}})

	assert.Contains(t, buf.String(), "ALL VALIDATIONS PASSED (1 file(s) checked)")
}

func TestPrintSummaryFailing(t *testing.T) {
	auditor := NewConfigurationAuditorWithValidators(nil, false)
	var buf bytes.Buffer
	auditor.SetOutput(&buf)

	auditor.PrintSummary(Report{Results: []Result{
		{Passed: false, ConfigType: ConfigTypeNginx, Errors: []string{"main.conf: nginx validation failed: [emerg]"}},
	}})

	out := buf.String()
	assert.Contains(t, out, "VALIDATION FAILED (1 error(s))")
	assert.Contains(t, out, "main.conf: nginx validation failed")
	assert.Contains(t, out, "nginx")
}
