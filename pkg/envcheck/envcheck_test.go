package envcheck

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskedValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"long value keeps prefix", "ghp_abcdefghijklmnop", "ghp_abcd..."},
		{"exactly nine characters", "123456789", "12345678..."},
		{"exactly eight characters fully hidden", "12345678", "***"},
		{"short value fully hidden", "hunter2", "***"},
		{"unset renders empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := VarConfig{Name: "STACKAUDIT_TEST_MASK"}
			if tt.value != "" {
				t.Setenv(vc.Name, tt.value)
			}
			assert.Equal(t, tt.want, vc.MaskedValue())
		})
	}
}

func TestIsSetTreatsEmptyAsMissing(t *testing.T) {
	vc := VarConfig{Name: "STACKAUDIT_TEST_EMPTY"}
	t.Setenv(vc.Name, "")

	assert.False(t, vc.IsSet())
}

func TestDefaultVariableSets(t *testing.T) {
	required := RequiredVars()
	optional := OptionalVars()

	assert.Len(t, required, 11)
	assert.Len(t, optional, 2)
	for _, vc := range required {
		assert.True(t, vc.Required, vc.Name)
		assert.NotEmpty(t, vc.Description, vc.Name)
	}
	for _, vc := range optional {
		assert.False(t, vc.Required, vc.Name)
	}
}

func TestValidatePartitionsOutcome(t *testing.T) {
	t.Setenv("STACKAUDIT_TEST_A", "set-value")
	validator := NewValidator(
		markRequired([]VarConfig{
			{Name: "STACKAUDIT_TEST_A"},
			{Name: "STACKAUDIT_TEST_B_UNSET"},
		}, true),
		markRequired([]VarConfig{
			{Name: "STACKAUDIT_TEST_C_UNSET"},
		}, false),
	)

	result := validator.Validate()

	require.Len(t, result.Present, 1)
	assert.Equal(t, "STACKAUDIT_TEST_A", result.Present[0].Name)
	require.Len(t, result.MissingRequired, 1)
	assert.Equal(t, "STACKAUDIT_TEST_B_UNSET", result.MissingRequired[0].Name)
	require.Len(t, result.MissingOptional, 1)
	assert.False(t, result.IsValid())
	assert.True(t, result.HasWarnings())
	assert.Equal(t, 2, result.TotalMissing())
}

func TestMissingOptionalOnlyStillValid(t *testing.T) {
	t.Setenv("STACKAUDIT_TEST_REQ", "present")
	validator := NewValidator(
		markRequired([]VarConfig{{Name: "STACKAUDIT_TEST_REQ"}}, true),
		markRequired([]VarConfig{{Name: "STACKAUDIT_TEST_OPT_UNSET"}}, false),
	)

	result := validator.Validate()

	assert.True(t, result.IsValid())
	assert.True(t, result.HasWarnings())
}

func TestPrintReportMasksValuesAndListsFix(t *testing.T) {
	t.Setenv("STACKAUDIT_TEST_TOKEN", "supersecretvalue123")
	result := NewValidator(
		markRequired([]VarConfig{
			{Name: "STACKAUDIT_TEST_TOKEN", Description: "test token"},
			{Name: "STACKAUDIT_TEST_MISSING", Description: "always absent"},
		}, true),
		nil,
	).Validate()

	var buf bytes.Buffer
	PrintReport(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "supersec...")
	assert.NotContains(t, out, "supersecretvalue123")
	assert.Contains(t, out, "STACKAUDIT_TEST_MISSING is not set")
	assert.Contains(t, out, "1 required environment variable(s) missing")
	assert.Contains(t, out, "cp .env.example .env")
}
