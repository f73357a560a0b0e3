package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	rootCmd := NewRootCommand("1.2.3")

	assert.Equal(t, "stackaudit", rootCmd.Use)
	assert.Equal(t, "1.2.3", rootCmd.Version)
	assert.True(t, rootCmd.SilenceUsage)

	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "code")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "deps")
	assert.Contains(t, names, "env")
	assert.Contains(t, names, "all")
}

func TestPersistentFlags(t *testing.T) {
	rootCmd := NewRootCommand("dev")

	verbose := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	configFlag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestConfigCommandWatchFlag(t *testing.T) {
	cmd := NewConfigCommand()

	watch := cmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)
	assert.Equal(t, "false", watch.DefValue)
}

func TestExitErrorCarriesCode(t *testing.T) {
	err := NewExitError(1, "code quality audit failed: 1 of 3 checks failed")

	assert.Equal(t, 1, err.Code)
	assert.EqualError(t, err, "code quality audit failed: 1 of 3 checks failed")
}
