package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"scripts/python/", "scripts/orchestrator.py"}, cfg.PythonTargets)
	assert.Equal(t, ".config/database/postgresql.conf", cfg.PostgreSQLConfig)
	assert.Equal(t, "nginx:alpine", cfg.NginxImage)
	assert.Equal(t, 120*time.Second, cfg.ToolTimeout)
	assert.Contains(t, cfg.ExcludedDirs, "node_modules")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("python_targets:\n  - src/\ntool_timeout: 30s\nnginx_image: nginx:1.27-alpine\n")
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/"}, cfg.PythonTargets)
	assert.Equal(t, 30*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "nginx:1.27-alpine", cfg.NginxImage)
	// Untouched settings keep their defaults.
	assert.Equal(t, ".config/database/mariadb.conf", cfg.MariaDBConfig)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadImplicitFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("postgresql_config: infra/pg.conf\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".stackaudit.yaml"), content, 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "infra/pg.conf", cfg.PostgreSQLConfig)
}
