package validation

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0o644))
}

func TestDiscoverFilesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.yaml"))
	writeFile(t, filepath.Join(root, "a.yml"))
	writeFile(t, filepath.Join(root, "sub", "c.yaml"))
	writeFile(t, filepath.Join(root, "readme.md"))

	files, err := DiscoverFiles(root, nil, ".yml", ".yaml")
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.True(t, sort.StringsAreSorted(files))
	assert.Equal(t, "a.yml", filepath.Base(files[0]))
}

func TestDiscoverFilesSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kept.yaml"))
	writeFile(t, filepath.Join(root, ".git", "hidden.yaml"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "deep.yaml"))
	writeFile(t, filepath.Join(root, "vendor", "v.yaml"))

	files, err := DiscoverFiles(root, nil, ".yaml")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "kept.yaml", filepath.Base(files[0]))
}

func TestDiscoverFilesDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.json"))
	writeFile(t, filepath.Join(root, "a.json"))
	writeFile(t, filepath.Join(root, "m", "n.json"))

	first, err := DiscoverFiles(root, nil, ".json")
	require.NoError(t, err)
	second, err := DiscoverFiles(root, nil, ".json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
