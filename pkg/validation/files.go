package validation

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/constants"
)

// DiscoverFiles walks root and returns every file whose name matches one of
// the extensions (".yml", ".json", ...), in sorted order. Directories in
// excludedDirs (the built-in exclusion list when nil) are never descended
// into, so generated trees and VCS metadata cannot produce spurious
// findings.
func DiscoverFiles(root string, excludedDirs []string, extensions ...string) ([]string, error) {
	if excludedDirs == nil {
		excludedDirs = constants.ExcludedDirs
	}
	excluded := make(map[string]bool, len(excludedDirs))
	for _, dir := range excludedDirs {
		excluded[dir] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range extensions {
			if strings.EqualFold(filepath.Ext(path), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
