package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/logger"
)

var jsonLog = logger.New("validation:json")

// JSONValidator parses every JSON file under root with the strict decoder.
// Files in dialects that permit comments (editor and tooling configs) are
// skipped, since strict parsing would reject them spuriously.
type JSONValidator struct {
	root     string
	excluded []string
}

// NewJSONValidator creates a JSON syntax validator rooted at root.
func NewJSONValidator(root string, excluded []string) *JSONValidator {
	return &JSONValidator{root: root, excluded: excluded}
}

// ConfigType identifies this validator.
func (v *JSONValidator) ConfigType() ConfigType { return ConfigTypeJSON }

// isJSONCFile reports whether the file is in a comment-tolerant dialect.
func isJSONCFile(path string) bool {
	base := filepath.Base(path)
	switch {
	case base == "devcontainer.json":
		return true
	case strings.HasSuffix(base, ".code-workspace"):
		return true
	case strings.HasPrefix(base, "tsconfig"):
		return true
	}
	return false
}

// Validate parses every discovered JSON file. A tree with no JSON files
// passes.
func (v *JSONValidator) Validate(ctx context.Context) Result {
	files, err := DiscoverFiles(v.root, v.excluded, ".json")
	if err != nil {
		return Result{
			Passed:     false,
			ConfigType: v.ConfigType(),
			Errors:     []string{fmt.Sprintf("file discovery failed: %v", err)},
		}
	}

	var validated []string
	var errs []string
	for _, path := range files {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err().Error())
			break
		}
		if isJSONCFile(path) {
			jsonLog.Printf("Skipping comment-tolerant file %s", path)
			continue
		}
		validated = append(validated, path)

		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
		}
	}

	return Result{
		Passed:         len(errs) == 0,
		ConfigType:     v.ConfigType(),
		ValidatedFiles: validated,
		Errors:         errs,
	}
}
