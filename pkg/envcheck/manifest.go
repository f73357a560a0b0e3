package envcheck

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// manifestFile models the on-disk variable manifest. Projects override the
// built-in variable sets by declaring their own in .stackaudit/env.yaml.
type manifestFile struct {
	Required []VarConfig `yaml:"required"`
	Optional []VarConfig `yaml:"optional"`
}

// LoadManifest builds a validator from the manifest at path. A missing
// manifest falls back to the built-in variable sets; a malformed one is an
// error, never a silent fallback.
func LoadManifest(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			envLog.Printf("No manifest at %s, using built-in variable sets", path)
			return NewDefaultValidator(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var manifest manifestFile
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(manifest.Required) == 0 && len(manifest.Optional) == 0 {
		return nil, fmt.Errorf("manifest %s declares no variables", path)
	}

	return NewValidator(
		markRequired(manifest.Required, true),
		markRequired(manifest.Optional, false),
	), nil
}
