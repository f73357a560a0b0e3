package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devstack-labs/stackaudit/pkg/audit"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	"github.com/devstack-labs/stackaudit/pkg/sandbox"
)

var serviceLog = logger.New("validation:service")

// ContainerRunner is the subset of the sandbox a service validator needs.
type ContainerRunner interface {
	Run(ctx context.Context, spec sandbox.RunSpec) (*audit.ExecResult, error)
}

// serviceValidator validates configuration files by feeding them to the real
// service binary inside a container. One container per file, so a single
// broken config cannot mask findings in its siblings.
type serviceValidator struct {
	configType ConfigType
	sandbox    ContainerRunner
	configs    []string
	buildSpec  func(hostPath string) sandbox.RunSpec
}

func (v *serviceValidator) ConfigType() ConfigType { return v.configType }

// Validate checks every configured file that exists. Files that are absent
// are skipped, not failed: a repository without the service declares nothing
// to validate.
func (v *serviceValidator) Validate(ctx context.Context) Result {
	var validated []string
	var errs []string

	for _, path := range v.configs {
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			serviceLog.Printf("Skipping absent config %s", path)
			continue
		}
		validated = append(validated, path)

		result, err := v.sandbox.Run(ctx, v.buildSpec(abs))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if result.ExitCode != 0 {
			errs = append(errs, fmt.Sprintf("%s: %s validation failed: %s",
				path, v.configType, strings.TrimSpace(result.Output())))
		}
	}

	return Result{
		Passed:         len(errs) == 0,
		ConfigType:     v.configType,
		ValidatedFiles: validated,
		Errors:         errs,
	}
}

// NewNginxValidator validates nginx configs with `nginx -t` in a container.
// Each file is mounted read-only and tested as the main configuration.
func NewNginxValidator(sb ContainerRunner, configs []string, image string) Validator {
	return &serviceValidator{
		configType: ConfigTypeNginx,
		sandbox:    sb,
		configs:    configs,
		buildSpec: func(hostPath string) sandbox.RunSpec {
			target := "/etc/nginx/" + filepath.Base(hostPath)
			return sandbox.RunSpec{
				Image:       image,
				MountSource: hostPath,
				MountTarget: target,
				Command:     []string{"nginx", "-t", "-c", target},
			}
		},
	}
}

// NewPostgreSQLValidator validates postgresql.conf by asking the postgres
// binary to load it and report a setting. Parse errors surface as a non-zero
// exit before any data directory is touched.
func NewPostgreSQLValidator(sb ContainerRunner, configPath, image string) Validator {
	return &serviceValidator{
		configType: ConfigTypePostgreSQL,
		sandbox:    sb,
		configs:    []string{configPath},
		buildSpec: func(hostPath string) sandbox.RunSpec {
			target := "/etc/postgresql/postgresql.conf"
			return sandbox.RunSpec{
				Image:       image,
				MountSource: hostPath,
				MountTarget: target,
				Command:     []string{"postgres", "--config-file=" + target, "-C", "data_directory"},
			}
		},
	}
}

// NewMariaDBValidator validates a MariaDB config with the server binary in
// help mode, which parses the defaults file without starting the daemon.
func NewMariaDBValidator(sb ContainerRunner, configPath, image string) Validator {
	return &serviceValidator{
		configType: ConfigTypeMariaDB,
		sandbox:    sb,
		configs:    []string{configPath},
		buildSpec: func(hostPath string) sandbox.RunSpec {
			target := "/etc/mysql/validate.cnf"
			return sandbox.RunSpec{
				Image:       image,
				MountSource: hostPath,
				MountTarget: target,
				Command:     []string{"mariadbd", "--defaults-file=" + target, "--help", "--verbose"},
			}
		},
	}
}
