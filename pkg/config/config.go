// Package config loads stackaudit settings from an optional .stackaudit.yaml
// in the repository root, with STACKAUDIT_* environment overrides. Every
// setting defaults to the policy constants, so running without a config file
// is the common case.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devstack-labs/stackaudit/pkg/constants"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	"github.com/spf13/viper"
)

var configLog = logger.New("config:loader")

// Config holds all tunable settings for an audit run.
type Config struct {
	PythonTargets    []string      `mapstructure:"python_targets"`
	ExcludedDirs     []string      `mapstructure:"excluded_dirs"`
	NginxConfigs     []string      `mapstructure:"nginx_configs"`
	PostgreSQLConfig string        `mapstructure:"postgresql_config"`
	MariaDBConfig    string        `mapstructure:"mariadb_config"`
	PyprojectPath    string        `mapstructure:"pyproject_path"`
	ToolTimeout      time.Duration `mapstructure:"tool_timeout"`
	NginxImage       string        `mapstructure:"nginx_image"`
	PostgreSQLImage  string        `mapstructure:"postgresql_image"`
	MariaDBImage     string        `mapstructure:"mariadb_image"`
	EnvManifest      string        `mapstructure:"env_manifest"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PythonTargets:    append([]string(nil), constants.DefaultPythonTargets...),
		ExcludedDirs:     append([]string(nil), constants.ExcludedDirs...),
		NginxConfigs:     append([]string(nil), constants.NginxConfigs...),
		PostgreSQLConfig: constants.PostgreSQLConfig,
		MariaDBConfig:    constants.MariaDBConfig,
		PyprojectPath:    constants.PyprojectPath,
		ToolTimeout:      constants.DefaultToolTimeout,
		NginxImage:       constants.NginxImage,
		PostgreSQLImage:  constants.PostgreSQLImage,
		MariaDBImage:     constants.MariaDBImage,
		EnvManifest:      ".stackaudit/env.yaml",
	}
}

// Load reads configuration from path, or from .stackaudit.yaml in the current
// directory when path is empty. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("python_targets", defaults.PythonTargets)
	v.SetDefault("excluded_dirs", defaults.ExcludedDirs)
	v.SetDefault("nginx_configs", defaults.NginxConfigs)
	v.SetDefault("postgresql_config", defaults.PostgreSQLConfig)
	v.SetDefault("mariadb_config", defaults.MariaDBConfig)
	v.SetDefault("pyproject_path", defaults.PyprojectPath)
	v.SetDefault("tool_timeout", defaults.ToolTimeout)
	v.SetDefault("nginx_image", defaults.NginxImage)
	v.SetDefault("postgresql_image", defaults.PostgreSQLImage)
	v.SetDefault("mariadb_image", defaults.MariaDBImage)
	v.SetDefault("env_manifest", defaults.EnvManifest)

	v.SetEnvPrefix("STACKAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".stackaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicit path must exist; for the implicit lookup only a parse
		// failure is fatal.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		configLog.Printf("Loaded config file: %s", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = constants.DefaultToolTimeout
	}

	configLog.Printf("Config ready: targets=%v, timeout=%s", cfg.PythonTargets, cfg.ToolTimeout)
	return cfg, nil
}
