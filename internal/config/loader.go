package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/dbtlens/pkg/analysis"
)

// ConfigFileName is the name of the project config file.
const ConfigFileName = "dbtlens.yaml"

// ConfigFileNameAlt is the alternate name of the project config file.
const ConfigFileNameAlt = "dbtlens.yml"

// EnvPrefix is the environment variable prefix overlaying dbtlens.yaml,
// e.g. DBTLENS_DIALECT=snowflake.
const EnvPrefix = "DBTLENS_"

// LoadFromDir loads an analysis.Config from the given directory: the
// project's dbtlens.yaml/yml overlaid with DBTLENS_* environment
// variables. Returns the zero-value defaulted config, not an error, if no
// config file is found — a dbtlens project with no config file is valid.
func LoadFromDir(dir string) (analysis.Config, error) {
	k := koanf.New(".")

	if path := findConfigFile(dir); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return analysis.Config{}, err
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return analysis.Config{}, err
	}

	var cfg ProjectConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return analysis.Config{}, err
	}
	ApplyDefaults(&cfg)

	return cfg.ToAnalysisConfig()
}

func findConfigFile(dir string) string {
	if path := filepath.Join(dir, ConfigFileName); fileExists(path) {
		return path
	}
	if path := filepath.Join(dir, ConfigFileNameAlt); fileExists(path) {
		return path
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up from startDir to find a directory containing
// dbtlens.yaml or dbtlens.yml. Returns "" if none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if findConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
