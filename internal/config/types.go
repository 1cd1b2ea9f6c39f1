// Package config loads dbtlens's project configuration file into an
// analysis.Config, decoupled from CLI concerns so callers other than the
// CLI can load the same project settings the CLI does.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/analysis"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/warehouse"
)

// WarehouseConfig holds the koanf-tagged connection block for the one live
// warehouse Drift can connect to.
type WarehouseConfig struct {
	Driver   string `koanf:"driver"` // currently only "postgres"
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`
}

// ProjectConfig is the full, koanf-tagged shape of dbtlens.yaml.
type ProjectConfig struct {
	Dialect           string            `koanf:"dialect"`
	SeverityOverrides map[string]string `koanf:"severity_overrides"`
	AllowWidening     []string          `koanf:"allow_widening"`
	AllowExtraColumns []string          `koanf:"allow_extra_columns"`
	SkipModels        []string          `koanf:"skip_models"`
	Redact            bool              `koanf:"redact"`
	Warehouse         *WarehouseConfig  `koanf:"warehouse"`
}

// ToAnalysisConfig converts the loaded, defaulted ProjectConfig into the
// immutable analysis.Config the engine actually runs against.
func (c *ProjectConfig) ToAnalysisConfig() (analysis.Config, error) {
	overrides := make(map[string]diagnostic.Severity, len(c.SeverityOverrides))
	for code, sev := range c.SeverityOverrides {
		parsed, err := parseSeverity(sev)
		if err != nil {
			return analysis.Config{}, fmt.Errorf("severity_overrides.%s: %w", code, err)
		}
		overrides[code] = parsed
	}

	cfg := analysis.Config{
		Dialect:           c.Dialect,
		SeverityOverrides: overrides,
		AllowWidening:     c.AllowWidening,
		AllowExtraColumns: c.AllowExtraColumns,
		SkipModels:        c.SkipModels,
		Redact:            c.Redact,
	}

	if c.Warehouse != nil && c.Warehouse.Driver == "postgres" {
		cfg.Warehouse = &analysis.WarehouseConfig{
			Postgres: &warehouse.PostgresConfig{
				Host:     c.Warehouse.Host,
				Port:     c.Warehouse.Port,
				Database: c.Warehouse.Database,
				Username: c.Warehouse.User,
				Password: c.Warehouse.Password,
				SSLMode:  c.Warehouse.SSLMode,
			},
		}
	}

	return cfg, nil
}

func parseSeverity(s string) (diagnostic.Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return diagnostic.Error, nil
	case "warning":
		return diagnostic.Warning, nil
	case "info":
		return diagnostic.Info, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want error, warning or info)", s)
	}
}
