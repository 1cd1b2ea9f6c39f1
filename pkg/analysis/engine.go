// Package analysis ties the artifact loader, query layer and report
// assembler together into the three operations the CLI and any other
// caller drive a run through: Check, Impact and Drift.
package analysis

import (
	"log/slog"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/warehouse"
)

// WarehouseConfig names the live connector Drift should open when the
// caller doesn't supply an already-constructed warehouse.SchemaFetcher
// directly. Only Postgres is wired today; other dialects load without a
// warehouse connector and Drift then returns an error if invoked.
type WarehouseConfig struct {
	Postgres *warehouse.PostgresConfig
	Cache    *warehouse.CacheConfig
}

// Config is the immutable, fully-resolved configuration threaded through
// every Engine call. It never changes mid-run; anything that varies by
// invocation (which models, whether this is a modified-only run) belongs
// on the per-call options instead.
type Config struct {
	Dialect           string
	SeverityOverrides map[string]diagnostic.Severity
	AllowWidening     []string
	AllowExtraColumns []string
	SkipModels        []string
	Warehouse         *WarehouseConfig
	Redact            bool
}

// Engine runs dbtlens's three analysis operations against one resolved
// Config. It holds no mutable state of its own between calls; everything
// per-run lives in the inferenceGraph built fresh inside each call.
type Engine struct {
	Logger *slog.Logger
	Config Config
}

// NewEngine builds an Engine. A nil logger discards everything, so callers
// that don't care about diagnostics-grade logging don't need to construct
// one.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{Logger: logger, Config: cfg}
}

// severityOverrides converts Config's string-keyed overrides (the shape
// config files and CLI flags naturally produce) into the Code-keyed map
// diagnostic.ApplyOverrides expects.
func (e *Engine) severityOverrides() map[diagnostic.Code]diagnostic.Severity {
	if len(e.Config.SeverityOverrides) == 0 {
		return nil
	}
	out := make(map[diagnostic.Code]diagnostic.Severity, len(e.Config.SeverityOverrides))
	for code, sev := range e.Config.SeverityOverrides {
		out[diagnostic.Code(code)] = sev
	}
	return out
}

func (e *Engine) skipsModel(id string) bool {
	for _, skip := range e.Config.SkipModels {
		if skip == id {
			return true
		}
	}
	return false
}
