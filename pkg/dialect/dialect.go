// Package dialect classifies SQL functions and identifier-normalization
// rules per warehouse. Unlike the builder/SPI pattern used for a
// print-capable parser, this package only needs to drive the parser and
// type-inference lookups, so it drops the clause/operator/join builder
// machinery down to plain classification tables (see DESIGN.md).
package dialect

import "strings"

// FunctionClass says how a function participates in lineage and schema
// inference: an aggregate collapses rows, a generator introduces a value
// with no column provenance, a window function requires an OVER clause.
type FunctionClass int

const (
	ClassScalar FunctionClass = iota
	ClassAggregate
	ClassGenerator
	ClassWindow
)

// CastGrammar names the syntax a dialect accepts for explicit casts.
type CastGrammar int

const (
	CastFunctionStyle CastGrammar = iota // CAST(expr AS type)
	CastColonColon                       // expr::type, in addition to CAST(...)
)

// Dialect is a warehouse-specific function/identifier configuration.
type Dialect struct {
	Name          string
	DefaultSchema string
	CaseFold      func(string) string // identifier normalization, e.g. strings.ToLower
	CastGrammar   CastGrammar
	ReservedWords map[string]struct{}

	aggregates map[string]struct{}
	generators map[string]struct{}
	windows    map[string]struct{}
}

// NormalizeName implements schema.Normalizer.
func (d *Dialect) NormalizeName(s string) string {
	if d.CaseFold == nil {
		return s
	}
	return d.CaseFold(s)
}

// ClassifyFunction returns a function's lineage class. Names are matched
// case-insensitively against the dialect's classification tables; unknown
// functions default to ClassScalar (pass columns through unchanged).
func (d *Dialect) ClassifyFunction(name string) FunctionClass {
	upper := strings.ToUpper(name)
	if _, ok := d.aggregates[upper]; ok {
		return ClassAggregate
	}
	if _, ok := d.generators[upper]; ok {
		return ClassGenerator
	}
	if _, ok := d.windows[upper]; ok {
		return ClassWindow
	}
	return ClassScalar
}

// IsReserved reports whether name requires quoting as an identifier.
func (d *Dialect) IsReserved(name string) bool {
	_, ok := d.ReservedWords[strings.ToLower(name)]
	return ok
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToUpper(w)] = struct{}{}
	}
	return m
}

func toLowerSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}

func build(name, defaultSchema string, caseFold func(string) string, cast CastGrammar, aggregates, generators, windows, reserved []string) *Dialect {
	return &Dialect{
		Name:          name,
		DefaultSchema: defaultSchema,
		CaseFold:      caseFold,
		CastGrammar:   cast,
		ReservedWords: toLowerSet(reserved),
		aggregates:    toSet(aggregates),
		generators:    toSet(generators),
		windows:       toSet(windows),
	}
}

// registry maps a dialect name to its instance, populated by each
// dialect's init-time registration below.
var registry = map[string]*Dialect{}

func register(d *Dialect) {
	registry[d.Name] = d
}

// Lookup returns the registered dialect by name (case-insensitive), or
// false if no such dialect exists.
func Lookup(name string) (*Dialect, bool) {
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// Names returns every registered dialect name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
