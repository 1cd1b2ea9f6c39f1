// Package schema defines the ordered column schema shared across inference,
// contract diffing and drift detection.
package schema

import "github.com/leapstack-labs/dbtlens/pkg/logical"

// ColumnRef names the source that produced a column: an optional model id
// (empty for a literal/computed column with no single source) and the
// source column name.
type ColumnRef struct {
	ModelID string
	Column  string
}

// Column is a single output column with its inferred type, nullability and
// provenance chain.
type Column struct {
	Name        string
	Type        logical.Type
	Nullable    logical.Nullability
	Provenance  []ColumnRef
}

// Schema is an ordered sequence of columns. Names are unique within the
// sequence; comparisons are case-insensitive by default (dialect-dependent
// folding is applied by callers via Normalizer).
type Schema []Column

// Normalizer folds an identifier according to dialect-specific case rules.
// pkg/dialect.Dialect implements this.
type Normalizer interface {
	NormalizeName(string) string
}

type caseFoldNormalizer struct{}

func (caseFoldNormalizer) NormalizeName(s string) string {
	return toLower(s)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// DefaultNormalizer folds names to lowercase, used when no dialect is
// available (e.g. comparing a catalog document's column names).
var DefaultNormalizer Normalizer = caseFoldNormalizer{}

// Find looks up a column by name, case-folded through norm. If norm is nil,
// DefaultNormalizer is used.
func (s Schema) Find(name string, norm Normalizer) (Column, bool) {
	if norm == nil {
		norm = DefaultNormalizer
	}
	target := norm.NormalizeName(name)
	for _, c := range s {
		if norm.NormalizeName(c.Name) == target {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the ordered column names.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}
