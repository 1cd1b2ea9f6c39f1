// Package inference infers a model's output schema from its compiled SQL
// by walking the AST with scope-based name resolution: CTEs, then catalog
// tables, then FROM aliases.
package inference

import (
	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// entryKind identifies what a scope entry resolves to.
type entryKind int

const (
	entryTable entryKind = iota
	entryCTE
	entryDerived
)

// entry is one table/CTE/derived-table binding visible in a scope.
type entry struct {
	kind     entryKind
	name     string
	alias    string
	columns  schema.Schema
	modelID  string // catalog node ID, for provenance; empty for CTEs/derived tables
}

func (e *entry) effectiveName() string {
	if e.alias != "" {
		return e.alias
	}
	return e.name
}

// scope tracks name bindings within one query level, chaining to a parent
// for correlated subqueries. order preserves FROM/JOIN registration order
// so multi-table resolution (star expansion, unqualified-column lookup) is
// deterministic instead of following Go's randomized map iteration.
type scope struct {
	parent  *scope
	entries map[string]*entry
	order   []*entry
	d       *dialect.Dialect
}

func newScope(d *dialect.Dialect) *scope {
	return &scope{entries: map[string]*entry{}, d: d}
}

func (s *scope) child() *scope {
	return &scope{parent: s, entries: map[string]*entry{}, d: s.d}
}

func (s *scope) normalize(name string) string {
	return s.d.NormalizeName(name)
}

func (s *scope) register(e *entry) {
	key := s.normalize(e.effectiveName())
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, e)
	} else {
		for i, existing := range s.order {
			if s.normalize(existing.effectiveName()) == key {
				s.order[i] = e
				break
			}
		}
	}
	s.entries[key] = e
}

// lookup finds a binding by name or alias, current scope first.
func (s *scope) lookup(name string) (*entry, bool) {
	if e, ok := s.entries[s.normalize(name)]; ok {
		return e, true
	}
	if s.parent != nil {
		return s.parent.lookup(name)
	}
	return nil, false
}

// resolveColumn finds the entry an unqualified column name belongs to: an
// exact match wins, checked in FROM/JOIN order so an ambiguous name always
// resolves to the same entry across runs; if none match and exactly one
// table is in scope, that table is assumed to own it (mirrors the teacher's
// single-table fallback for schema-less sources such as raw seeds).
func (s *scope) resolveColumn(name string) (*entry, bool) {
	for _, e := range s.order {
		if _, ok := e.columns.Find(name, s.d); ok {
			return e, true
		}
	}
	var only *entry
	count := 0
	for _, e := range s.order {
		if e.kind == entryTable {
			count++
			only = e
		}
	}
	if count == 1 {
		return only, true
	}
	if s.parent != nil {
		return s.parent.resolveColumn(name)
	}
	return nil, false
}

// expandStar returns the columns of a single qualified table/CTE/derived
// entry, or of every entry in scope (in FROM/JOIN order) when qualifier is
// empty. Unqualified columns that collide across entries are disambiguated
// by qualifying them with their owning entry's effective name; dupes lists
// the original (unqualified) names of every column so disambiguated, for
// the caller to flag rather than silently shadow.
func (s *scope) expandStar(qualifier string) (out schema.Schema, dupes []string) {
	if qualifier != "" {
		e, ok := s.lookup(qualifier)
		if !ok {
			return nil, nil
		}
		return e.columns, nil
	}
	seen := map[string]bool{}
	for _, e := range s.order {
		for _, col := range e.columns {
			key := s.normalize(col.Name)
			if seen[key] {
				dupes = append(dupes, col.Name)
				col.Name = e.effectiveName() + "." + col.Name
			}
			seen[key] = true
			out = append(out, col)
		}
	}
	return out, dupes
}
