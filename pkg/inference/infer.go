package inference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
)

// CatalogLookup resolves a table/CTE reference's name (already normalized
// by the registry) to its known columns: either a physical source's
// catalog schema, or an upstream model's previously-inferred schema. The
// querylayer supplies this as a memoized, dependency-ordered function so
// upstream models are always inferred before their downstream consumers.
type CatalogLookup func(tableName string) (schema.Schema, bool)

// Context carries the state needed to infer one model's output schema.
type Context struct {
	Dialect *dialect.Dialect
	Catalog CatalogLookup
	File    string

	// AllowStar gates SELECT * expansion: when false, every `*` projection
	// is treated as unexpandable (SqlSelectStarUnexpandable) regardless of
	// whether the catalog could resolve it, mirroring spec.md §4.4's
	// `context.allow_star` input.
	AllowStar bool

	diags []diagnostic.Diagnostic
}

// Infer walks stmt's AST and returns its output schema in SELECT order,
// along with any diagnostics raised along the way (unresolvable columns,
// unexpandable SELECT *). allowStar gates SELECT * expansion; pass true for
// the common case where the catalog is expected to resolve it.
func Infer(stmt *sqlast.SelectStmt, d *dialect.Dialect, catalog CatalogLookup, file string, allowStar bool) (schema.Schema, []diagnostic.Diagnostic) {
	if d == nil {
		d = dialect.Ansi
	}
	ctx := &Context{Dialect: d, Catalog: catalog, File: file, AllowStar: allowStar}
	root := newScope(d)

	if stmt.With != nil {
		seenCTE := map[string]bool{}
		for _, cte := range stmt.With.CTEs {
			if seenCTE[d.NormalizeName(cte.Name)] {
				ctx.errorf(cte, diagnostic.SqlUnsupportedSyntax, "duplicate CTE name %q; the later definition replaces the earlier one", cte.Name)
			}
			seenCTE[d.NormalizeName(cte.Name)] = true

			cols := ctx.inferBody(cte.Body, root)
			if len(cte.Columns) == len(cols) {
				for i := range cols {
					cols[i].Name = cte.Columns[i]
				}
			}
			root.register(&entry{kind: entryCTE, name: cte.Name, columns: cols})
		}
	}

	out := ctx.inferBody(stmt.Body, root)
	return out, ctx.diags
}

func (c *Context) errorf(span sqlast.Node, code diagnostic.Code, format string, args ...any) {
	loc := diagnostic.Location{File: c.File}
	if span != nil {
		loc.Line = span.Span().Start.Line
		loc.Column = span.Span().Start.Column
	}
	c.diags = append(c.diags, diagnostic.Diagnostic{
		Code:     code,
		Severity: diagnostic.DefaultSeverity(code),
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// inferBody handles a possibly-compound (UNION/INTERSECT/EXCEPT) query.
// The result schema is the left side's: every branch of a set operation
// is required to share column count and is assumed to share types.
func (c *Context) inferBody(body sqlast.SelectBody, parent *scope) schema.Schema {
	left := c.inferCore(body.Core, parent)
	if body.Right != nil {
		c.inferBody(*body.Right, parent)
	}
	return left
}

func (c *Context) inferCore(core *sqlast.SelectCore, parent *scope) schema.Schema {
	s := parent.child()

	if core.From != nil {
		c.registerTableRef(core.From.Base, s)
		for _, j := range core.From.Joins {
			c.registerTableRef(j.Table, s)
		}
	}

	var out schema.Schema
	for i, item := range core.Items {
		out = append(out, c.inferSelectItem(item, s, i+1)...)
	}
	c.validateGroupBy(core)
	return out
}

func (c *Context) registerTableRef(ref sqlast.TableRef, s *scope) {
	switch t := ref.(type) {
	case sqlast.NamedTable:
		cols, ok := schema.Schema(nil), false
		if c.Catalog != nil {
			cols, ok = c.Catalog(t.Name)
		}
		if !ok {
			if e, found := s.lookup(t.Name); found {
				s.register(&entry{kind: entryTable, name: t.Name, alias: t.Alias, columns: e.columns})
				return
			}
		}
		s.register(&entry{kind: entryTable, name: t.Name, alias: t.Alias, columns: cols, modelID: t.Name})
	case sqlast.SubqueryTable:
		cols := c.inferBody(t.Query.Body, s)
		s.register(&entry{kind: entryDerived, name: t.Alias, alias: t.Alias, columns: cols})
	}
}

func (c *Context) inferSelectItem(item sqlast.SelectItem, s *scope, pos int) schema.Schema {
	if item.Star != nil {
		if !c.AllowStar {
			c.errorf(item, diagnostic.SqlSelectStarUnexpandable, "SELECT * expansion is disabled for this inference context")
			return nil
		}
		cols, dupes := s.expandStar(item.Star.Qualifier)
		if cols == nil {
			c.errorf(item, diagnostic.SqlSelectStarUnexpandable, "cannot expand SELECT * without catalog schema for %q", item.Star.Qualifier)
			return nil
		}
		for _, name := range dupes {
			c.errorf(item, diagnostic.SqlUnsupportedSyntax, "unqualified column %q produced by more than one joined table; disambiguated by qualifying with its source alias", name)
		}
		if len(item.Star.Except) == 0 {
			return cols
		}
		excluded := map[string]bool{}
		for _, e := range item.Star.Except {
			excluded[s.normalize(e)] = true
		}
		var out schema.Schema
		for _, col := range cols {
			if !excluded[s.normalize(col.Name)] {
				out = append(out, col)
			}
		}
		return out
	}

	typ, prov := c.inferExpr(item.Expr, s)
	name := item.Alias
	if name == "" {
		name = defaultColumnName(item.Expr, pos)
	}
	return schema.Schema{{Name: name, Type: typ, Nullable: logical.NullUnknown, Provenance: prov}}
}

// defaultColumnName synthesizes a projected column's name when it has no
// explicit alias: the bare identifier for a column reference, the lowercased
// function name for a call, else a deterministic name built from the
// expression's shape and its 1-based position in the projection list (e.g.
// "case_1", "expr_2") — never from source byte offset.
func defaultColumnName(e sqlast.Expr, pos int) string {
	switch v := e.(type) {
	case sqlast.ColumnRef:
		return v.Name
	case sqlast.FuncCall:
		return strings.ToLower(v.Name)
	default:
		return fmt.Sprintf("%s_%d", exprShapeTag(e), pos)
	}
}

// exprShapeTag names the sqlast shape of e for synthesized column naming.
func exprShapeTag(e sqlast.Expr) string {
	switch e.(type) {
	case sqlast.CaseExpr:
		return "case"
	case sqlast.Cast:
		return "cast"
	case sqlast.InExpr:
		return "in"
	case sqlast.BetweenExpr:
		return "between"
	case sqlast.IsNullExpr:
		return "isnull"
	default:
		return "expr"
	}
}

func (c *Context) normalize(name string) string {
	return c.Dialect.NormalizeName(name)
}

func parseIntLiteral(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}
