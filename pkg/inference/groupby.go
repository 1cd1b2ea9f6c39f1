package inference

import (
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
)

// aggregateFuncs are the unqualified function names recognized as
// aggregates for GROUP BY validation purposes.
var aggregateFuncs = map[string]bool{
	"COUNT": true,
	"SUM":   true,
	"AVG":   true,
	"MIN":   true,
	"MAX":   true,
}

// validateGroupBy checks every unaliased projection against core.GroupBy:
// it must either match a group key (by position or by structural equality)
// or be wrapped in a recognized aggregate. Aliased projections are exempt,
// matching the diagnostic's own name.
func (c *Context) validateGroupBy(core *sqlast.SelectCore) {
	if len(core.GroupBy) == 0 {
		return
	}
	for i, item := range core.Items {
		if item.Star != nil || item.Expr == nil || item.Alias != "" {
			continue
		}
		if isAggregateExpr(item.Expr) || isConstantExpr(item.Expr) {
			continue
		}
		if groupKeyCovers(item.Expr, i, core.GroupBy) {
			continue
		}
		c.errorf(item, diagnostic.SqlGroupByAggregateUnaliased,
			"projected expression %q is neither a GROUP BY key nor wrapped in a recognized aggregate",
			defaultColumnName(item.Expr, i+1))
	}
}

// isAggregateExpr reports whether e is a direct, unqualified call to a
// recognized aggregate function.
func isAggregateExpr(e sqlast.Expr) bool {
	f, ok := e.(sqlast.FuncCall)
	if !ok || f.Qualifier != "" {
		return false
	}
	return aggregateFuncs[strings.ToUpper(f.Name)]
}

// isConstantExpr reports whether e is a literal, which is always valid in
// a grouped projection regardless of the GROUP BY keys.
func isConstantExpr(e sqlast.Expr) bool {
	_, ok := e.(sqlast.Literal)
	return ok
}

// groupKeyCovers reports whether item (at zero-based projection index idx)
// is covered by one of the GROUP BY keys: either a positional reference
// (GROUP BY 1) to this projection, or an expression structurally equal to
// this one.
func groupKeyCovers(item sqlast.Expr, idx int, keys []sqlast.Expr) bool {
	for _, key := range keys {
		if lit, ok := key.(sqlast.Literal); ok && lit.Kind == sqlast.LiteralInt {
			if n, ok := parseIntLiteral(lit.Text); ok && n == idx+1 {
				return true
			}
			continue
		}
		if exprEqual(item, key) {
			return true
		}
	}
	return false
}

// exprEqual reports whether two expressions are structurally identical,
// ignoring source position. Used to match a projection against a GROUP BY
// key written the same way.
func exprEqual(a, b sqlast.Expr) bool {
	switch av := a.(type) {
	case sqlast.ColumnRef:
		bv, ok := b.(sqlast.ColumnRef)
		return ok && strings.EqualFold(av.Qualifier, bv.Qualifier) && strings.EqualFold(av.Name, bv.Name)
	case sqlast.Literal:
		bv, ok := b.(sqlast.Literal)
		return ok && av.Kind == bv.Kind && av.Text == bv.Text
	case sqlast.BinaryExpr:
		bv, ok := b.(sqlast.BinaryExpr)
		return ok && av.Op == bv.Op && exprEqual(av.Left, bv.Left) && exprEqual(av.Right, bv.Right)
	case sqlast.UnaryExpr:
		bv, ok := b.(sqlast.UnaryExpr)
		return ok && av.Op == bv.Op && exprEqual(av.Operand, bv.Operand)
	case sqlast.Cast:
		bv, ok := b.(sqlast.Cast)
		return ok && strings.EqualFold(av.TypeName, bv.TypeName) && exprEqual(av.Expr, bv.Expr)
	case sqlast.FuncCall:
		bv, ok := b.(sqlast.FuncCall)
		if !ok || !strings.EqualFold(av.Qualifier, bv.Qualifier) || !strings.EqualFold(av.Name, bv.Name) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !exprEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
