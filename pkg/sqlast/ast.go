// Package sqlast defines the trimmed SELECT-shaped abstract syntax tree
// produced by pkg/sqlparser. It models only the clauses schema inference
// needs: SELECT/WITH/FROM/JOIN/WHERE/GROUP BY/ORDER BY/LIMIT. DDL, DML and
// dialect-specific clauses (PIVOT, UNPIVOT, QUALIFY) are out of scope.
package sqlast

import "github.com/leapstack-labs/dbtlens/pkg/token"

// Node is implemented by every AST node, giving access to its source span
// for diagnostic location reporting.
type Node interface {
	Span() token.Span
}

// SelectStmt is a complete top-level query: an optional WITH clause
// followed by a set-operation tree of SelectCores.
type SelectStmt struct {
	With    *WithClause
	Body    SelectBody
	OrderBy []OrderItem
	Limit   Expr
	Offset  Expr
	span    token.Span
}

func (s *SelectStmt) Span() token.Span { return s.span }

// WithClause holds one or more CTEs, optionally RECURSIVE.
type WithClause struct {
	Recursive bool
	CTEs      []CTE
	span      token.Span
}

func (w *WithClause) Span() token.Span { return w.span }

// CTE is a single named common table expression.
type CTE struct {
	Name    string
	Columns []string // explicit column-name list, if given: WITH cte(a, b) AS (...)
	Body    SelectBody
	span    token.Span
}

func (c CTE) Span() token.Span { return c.span }

// SetOpType identifies how two SelectCores in a SelectBody combine.
type SetOpType int

const (
	SetOpNone SetOpType = iota
	SetOpUnion
	SetOpUnionAll
	SetOpIntersect
	SetOpExcept
)

// SelectBody is a possibly-compound query: one SelectCore and, when Op is
// set, the rest of the chain in Right (a right-nested list of SelectCores
// joined by set operations).
type SelectBody struct {
	Core  *SelectCore
	Op    SetOpType
	Right *SelectBody
	span  token.Span
}

func (b SelectBody) Span() token.Span { return b.span }

// SelectCore is a single SELECT ... FROM ... WHERE ... GROUP BY ... clause.
type SelectCore struct {
	Distinct bool
	Items    []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	span     token.Span
}

func (c *SelectCore) Span() token.Span { return c.span }

// SelectItem is one projected expression, optionally aliased.
type SelectItem struct {
	Expr  Expr // nil when Star is set
	Alias string
	Star  *Star
	span  token.Span
}

func (i SelectItem) Span() token.Span { return i.span }

// Star is a `*` or `qualifier.*` projection, optionally with a list of
// excluded columns. REPLACE modifiers are not represented.
type Star struct {
	Qualifier string // empty for unqualified *
	Except    []string
	span      token.Span
}

func (s Star) Span() token.Span { return s.span }

// OrderItem is one ORDER BY expression with direction.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// FromClause is the FROM clause: a base table/subquery reference followed
// by zero or more joins.
type FromClause struct {
	Base  TableRef
	Joins []Join
	span  token.Span
}

func (f *FromClause) Span() token.Span { return f.span }

// JoinType identifies the kind of join.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

// Join is one join step applied to the accumulating FROM clause.
type Join struct {
	Type  JoinType
	Table TableRef
	On    Expr
	span  token.Span
}

func (j Join) Span() token.Span { return j.span }

// TableRef is implemented by NamedTable and SubqueryTable.
type TableRef interface {
	Node
	Aliased() string
}

// NamedTable references a table, view or ref()/source() model by name.
type NamedTable struct {
	Schema string // optional database/schema qualifier
	Name   string
	Alias  string
	span   token.Span
}

func (t NamedTable) Span() token.Span { return t.span }
func (t NamedTable) Aliased() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// SubqueryTable is a derived table: FROM (SELECT ...) AS alias.
type SubqueryTable struct {
	Query *SelectStmt
	Alias string
	span  token.Span
}

func (t SubqueryTable) Span() token.Span { return t.span }
func (t SubqueryTable) Aliased() string  { return t.Alias }
