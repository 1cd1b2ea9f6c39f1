package sqlast

import "github.com/leapstack-labs/dbtlens/pkg/token"

// Expr is implemented by every scalar expression node.
type Expr interface {
	Node
}

// LiteralKind identifies the kind of a Literal's underlying value.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralFloat
	LiteralString
)

// Literal is a constant scalar value.
type Literal struct {
	Kind LiteralKind
	Text string // original source text, for numeric precision/scale inference
	span token.Span
}

func (l Literal) Span() token.Span { return l.span }

// ColumnRef references a column, optionally qualified by a table alias.
type ColumnRef struct {
	Qualifier string
	Name      string
	span      token.Span
}

func (c ColumnRef) Span() token.Span { return c.span }

// BinaryExpr is a two-operand operator application, e.g. arithmetic,
// comparison or boolean combination.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	span  token.Span
}

func (b BinaryExpr) Span() token.Span { return b.span }

// UnaryExpr is a single-operand prefix operator, e.g. NOT or unary minus.
type UnaryExpr struct {
	Op      string
	Operand Expr
	span    token.Span
}

func (u UnaryExpr) Span() token.Span { return u.span }

// FuncCall is a function invocation. WindowTail preserves an unparsed
// `OVER (...)` clause verbatim when present; window-spec internals are not
// modeled.
type FuncCall struct {
	Qualifier  string // package namespace, e.g. "dbt_utils" in dbt_utils.star()
	Name       string
	Args       []Expr
	Distinct   bool
	WindowTail string
	span       token.Span
}

func (f FuncCall) Span() token.Span { return f.span }

// Cast is an explicit CAST(expr AS type) or dialect-specific `expr::type`.
type Cast struct {
	Expr     Expr
	TypeName string
	span     token.Span
}

func (c Cast) Span() token.Span { return c.span }

// CaseExpr is a CASE [operand] WHEN ... THEN ... [ELSE ...] END expression.
type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []WhenClause
	Else    Expr
	span    token.Span
}

func (c CaseExpr) Span() token.Span { return c.span }

// WhenClause is one WHEN/THEN pair of a CaseExpr.
type WhenClause struct {
	Cond Expr
	Then Expr
}

// InExpr is `expr [NOT] IN (list...)` or `expr [NOT] IN (subquery)`.
type InExpr struct {
	Expr    Expr
	Not     bool
	List    []Expr
	Subquery *SelectStmt
	span    token.Span
}

func (e InExpr) Span() token.Span { return e.span }

// BetweenExpr is `expr [NOT] BETWEEN low AND high`.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
	span token.Span
}

func (e BetweenExpr) Span() token.Span { return e.span }

// IsNullExpr is `expr IS [NOT] NULL`.
type IsNullExpr struct {
	Expr Expr
	Not  bool
	span token.Span
}

func (e IsNullExpr) Span() token.Span { return e.span }

// ParenExpr preserves explicit parenthesization for scalar subqueries and
// grouping.
type ParenExpr struct {
	Expr     Expr
	Subquery *SelectStmt
	span     token.Span
}

func (e ParenExpr) Span() token.Span { return e.span }
