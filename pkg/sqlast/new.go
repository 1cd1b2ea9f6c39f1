package sqlast

import "github.com/leapstack-labs/dbtlens/pkg/token"

// Constructors below exist so pkg/sqlparser, the sole producer of this AST,
// can set the unexported span on each node while keeping span immutable to
// every other consumer (e.g. pkg/inference).

func NewSelectStmt(with *WithClause, body SelectBody, orderBy []OrderItem, limit, offset Expr, span token.Span) *SelectStmt {
	return &SelectStmt{With: with, Body: body, OrderBy: orderBy, Limit: limit, Offset: offset, span: span}
}

func NewWithClause(recursive bool, ctes []CTE, span token.Span) *WithClause {
	return &WithClause{Recursive: recursive, CTEs: ctes, span: span}
}

func NewCTE(name string, columns []string, body SelectBody, span token.Span) CTE {
	return CTE{Name: name, Columns: columns, Body: body, span: span}
}

func NewSelectBody(core *SelectCore, op SetOpType, right *SelectBody, span token.Span) SelectBody {
	return SelectBody{Core: core, Op: op, Right: right, span: span}
}

func NewSelectCore(distinct bool, items []SelectItem, from *FromClause, where Expr, groupBy []Expr, having Expr, span token.Span) *SelectCore {
	return &SelectCore{Distinct: distinct, Items: items, From: from, Where: where, GroupBy: groupBy, Having: having, span: span}
}

func NewSelectItem(expr Expr, alias string, star *Star, span token.Span) SelectItem {
	return SelectItem{Expr: expr, Alias: alias, Star: star, span: span}
}

func NewStar(qualifier string, except []string, span token.Span) *Star {
	return &Star{Qualifier: qualifier, Except: except, span: span}
}

func NewFromClause(base TableRef, joins []Join, span token.Span) *FromClause {
	return &FromClause{Base: base, Joins: joins, span: span}
}

func NewJoin(typ JoinType, table TableRef, on Expr, span token.Span) Join {
	return Join{Type: typ, Table: table, On: on, span: span}
}

func NewNamedTable(schema, name, alias string, span token.Span) NamedTable {
	return NamedTable{Schema: schema, Name: name, Alias: alias, span: span}
}

func NewSubqueryTable(query *SelectStmt, alias string, span token.Span) SubqueryTable {
	return SubqueryTable{Query: query, Alias: alias, span: span}
}

func NewLiteral(kind LiteralKind, text string, span token.Span) Literal {
	return Literal{Kind: kind, Text: text, span: span}
}

func NewColumnRef(qualifier, name string, span token.Span) ColumnRef {
	return ColumnRef{Qualifier: qualifier, Name: name, span: span}
}

func NewBinaryExpr(op string, left, right Expr, span token.Span) BinaryExpr {
	return BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

func NewUnaryExpr(op string, operand Expr, span token.Span) UnaryExpr {
	return UnaryExpr{Op: op, Operand: operand, span: span}
}

func NewFuncCall(qualifier, name string, args []Expr, distinct bool, windowTail string, span token.Span) FuncCall {
	return FuncCall{Qualifier: qualifier, Name: name, Args: args, Distinct: distinct, WindowTail: windowTail, span: span}
}

func NewCast(expr Expr, typeName string, span token.Span) Cast {
	return Cast{Expr: expr, TypeName: typeName, span: span}
}

func NewCaseExpr(operand Expr, whens []WhenClause, elseExpr Expr, span token.Span) CaseExpr {
	return CaseExpr{Operand: operand, Whens: whens, Else: elseExpr, span: span}
}

func NewInExpr(expr Expr, not bool, list []Expr, subquery *SelectStmt, span token.Span) InExpr {
	return InExpr{Expr: expr, Not: not, List: list, Subquery: subquery, span: span}
}

func NewBetweenExpr(expr Expr, not bool, low, high Expr, span token.Span) BetweenExpr {
	return BetweenExpr{Expr: expr, Not: not, Low: low, High: high, span: span}
}

func NewIsNullExpr(expr Expr, not bool, span token.Span) IsNullExpr {
	return IsNullExpr{Expr: expr, Not: not, span: span}
}

func NewParenExpr(expr Expr, subquery *SelectStmt, span token.Span) ParenExpr {
	return ParenExpr{Expr: expr, Subquery: subquery, span: span}
}
