// Package sqlparser implements a dialect-dispatched, hand-rolled
// recursive-descent/Pratt parser producing the trimmed pkg/sqlast tree.
// It never panics on malformed input: parse failures are collected as
// diagnostic.Diagnostic values and returned alongside a best-effort tree.
package sqlparser

import (
	"fmt"

	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
	"github.com/leapstack-labs/dbtlens/pkg/token"
)

// precedence levels, lowest to highest.
const (
	precNone = iota
	precOr
	precAnd
	precComparison
	precAddition
	precMultiply
	precUnary
)

// parser holds the token stream and accumulated diagnostics for one parse.
type parser struct {
	lex   *lexer
	cur   lexToken
	peek  lexToken
	peek2 lexToken
	d     *dialect.Dialect
	file  string
	errs  []diagnostic.Diagnostic
}

// Parse parses source as a single SELECT-shaped statement under the given
// dialect. file is used only to annotate diagnostic locations.
func Parse(source string, d *dialect.Dialect, file string) (*sqlast.SelectStmt, []diagnostic.Diagnostic) {
	if d == nil {
		d = dialect.Ansi
	}
	p := &parser{lex: newLexer(source, d), d: d, file: file}
	p.advance()
	p.advance()
	p.advance()
	stmt := p.parseStatement()
	return stmt, p.errs
}

// advance shifts the three-token lookahead buffer forward by one. The
// third slot (peek2) exists only to disambiguate `qualifier.*` from a
// qualified column reference without backtracking, since the lexer
// cannot rewind once a token has been consumed.
func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.lex.next()
}

func (p *parser) errorf(span token.Span, format string, args ...any) {
	p.errs = append(p.errs, diagnostic.Diagnostic{
		Code:     diagnostic.SqlParseError,
		Severity: diagnostic.DefaultSeverity(diagnostic.SqlParseError),
		Message:  fmt.Sprintf(format, args...),
		Location: diagnostic.Location{File: p.file, Line: span.Start.Line, Column: span.Start.Column},
	})
}

func (p *parser) isKeyword(v string) bool {
	return p.cur.typ == token.KEYWORD && p.cur.value == v
}

func (p *parser) isOp(v string) bool {
	return p.cur.typ == token.OP && p.cur.value == v
}

func (p *parser) peekIsKeyword(v string) bool {
	return p.peek.typ == token.KEYWORD && p.peek.value == v
}

func (p *parser) expectKeyword(v string) bool {
	if p.isKeyword(v) {
		p.advance()
		return true
	}
	p.errorf(p.cur.span, "expected %s, got %q", v, p.cur.value)
	return false
}

func (p *parser) expectOp(v string) bool {
	if p.isOp(v) {
		p.advance()
		return true
	}
	p.errorf(p.cur.span, "expected %q, got %q", v, p.cur.value)
	return false
}

// parseStatement parses an optional WITH clause, the set-op query body,
// and the trailing ORDER BY/LIMIT/OFFSET clauses.
func (p *parser) parseStatement() *sqlast.SelectStmt {
	start := p.cur.span
	var with *sqlast.WithClause
	if p.isKeyword("WITH") {
		with = p.parseWithClause()
	}

	body := p.parseSelectBody()

	var orderBy []sqlast.OrderItem
	if p.isKeyword("ORDER") {
		orderBy = p.parseOrderBy()
	}

	var limit, offset sqlast.Expr
	if p.isKeyword("LIMIT") {
		p.advance()
		limit = p.parseExpression(precNone)
	}
	if p.isKeyword("OFFSET") {
		p.advance()
		offset = p.parseExpression(precNone)
	}

	end := p.cur.span
	return sqlast.NewSelectStmt(with, body, orderBy, limit, offset, token.Span{Start: start.Start, End: end.Start})
}

func (p *parser) parseWithClause() *sqlast.WithClause {
	start := p.cur.span
	p.advance() // WITH
	recursive := false
	if p.isKeyword("RECURSIVE") {
		recursive = true
		p.advance()
	}

	var ctes []sqlast.CTE
	for {
		ctes = append(ctes, p.parseCTE())
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return sqlast.NewWithClause(recursive, ctes, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseCTE() sqlast.CTE {
	start := p.cur.span
	name := p.cur.value
	p.advance() // name

	var columns []string
	if p.isOp("(") {
		p.advance()
		for !p.isOp(")") && p.cur.typ != token.EOF {
			columns = append(columns, p.cur.value)
			p.advance()
			if p.isOp(",") {
				p.advance()
			}
		}
		p.expectOp(")")
	}

	p.expectKeyword("AS")
	p.expectOp("(")
	body := p.parseSelectBody()
	p.expectOp(")")

	return sqlast.NewCTE(name, columns, body, token.Span{Start: start.Start, End: p.cur.span.Start})
}

// parseSelectBody parses a chain of SelectCores joined by set operators
// (UNION [ALL], INTERSECT, EXCEPT), nesting everything after the first
// operator into the body's Right operand.
func (p *parser) parseSelectBody() sqlast.SelectBody {
	start := p.cur.span
	core := p.parseSelectCore()
	body := sqlast.NewSelectBody(core, sqlast.SetOpNone, nil, token.Span{Start: start.Start, End: p.cur.span.Start})

	for {
		op, ok := p.matchSetOp()
		if !ok {
			break
		}
		rightStart := p.cur.span
		right := p.parseSelectBody()
		_ = rightStart
		body = sqlast.NewSelectBody(body.Core, op, &right, token.Span{Start: start.Start, End: p.cur.span.Start})
	}
	return body
}

func (p *parser) matchSetOp() (sqlast.SetOpType, bool) {
	switch {
	case p.isKeyword("UNION"):
		p.advance()
		if p.isKeyword("ALL") {
			p.advance()
			return sqlast.SetOpUnionAll, true
		}
		return sqlast.SetOpUnion, true
	case p.isKeyword("INTERSECT"):
		p.advance()
		return sqlast.SetOpIntersect, true
	case p.isKeyword("EXCEPT"):
		p.advance()
		return sqlast.SetOpExcept, true
	default:
		return sqlast.SetOpNone, false
	}
}

func (p *parser) parseSelectCore() *sqlast.SelectCore {
	start := p.cur.span
	p.expectKeyword("SELECT")

	distinct := false
	if p.isKeyword("DISTINCT") {
		distinct = true
		p.advance()
	} else if p.isKeyword("ALL") {
		p.advance()
	}

	items := p.parseSelectItems()

	var from *sqlast.FromClause
	if p.isKeyword("FROM") {
		from = p.parseFromClause()
	}

	var where sqlast.Expr
	if p.isKeyword("WHERE") {
		p.advance()
		where = p.parseExpression(precNone)
	}

	var groupBy []sqlast.Expr
	if p.isKeyword("GROUP") {
		p.advance()
		p.expectKeyword("BY")
		groupBy = p.parseExpressionList()
	}

	var having sqlast.Expr
	if p.isKeyword("HAVING") {
		p.advance()
		having = p.parseExpression(precNone)
	}

	return sqlast.NewSelectCore(distinct, items, from, where, groupBy, having, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseSelectItems() []sqlast.SelectItem {
	var items []sqlast.SelectItem
	for {
		items = append(items, p.parseSelectItem())
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return items
}

func (p *parser) parseSelectItem() sqlast.SelectItem {
	start := p.cur.span

	if p.isOp("*") {
		p.advance()
		return sqlast.NewSelectItem(nil, "", p.finishStar(""), token.Span{Start: start.Start, End: p.cur.span.Start})
	}
	if p.cur.typ == token.IDENT && p.peek.typ == token.OP && p.peek.value == "." &&
		p.peek2.typ == token.OP && p.peek2.value == "*" {
		qualifier := p.cur.value
		p.advance() // qualifier
		p.advance() // .
		p.advance() // *
		return sqlast.NewSelectItem(nil, "", p.finishStar(qualifier), token.Span{Start: start.Start, End: p.cur.span.Start})
	}

	expr := p.parseExpression(precNone)
	alias := ""
	if p.isKeyword("AS") {
		p.advance()
		alias = p.cur.value
		p.advance()
	} else if p.cur.typ == token.IDENT {
		alias = p.cur.value
		p.advance()
	}
	return sqlast.NewSelectItem(expr, alias, nil, token.Span{Start: start.Start, End: p.cur.span.Start})
}

// finishStar parses the optional EXCLUDE/EXCEPT(col, ...) modifier that
// dbt_utils.star()-style projections commonly carry.
func (p *parser) finishStar(qualifier string) *sqlast.Star {
	start := p.cur.span
	var except []string
	if p.isKeyword("EXCLUDE") || p.isKeyword("EXCEPT") {
		p.advance()
		p.expectOp("(")
		for !p.isOp(")") && p.cur.typ != token.EOF {
			except = append(except, p.cur.value)
			p.advance()
			if p.isOp(",") {
				p.advance()
			}
		}
		p.expectOp(")")
	}
	return sqlast.NewStar(qualifier, except, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseOrderBy() []sqlast.OrderItem {
	p.advance() // ORDER
	p.expectKeyword("BY")
	var items []sqlast.OrderItem
	for {
		expr := p.parseExpression(precNone)
		desc := false
		if p.isKeyword("DESC") {
			desc = true
			p.advance()
		} else if p.isKeyword("ASC") {
			p.advance()
		}
		items = append(items, sqlast.OrderItem{Expr: expr, Desc: desc})
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return items
}

func (p *parser) parseExpressionList() []sqlast.Expr {
	var list []sqlast.Expr
	for {
		list = append(list, p.parseExpression(precNone))
		if p.isOp(",") {
			p.advance()
			continue
		}
		break
	}
	return list
}
