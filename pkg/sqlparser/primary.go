package sqlparser

import (
	"strings"

	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
	"github.com/leapstack-labs/dbtlens/pkg/token"
)

func (p *parser) parsePrimary() sqlast.Expr {
	start := p.cur.span

	switch {
	case p.cur.typ == token.NUMBER:
		text := p.cur.value
		p.advance()
		kind := sqlast.LiteralInt
		if strings.ContainsAny(text, ".eE") {
			kind = sqlast.LiteralFloat
		}
		return sqlast.NewLiteral(kind, text, token.Span{Start: start.Start, End: p.cur.span.Start})

	case p.cur.typ == token.STRING:
		text := p.cur.value
		p.advance()
		return sqlast.NewLiteral(sqlast.LiteralString, text, token.Span{Start: start.Start, End: p.cur.span.Start})

	case p.isKeyword("TRUE") || p.isKeyword("FALSE"):
		text := p.cur.value
		p.advance()
		return sqlast.NewLiteral(sqlast.LiteralBool, text, token.Span{Start: start.Start, End: p.cur.span.Start})

	case p.isKeyword("NULL"):
		p.advance()
		return sqlast.NewLiteral(sqlast.LiteralNull, "NULL", token.Span{Start: start.Start, End: p.cur.span.Start})

	case p.isKeyword("CASE"):
		return p.parseCaseExpr()

	case p.isKeyword("CAST"):
		return p.parseCastExpr()

	case p.isOp("("):
		return p.parseParenExpr()

	case p.cur.typ == token.IDENT || p.cur.typ == token.KEYWORD:
		return p.parseIdentOrCall()

	default:
		p.errorf(p.cur.span, "unexpected token %q in expression", p.cur.value)
		p.advance()
		return sqlast.NewLiteral(sqlast.LiteralNull, "", token.Span{Start: start.Start, End: p.cur.span.Start})
	}
}

func (p *parser) parseCaseExpr() sqlast.Expr {
	start := p.cur.span
	p.advance() // CASE

	var operand sqlast.Expr
	if !p.isKeyword("WHEN") {
		operand = p.parseExpression(precNone)
	}

	var whens []sqlast.WhenClause
	for p.isKeyword("WHEN") {
		p.advance()
		cond := p.parseExpression(precNone)
		p.expectKeyword("THEN")
		then := p.parseExpression(precNone)
		whens = append(whens, sqlast.WhenClause{Cond: cond, Then: then})
	}

	var elseExpr sqlast.Expr
	if p.isKeyword("ELSE") {
		p.advance()
		elseExpr = p.parseExpression(precNone)
	}
	p.expectKeyword("END")

	return sqlast.NewCaseExpr(operand, whens, elseExpr, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseCastExpr() sqlast.Expr {
	start := p.cur.span
	p.advance() // CAST
	p.expectOp("(")
	expr := p.parseExpression(precNone)
	p.expectKeyword("AS")
	typeName := p.parseTypeName()
	p.expectOp(")")
	return sqlast.NewCast(expr, typeName, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseParenExpr() sqlast.Expr {
	start := p.cur.span
	p.advance() // (
	if p.isKeyword("SELECT") || p.isKeyword("WITH") {
		sub := p.parseStatement()
		p.expectOp(")")
		return sqlast.NewParenExpr(nil, sub, token.Span{Start: start.Start, End: p.cur.span.Start})
	}
	expr := p.parseExpression(precNone)
	p.expectOp(")")
	return sqlast.NewParenExpr(expr, nil, token.Span{Start: start.Start, End: p.cur.span.Start})
}

// parseIdentOrCall parses a (possibly qualified) column reference or a
// function call, including the dbt_utils.star()-style package-qualified
// call form and an opaque trailing OVER(...) window tail.
func (p *parser) parseIdentOrCall() sqlast.Expr {
	start := p.cur.span
	first := p.cur.value
	p.advance()

	qualifier := ""
	name := first
	if p.isOp(".") {
		p.advance()
		qualifier = first
		name = p.cur.value
		p.advance()
	}

	if p.isOp("(") {
		return p.parseFuncCall(qualifier, name, start)
	}

	return sqlast.NewColumnRef(qualifier, name, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseFuncCall(qualifier, name string, start token.Span) sqlast.Expr {
	p.advance() // (

	distinct := false
	if p.isKeyword("DISTINCT") {
		distinct = true
		p.advance()
	}

	var args []sqlast.Expr
	if !p.isOp(")") {
		if p.isOp("*") {
			p.advance()
		} else {
			args = p.parseExpressionList()
		}
	}
	p.expectOp(")")

	windowTail := ""
	if p.isKeyword("OVER") {
		windowTail = p.skipWindowTail()
	}

	return sqlast.NewFuncCall(qualifier, name, args, distinct, windowTail, token.Span{Start: start.Start, End: p.cur.span.Start})
}

// skipWindowTail consumes `OVER (...)` verbatim without interpreting the
// window-spec grammar (partition/order/frame clauses are out of scope for
// schema inference, which only needs the function's own return type).
func (p *parser) skipWindowTail() string {
	var b strings.Builder
	b.WriteString("OVER")
	p.advance() // OVER
	if !p.isOp("(") {
		return b.String()
	}
	depth := 0
	for {
		if p.isOp("(") {
			depth++
		}
		b.WriteString(" ")
		b.WriteString(p.cur.value)
		if p.isOp(")") {
			depth--
			p.advance()
			if depth == 0 {
				break
			}
			continue
		}
		if p.cur.typ == token.EOF {
			break
		}
		p.advance()
	}
	return b.String()
}
