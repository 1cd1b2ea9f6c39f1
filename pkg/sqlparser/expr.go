package sqlparser

import (
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
	"github.com/leapstack-labs/dbtlens/pkg/token"
)

// parseExpression implements Pratt/precedence-climbing parsing, mirroring
// the dialect-aware precedence table of the parser this front-end is
// ground on, simplified to a fixed ANSI precedence since dbtlens parses
// only, never prints.
func (p *parser) parseExpression(minPrec int) sqlast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		prec := p.infixPrecedence()
		if prec < minPrec || prec == precNone {
			break
		}
		next := p.parseInfix(left, prec)
		if next == nil {
			break
		}
		left = next
	}
	return left
}

func (p *parser) parsePrefix() sqlast.Expr {
	start := p.cur.span
	switch {
	case p.isKeyword("NOT"):
		p.advance()
		operand := p.parseExpression(precComparison)
		return sqlast.NewUnaryExpr("NOT", operand, token.Span{Start: start.Start, End: p.cur.span.Start})
	case p.isOp("-"):
		p.advance()
		operand := p.parseExpression(precUnary)
		return sqlast.NewUnaryExpr("-", operand, token.Span{Start: start.Start, End: p.cur.span.Start})
	case p.isOp("+"):
		p.advance()
		operand := p.parseExpression(precUnary)
		return sqlast.NewUnaryExpr("+", operand, token.Span{Start: start.Start, End: p.cur.span.Start})
	default:
		return p.parsePrimary()
	}
}

func binaryPrecedence(typ token.Type, value string) int {
	if typ == token.KEYWORD {
		switch value {
		case "OR":
			return precOr
		case "AND":
			return precAnd
		case "IS", "IN", "BETWEEN", "LIKE", "ILIKE", "NOT":
			return precComparison
		}
		return precNone
	}
	if typ != token.OP {
		return precNone
	}
	switch value {
	case "=", "!=", "<>", "<", ">", "<=", ">=":
		return precComparison
	case "+", "-", "||":
		return precAddition
	case "*", "/", "%":
		return precMultiply
	case "::":
		return precUnary + 1
	default:
		return precNone
	}
}

func (p *parser) infixPrecedence() int {
	return binaryPrecedence(p.cur.typ, p.cur.value)
}

func (p *parser) parseInfix(left sqlast.Expr, prec int) sqlast.Expr {
	start := left.Span()

	switch {
	case p.isKeyword("NOT"):
		p.advance()
		return p.parseNotInfix(left, start)
	case p.isKeyword("IS"):
		return p.parseIsExpr(left, start)
	case p.isKeyword("IN"):
		p.advance()
		return p.parseInExpr(left, false, start)
	case p.isKeyword("BETWEEN"):
		p.advance()
		return p.parseBetweenExpr(left, false, start)
	case p.isKeyword("LIKE") || p.isKeyword("ILIKE"):
		op := p.cur.value
		p.advance()
		right := p.parseExpression(precAddition)
		return sqlast.NewBinaryExpr(op, left, right, token.Span{Start: start.Start, End: p.cur.span.Start})
	case p.isOp("::"):
		p.advance()
		typeName := p.parseTypeName()
		return sqlast.NewCast(left, typeName, token.Span{Start: start.Start, End: p.cur.span.Start})
	}

	op := p.cur.value
	p.advance()
	right := p.parseExpression(prec + 1)
	return sqlast.NewBinaryExpr(op, left, right, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseNotInfix(left sqlast.Expr, start token.Span) sqlast.Expr {
	switch {
	case p.isKeyword("IN"):
		p.advance()
		return p.parseInExpr(left, true, start)
	case p.isKeyword("BETWEEN"):
		p.advance()
		return p.parseBetweenExpr(left, true, start)
	case p.isKeyword("LIKE") || p.isKeyword("ILIKE"):
		op := p.cur.value
		p.advance()
		right := p.parseExpression(precAddition)
		return sqlast.NewBinaryExpr("NOT "+op, left, right, token.Span{Start: start.Start, End: p.cur.span.Start})
	default:
		p.errorf(p.cur.span, "expected IN, BETWEEN or LIKE after NOT")
		return left
	}
}

func (p *parser) parseIsExpr(left sqlast.Expr, start token.Span) sqlast.Expr {
	p.advance() // IS
	not := false
	if p.isKeyword("NOT") {
		not = true
		p.advance()
	}
	if !p.expectKeyword("NULL") {
		return left
	}
	return sqlast.NewIsNullExpr(left, not, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseInExpr(left sqlast.Expr, not bool, start token.Span) sqlast.Expr {
	p.expectOp("(")
	if p.isKeyword("SELECT") || p.isKeyword("WITH") {
		sub := p.parseStatement()
		p.expectOp(")")
		return sqlast.NewInExpr(left, not, nil, sub, token.Span{Start: start.Start, End: p.cur.span.Start})
	}
	list := p.parseExpressionList()
	p.expectOp(")")
	return sqlast.NewInExpr(left, not, list, nil, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseBetweenExpr(left sqlast.Expr, not bool, start token.Span) sqlast.Expr {
	low := p.parseExpression(precAddition)
	p.expectKeyword("AND")
	high := p.parseExpression(precAddition)
	return sqlast.NewBetweenExpr(left, not, low, high, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseTypeName() string {
	name := p.cur.value
	p.advance()
	if p.isOp("(") {
		p.advance()
		for !p.isOp(")") && p.cur.typ != token.EOF {
			name += p.cur.value
			p.advance()
		}
		p.expectOp(")")
	}
	return name
}
