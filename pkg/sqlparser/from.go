package sqlparser

import (
	"github.com/leapstack-labs/dbtlens/pkg/sqlast"
	"github.com/leapstack-labs/dbtlens/pkg/token"
)

func (p *parser) parseFromClause() *sqlast.FromClause {
	start := p.cur.span
	p.advance() // FROM
	base := p.parseTableRef()

	var joins []sqlast.Join
	for {
		j, ok := p.parseJoin()
		if !ok {
			break
		}
		joins = append(joins, j)
	}
	return sqlast.NewFromClause(base, joins, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseTableRef() sqlast.TableRef {
	if p.isOp("(") {
		return p.parseSubqueryTable()
	}
	return p.parseNamedTable()
}

func (p *parser) parseNamedTable() sqlast.NamedTable {
	start := p.cur.span
	if p.cur.typ != token.IDENT {
		p.errorf(p.cur.span, "expected table name, got %q", p.cur.value)
		p.advance()
		return sqlast.NewNamedTable("", "", "", token.Span{Start: start.Start, End: p.cur.span.Start})
	}

	parts := []string{p.cur.value}
	p.advance()
	for p.isOp(".") {
		p.advance()
		if p.cur.typ == token.IDENT {
			parts = append(parts, p.cur.value)
			p.advance()
		}
	}

	var schema, name string
	switch len(parts) {
	case 1:
		name = parts[0]
	default:
		name = parts[len(parts)-1]
		schema = parts[len(parts)-2]
	}

	alias := p.parseOptionalAlias()
	return sqlast.NewNamedTable(schema, name, alias, token.Span{Start: start.Start, End: p.cur.span.Start})
}

func (p *parser) parseSubqueryTable() sqlast.SubqueryTable {
	start := p.cur.span
	p.advance() // (
	query := p.parseStatement()
	p.expectOp(")")
	alias := p.parseOptionalAlias()
	return sqlast.NewSubqueryTable(query, alias, token.Span{Start: start.Start, End: p.cur.span.Start})
}

// parseOptionalAlias consumes an explicit `AS alias` or an implicit
// bare-identifier alias, stopping before a keyword that starts the next
// clause (JOIN, WHERE, ...).
func (p *parser) parseOptionalAlias() string {
	if p.isKeyword("AS") {
		p.advance()
		alias := p.cur.value
		p.advance()
		return alias
	}
	if p.cur.typ == token.IDENT {
		alias := p.cur.value
		p.advance()
		return alias
	}
	return ""
}

var joinTypeKeywords = map[string]sqlast.JoinType{
	"INNER": sqlast.JoinInner,
	"LEFT":  sqlast.JoinLeft,
	"RIGHT": sqlast.JoinRight,
	"FULL":  sqlast.JoinFull,
	"CROSS": sqlast.JoinCross,
}

func (p *parser) parseJoin() (sqlast.Join, bool) {
	start := p.cur.span

	if p.isOp(",") {
		p.advance()
		table := p.parseTableRef()
		return sqlast.NewJoin(sqlast.JoinCross, table, nil, token.Span{Start: start.Start, End: p.cur.span.Start}), true
	}

	joinType, hasType := sqlast.JoinInner, false
	if p.cur.typ == token.KEYWORD {
		if jt, ok := joinTypeKeywords[p.cur.value]; ok {
			joinType = jt
			hasType = true
			p.advance()
			if p.isKeyword("OUTER") {
				p.advance()
			}
		}
	}

	if !p.isKeyword("JOIN") {
		if hasType {
			p.errorf(p.cur.span, "expected JOIN after join type, got %q", p.cur.value)
		}
		return sqlast.Join{}, false
	}
	p.advance() // JOIN

	table := p.parseTableRef()

	var on sqlast.Expr
	if p.isKeyword("ON") {
		p.advance()
		on = p.parseExpression(precNone)
	} else if p.isKeyword("USING") {
		p.advance()
		p.expectOp("(")
		for !p.isOp(")") && p.cur.typ != token.EOF {
			p.advance()
			if p.isOp(",") {
				p.advance()
			}
		}
		p.expectOp(")")
	}

	return sqlast.NewJoin(joinType, table, on, token.Span{Start: start.Start, End: p.cur.span.Start}), true
}
