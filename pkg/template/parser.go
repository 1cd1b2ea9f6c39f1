package template

import "strings"

// Parser groups a flat token stream into a tree of Nodes, pairing
// {% for %}/{% endfor %} and {% if %}/{% elif %}/{% else %}/{% endif %}.
type Parser struct {
	tokens []Token
	pos    int
	file   string
}

// NewParser creates a parser over tokens produced by a Lexer for file.
func NewParser(tokens []Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse consumes the whole token stream into a Template.
func (p *Parser) Parse() (*Template, error) {
	nodes, _, err := p.parseUntil(nil)
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		tok := p.current()
		return nil, NewParseErrorf(tok.Pos, "unexpected trailing %s statement", tok.Value)
	}
	return &Template{Nodes: nodes, File: p.file}, nil
}

// parseUntil parses nodes until it hits a statement token whose kind is in
// stop (not consumed), or EOF if stop is nil. It returns the stopping
// token's kind alongside the parsed nodes so callers can tell an elif/
// else/endif apart.
func (p *Parser) parseUntil(stop map[StmtKind]bool) ([]Node, StmtKind, error) {
	var nodes []Node
	for !p.atEOF() {
		tok := p.current()
		switch tok.Type {
		case TokenText:
			nodes = append(nodes, TextNode{nodeBase{tok.Pos}, tok.Value})
			p.advance()
		case TokenExpr:
			nodes = append(nodes, ExprNode{nodeBase{tok.Pos}, tok.Value})
			p.advance()
		case TokenComment:
			nodes = append(nodes, CommentNode{nodeBase{tok.Pos}, tok.Value})
			p.advance()
		case TokenStmt:
			kind, rest := classifyStmt(tok.Value)
			if stop != nil && stop[kind] {
				return nodes, kind, nil
			}
			switch kind {
			case StmtFor:
				block, err := p.parseForBlock(tok.Pos, rest)
				if err != nil {
					return nil, 0, err
				}
				nodes = append(nodes, block)
			case StmtIf:
				block, err := p.parseIfBlock(tok.Pos, rest)
				if err != nil {
					return nil, 0, err
				}
				nodes = append(nodes, block)
			case StmtSet:
				varName, expr, err := splitAssignment(tok.Pos, rest)
				if err != nil {
					return nil, 0, err
				}
				nodes = append(nodes, SetBlock{nodeBase{tok.Pos}, varName, expr})
				p.advance()
			case StmtEndFor, StmtEndIf, StmtElif, StmtElse:
				return nil, 0, NewUnmatchedBlockError(tok.Pos, kind)
			default:
				nodes = append(nodes, StmtNode{nodeBase: nodeBase{tok.Pos}, Kind: StmtRaw, Expr: rest})
				p.advance()
			}
		case TokenEOF:
			return nodes, 0, nil
		}
	}
	return nodes, 0, nil
}

func (p *Parser) parseForBlock(pos Position, rest string) (ForBlock, error) {
	varName, iterExpr, err := splitForClause(pos, rest)
	if err != nil {
		return ForBlock{}, err
	}
	p.advance() // consume the {% for %} token itself

	body, stopKind, err := p.parseUntil(map[StmtKind]bool{StmtEndFor: true})
	if err != nil {
		return ForBlock{}, err
	}
	if p.atEOF() || stopKind != StmtEndFor {
		return ForBlock{}, NewUnmatchedBlockError(pos, StmtFor)
	}
	p.advance() // consume {% endfor %}

	return ForBlock{nodeBase{pos}, varName, iterExpr, body}, nil
}

func (p *Parser) parseIfBlock(pos Position, rest string) (IfBlock, error) {
	p.advance() // consume the {% if %} token itself

	block := IfBlock{nodeBase: nodeBase{pos}, Condition: rest}
	body, stopKind, err := p.parseUntil(map[StmtKind]bool{StmtElif: true, StmtElse: true, StmtEndIf: true})
	if err != nil {
		return IfBlock{}, err
	}
	block.Body = body

	for stopKind == StmtElif {
		branchPos := p.current().Pos
		_, branchRest := classifyStmt(p.current().Value)
		p.advance()
		branchBody, next, err := p.parseUntil(map[StmtKind]bool{StmtElif: true, StmtElse: true, StmtEndIf: true})
		if err != nil {
			return IfBlock{}, err
		}
		block.ElseIfs = append(block.ElseIfs, Branch{Condition: branchRest, Body: branchBody, pos: branchPos})
		stopKind = next
	}

	if stopKind == StmtElse {
		p.advance()
		elseBody, next, err := p.parseUntil(map[StmtKind]bool{StmtEndIf: true})
		if err != nil {
			return IfBlock{}, err
		}
		block.Else = elseBody
		stopKind = next
	}

	if p.atEOF() || stopKind != StmtEndIf {
		return IfBlock{}, NewUnmatchedBlockError(pos, StmtIf)
	}
	p.advance() // consume {% endif %}

	return block, nil
}

// classifyStmt inspects a raw {% ... %} token body and returns its kind
// plus whatever text follows the leading keyword.
func classifyStmt(raw string) (StmtKind, string) {
	trimmed := strings.TrimSpace(raw)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return StmtRaw, trimmed
	}
	keyword := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, keyword))
	switch keyword {
	case "for":
		return StmtFor, rest
	case "endfor":
		return StmtEndFor, rest
	case "if":
		return StmtIf, rest
	case "elif":
		return StmtElif, rest
	case "else":
		return StmtElse, rest
	case "endif":
		return StmtEndIf, rest
	case "set":
		return StmtSet, rest
	case "do":
		return StmtRaw, rest
	default:
		return StmtRaw, trimmed
	}
}

// splitForClause parses "x in some.expr()" into ("x", "some.expr()").
func splitForClause(pos Position, clause string) (string, string, error) {
	idx := strings.Index(clause, " in ")
	if idx < 0 {
		return "", "", NewParseErrorf(pos, `malformed for statement %q: expected "for x in expr"`, clause)
	}
	varName := strings.TrimSpace(clause[:idx])
	iterExpr := strings.TrimSpace(clause[idx+len(" in "):])
	if varName == "" || iterExpr == "" {
		return "", "", NewParseErrorf(pos, `malformed for statement %q: expected "for x in expr"`, clause)
	}
	return varName, iterExpr, nil
}

// splitAssignment parses "name = expr" into ("name", "expr").
func splitAssignment(pos Position, clause string) (string, string, error) {
	idx := strings.Index(clause, "=")
	if idx < 0 {
		return "", "", NewParseErrorf(pos, `malformed set statement %q: expected "set name = expr"`, clause)
	}
	varName := strings.TrimSpace(clause[:idx])
	expr := strings.TrimSpace(clause[idx+1:])
	if varName == "" || expr == "" {
		return "", "", NewParseErrorf(pos, `malformed set statement %q: expected "set name = expr"`, clause)
	}
	return varName, expr, nil
}

func (p *Parser) current() Token { return p.tokens[p.pos] }
func (p *Parser) advance()       { p.pos++ }
func (p *Parser) atEOF() bool    { return p.pos >= len(p.tokens) || p.tokens[p.pos].Type == TokenEOF }
