package sqlparser

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/dbtlens/pkg/dialect"
	"github.com/leapstack-labs/dbtlens/pkg/token"
)

// lexToken is one scanned token: its token.Type, source text and span.
type lexToken struct {
	typ   token.Type
	value string
	span  token.Span
}

// lexer tokenizes dialect-preprocessed SQL (Jinja has already been
// rendered away by pkg/template before this runs).
type lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
	col     int
	d       *dialect.Dialect
}

func newLexer(input string, d *dialect.Dialect) *lexer {
	l := &lexer{input: input, line: 1, col: 0, d: d}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *lexer) tok(typ token.Type, value string, start token.Position) lexToken {
	return lexToken{typ: typ, value: value, span: token.Span{Start: start, End: l.currentPos()}}
}

// next returns the next token. Punctuation and keywords are both
// represented with typ=token.OP/token.KEYWORD; the caller switches on
// value for disambiguation (mirrors the teacher's single-switch lexer).
func (l *lexer) next() lexToken {
	l.skipWhitespaceAndComments()
	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return l.tok(token.EOF, "", pos)
	case l.ch == '\'':
		return lexToken{typ: token.STRING, value: l.readString(), span: token.Span{Start: pos, End: l.currentPos()}}
	case l.ch == '"':
		return lexToken{typ: token.IDENT, value: l.readQuoted('"'), span: token.Span{Start: pos, End: l.currentPos()}}
	case l.ch == '`':
		return lexToken{typ: token.IDENT, value: l.readQuoted('`'), span: token.Span{Start: pos, End: l.currentPos()}}
	case isLetter(l.ch) || l.ch == '_':
		ident := l.readIdentifier()
		upper := strings.ToUpper(ident)
		if isKeyword(upper) {
			return l.tok(token.KEYWORD, upper, pos)
		}
		return l.tok(token.IDENT, ident, pos)
	case isDigit(l.ch):
		return l.tok(token.NUMBER, l.readNumber(), pos)
	default:
		return l.readOperator(pos)
	}
}

func (l *lexer) readOperator(pos token.Position) lexToken {
	ch := l.ch
	switch ch {
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "->", pos)
		}
		l.readChar()
		return l.tok(token.OP, "-", pos)
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "::", pos)
		}
		l.readChar()
		return l.tok(token.OP, ":", pos)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "<=", pos)
		case '>':
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "<>", pos)
		default:
			l.readChar()
			return l.tok(token.OP, "<", pos)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.OP, ">=", pos)
		}
		l.readChar()
		return l.tok(token.OP, ">", pos)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "!=", pos)
		}
		l.readChar()
		return l.tok(token.OP, "!", pos)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.tok(token.OP, "||", pos)
		}
		l.readChar()
		return l.tok(token.OP, "|", pos)
	default:
		l.readChar()
		return l.tok(token.OP, string(ch), pos)
	}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}
		break
	}
}

func (l *lexer) readString() string {
	l.readChar()
	var b strings.Builder
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				b.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	return b.String()
}

func (l *lexer) readQuoted(quote byte) string {
	l.readChar()
	var b strings.Builder
	for l.ch != 0 {
		if l.ch == quote {
			if l.peekChar() == quote {
				b.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	return b.String()
}

func (l *lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool { return unicode.IsLetter(rune(ch)) }
func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }

var keywordSet = toKeywordSet([]string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "ORDER", "HAVING", "AS",
	"JOIN", "INNER", "LEFT", "RIGHT", "FULL", "OUTER", "CROSS", "ON",
	"AND", "OR", "NOT", "IN", "IS", "NULL", "CASE", "WHEN", "THEN",
	"ELSE", "END", "BETWEEN", "LIKE", "ILIKE", "DISTINCT", "UNION",
	"INTERSECT", "EXCEPT", "ALL", "WITH", "RECURSIVE", "LIMIT", "OFFSET",
	"CAST", "ASC", "DESC", "OVER", "PARTITION", "USING", "TRUE", "FALSE",
	"EXCLUDE",
})

func toKeywordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isKeyword(upper string) bool {
	_, ok := keywordSet[upper]
	return ok
}
