package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerPlainText(t *testing.T) {
	input := "SELECT * FROM users"
	lexer := NewLexer(input, "test.sql")

	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2) // TEXT + EOF

	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, input, tokens[0].Value)
	assert.Equal(t, TokenEOF, tokens[1].Type)
}

func TestLexerSimpleExpression(t *testing.T) {
	input := "SELECT {{ column }} FROM users"
	lexer := NewLexer(input, "test.sql")

	tokens, err := lexer.Tokenize()
	require.NoError(t, err)

	expected := []struct {
		typ TokenType
		val string
	}{
		{TokenText, "SELECT "},
		{TokenExpr, "column"},
		{TokenText, " FROM users"},
		{TokenEOF, ""},
	}
	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.typ, tokens[i].Type, "token[%d]", i)
		if exp.typ != TokenEOF {
			assert.Equal(t, exp.val, tokens[i].Value, "token[%d]", i)
		}
	}
}

func TestLexerStatementAndComment(t *testing.T) {
	input := "{% if true %}{# note #}x{% endif %}"
	lexer := NewLexer(input, "test.sql")

	tokens, err := lexer.Tokenize()
	require.NoError(t, err)

	require.Len(t, tokens, 5)
	assert.Equal(t, TokenStmt, tokens[0].Type)
	assert.Equal(t, "if true", tokens[0].Value)
	assert.Equal(t, TokenComment, tokens[1].Type)
	assert.Equal(t, "note", tokens[1].Value)
	assert.Equal(t, TokenText, tokens[2].Type)
	assert.Equal(t, "x", tokens[2].Value)
	assert.Equal(t, TokenStmt, tokens[3].Type)
	assert.Equal(t, "endif", tokens[3].Value)
	assert.Equal(t, TokenEOF, tokens[4].Type)
}

func TestLexerNestedBracesInExpression(t *testing.T) {
	input := `{{ {"a": 1} }}`
	lexer := NewLexer(input, "test.sql")

	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, `{"a": 1}`, tokens[0].Value)
}

func TestLexerUnclosedExpressionIsAnError(t *testing.T) {
	lexer := NewLexer("SELECT {{ column FROM users", "test.sql")
	_, err := lexer.Tokenize()
	require.Error(t, err)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}
