package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, input string) *Template {
	t.Helper()
	lexer := NewLexer(input, "test.sql")
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	tmpl, err := NewParser(tokens, "test.sql").Parse()
	require.NoError(t, err)
	return tmpl
}

func TestParserPlainText(t *testing.T) {
	tmpl := parseString(t, "SELECT * FROM users")
	require.Len(t, tmpl.Nodes, 1)
	text, ok := tmpl.Nodes[0].(TextNode)
	require.True(t, ok, "expected TextNode, got %T", tmpl.Nodes[0])
	assert.Equal(t, "SELECT * FROM users", text.Text)
}

func TestParserSimpleExpression(t *testing.T) {
	tmpl := parseString(t, "SELECT {{ column }} FROM users")
	require.Len(t, tmpl.Nodes, 3)

	expr, ok := tmpl.Nodes[1].(ExprNode)
	require.True(t, ok, "node[1]: expected ExprNode, got %T", tmpl.Nodes[1])
	assert.Equal(t, "column", expr.Expr)
}

func TestParserForLoop(t *testing.T) {
	tmpl := parseString(t, "{% for col in columns %}{{ col }}{% endfor %}")
	require.Len(t, tmpl.Nodes, 1)

	forBlock, ok := tmpl.Nodes[0].(ForBlock)
	require.True(t, ok, "expected ForBlock, got %T", tmpl.Nodes[0])
	assert.Equal(t, "col", forBlock.VarName)
	assert.Equal(t, "columns", forBlock.IterExpr)
	require.Len(t, forBlock.Body, 1)
}

func TestParserIfElifElse(t *testing.T) {
	tmpl := parseString(t, `{% if a %}A{% elif b %}B{% else %}C{% endif %}`)
	require.Len(t, tmpl.Nodes, 1)

	ifBlock, ok := tmpl.Nodes[0].(IfBlock)
	require.True(t, ok, "expected IfBlock, got %T", tmpl.Nodes[0])
	assert.Equal(t, "a", ifBlock.Condition)
	require.Len(t, ifBlock.Body, 1)
	require.Len(t, ifBlock.ElseIfs, 1)
	assert.Equal(t, "b", ifBlock.ElseIfs[0].Condition)
	require.Len(t, ifBlock.Else, 1)
}

func TestParserSetStatement(t *testing.T) {
	tmpl := parseString(t, `{% set x = 1 + 2 %}`)
	require.Len(t, tmpl.Nodes, 1)
	set, ok := tmpl.Nodes[0].(SetBlock)
	require.True(t, ok, "expected SetBlock, got %T", tmpl.Nodes[0])
	assert.Equal(t, "x", set.VarName)
	assert.Equal(t, "1 + 2", set.Expr)
}

func TestParserUnmatchedForIsAnError(t *testing.T) {
	lexer := NewLexer("{% for x in y %}body", "test.sql")
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	_, err = NewParser(tokens, "test.sql").Parse()
	require.Error(t, err)

	var unmatched *UnmatchedBlockError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, StmtFor, unmatched.BlockKind)
}

func TestParserStrayEndifIsAnError(t *testing.T) {
	lexer := NewLexer("{% endif %}", "test.sql")
	tokens, err := lexer.Tokenize()
	require.NoError(t, err)
	_, err = NewParser(tokens, "test.sql").Parse()
	require.Error(t, err)

	var unmatched *UnmatchedBlockError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, StmtEndIf, unmatched.BlockKind)
}
