package template

import (
	"strings"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
)

// hasMarkers reports whether sql contains any Jinja-style delimiter, so
// Render can take a zero-cost fast path for the common case of plain SQL.
func hasMarkers(sql string) bool {
	return strings.Contains(sql, "{{") || strings.Contains(sql, "{%") || strings.Contains(sql, "{#")
}

// Render expands the Jinja-flavored markers in sql against ctx, producing
// plain SQL for the parser. It never returns a Go error: every lex, parse,
// or evaluation failure is captured as a diagnostic. A lex or parse failure
// returns sql unchanged; an evaluation failure renders the failing node as
// an empty string and rendering continues, so one broken macro call doesn't
// block analysis of the rest of the file.
func Render(sql, file string, ctx *Context) (string, []diagnostic.Diagnostic) {
	if !hasMarkers(sql) {
		return sql, nil
	}

	lexer := NewLexer(sql, file)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return sql, []diagnostic.Diagnostic{lexErrorDiagnostic(err)}
	}

	parser := NewParser(tokens, file)
	tmpl, err := parser.Parse()
	if err != nil {
		return sql, []diagnostic.Diagnostic{parseErrorDiagnostic(err)}
	}

	var out strings.Builder
	var diags []diagnostic.Diagnostic
	renderNodes(tmpl.Nodes, ctx, &out, &diags)
	return out.String(), diags
}

func renderNodes(nodes []Node, ctx *Context, out *strings.Builder, diags *[]diagnostic.Diagnostic) {
	for _, n := range nodes {
		renderNode(n, ctx, out, diags)
	}
}

func renderNode(n Node, ctx *Context, out *strings.Builder, diags *[]diagnostic.Diagnostic) {
	switch node := n.(type) {
	case TextNode:
		out.WriteString(node.Text)
	case CommentNode:
		// dropped intentionally
	case ExprNode:
		s, err := ctx.EvalExprString(node.Pos().File, node.Expr)
		if err != nil {
			*diags = append(*diags, renderErrorDiagnostic(node.Pos(), node.Expr, err))
			return
		}
		out.WriteString(s)
	case SetBlock:
		v, err := ctx.EvalExpr(node.Pos().File, node.Expr)
		if err != nil {
			*diags = append(*diags, renderErrorDiagnostic(node.Pos(), node.Expr, err))
			return
		}
		gv, err := starlarkToGo(v)
		if err != nil {
			*diags = append(*diags, renderErrorDiagnostic(node.Pos(), node.Expr, err))
			return
		}
		if ctx.Vars == nil {
			ctx.Vars = map[string]any{}
		}
		ctx.Vars[node.VarName] = gv
	case StmtNode:
		// a bare macro-call statement with no output, e.g. {% do ... %};
		// evaluated for side effects only.
		if _, err := ctx.EvalExpr(node.Pos().File, node.Expr); err != nil {
			*diags = append(*diags, renderErrorDiagnostic(node.Pos(), node.Expr, err))
		}
	case ForBlock:
		renderForBlock(node, ctx, out, diags)
	case IfBlock:
		renderIfBlock(node, ctx, out, diags)
	}
}

func renderForBlock(block ForBlock, ctx *Context, out *strings.Builder, diags *[]diagnostic.Diagnostic) {
	iterable, err := ctx.EvalExpr(block.Pos().File, block.IterExpr)
	if err != nil {
		*diags = append(*diags, renderErrorDiagnostic(block.Pos(), block.IterExpr, err))
		return
	}
	iter, ok := iterable.(starlark.Iterable)
	if !ok {
		*diags = append(*diags, renderErrorDiagnostic(block.Pos(), block.IterExpr, errNotIterable(iterable)))
		return
	}

	if ctx.Vars == nil {
		ctx.Vars = map[string]any{}
	}
	saved, hadSaved := ctx.Vars[block.VarName]

	it := iter.Iterate()
	defer it.Done()
	var elem starlark.Value
	for it.Next(&elem) {
		gv, err := starlarkToGo(elem)
		if err != nil {
			*diags = append(*diags, renderErrorDiagnostic(block.Pos(), block.IterExpr, err))
			break
		}
		ctx.Vars[block.VarName] = gv
		renderNodes(block.Body, ctx, out, diags)
	}

	if hadSaved {
		ctx.Vars[block.VarName] = saved
	} else {
		delete(ctx.Vars, block.VarName)
	}
}

func renderIfBlock(block IfBlock, ctx *Context, out *strings.Builder, diags *[]diagnostic.Diagnostic) {
	ok, err := evalTruthy(block.Pos().File, block.Condition, ctx)
	if err != nil {
		*diags = append(*diags, renderErrorDiagnostic(block.Pos(), block.Condition, err))
		return
	}
	if ok {
		renderNodes(block.Body, ctx, out, diags)
		return
	}
	for _, branch := range block.ElseIfs {
		ok, err := evalTruthy(branch.Pos().File, branch.Condition, ctx)
		if err != nil {
			*diags = append(*diags, renderErrorDiagnostic(branch.Pos(), branch.Condition, err))
			return
		}
		if ok {
			renderNodes(branch.Body, ctx, out, diags)
			return
		}
	}
	renderNodes(block.Else, ctx, out, diags)
}

func evalTruthy(file, expr string, ctx *Context) (bool, error) {
	v, err := ctx.EvalExpr(file, expr)
	if err != nil {
		return false, err
	}
	return bool(v.Truth()), nil
}

func errNotIterable(v starlark.Value) error {
	return &notIterableError{v}
}

type notIterableError struct{ v starlark.Value }

func (e *notIterableError) Error() string {
	return "value " + e.v.String() + " (type " + e.v.Type() + ") is not iterable"
}

func lexErrorDiagnostic(err error) diagnostic.Diagnostic {
	le, ok := err.(Error)
	loc := diagnostic.Location{}
	if ok {
		pos := le.Position()
		loc = diagnostic.Location{File: pos.File, Line: pos.Line, Column: pos.Column}
	}
	return diagnostic.Diagnostic{
		Code:     diagnostic.JinjaSyntaxError,
		Severity: diagnostic.DefaultSeverity(diagnostic.JinjaSyntaxError),
		Message:  err.Error(),
		Location: loc,
	}
}

func parseErrorDiagnostic(err error) diagnostic.Diagnostic {
	pe, ok := err.(Error)
	loc := diagnostic.Location{}
	if ok {
		pos := pe.Position()
		loc = diagnostic.Location{File: pos.File, Line: pos.Line, Column: pos.Column}
	}
	return diagnostic.Diagnostic{
		Code:     diagnostic.JinjaSyntaxError,
		Severity: diagnostic.DefaultSeverity(diagnostic.JinjaSyntaxError),
		Message:  err.Error(),
		Location: loc,
	}
}

func renderErrorDiagnostic(pos Position, expr string, err error) diagnostic.Diagnostic {
	code := diagnostic.JinjaRenderError
	if isUndefinedErr(err) {
		code = diagnostic.JinjaUndefinedVariable
	}
	return diagnostic.Diagnostic{
		Code:     code,
		Severity: diagnostic.DefaultSeverity(code),
		Message:  "rendering `" + expr + "`: " + err.Error(),
		Location: diagnostic.Location{File: pos.File, Line: pos.Line, Column: pos.Column},
	}
}

func isUndefinedErr(err error) bool {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return strings.Contains(evalErr.Msg, "undefined")
	}
	return strings.Contains(err.Error(), "undefined") || strings.Contains(err.Error(), "has no .")
}
