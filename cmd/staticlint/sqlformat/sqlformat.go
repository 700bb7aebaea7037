// Package sqlformat reports SQL queries that are assembled at runtime instead
// of being passed as constants with placeholders.
package sqlformat

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer flags fmt.Sprintf calls and non-constant string concatenation used
// as the query argument of database/sql and sqlx query methods.
var Analyzer = &analysis.Analyzer{
	Name:     "sqlformat",
	Doc:      "forbids queries built with fmt.Sprintf or string concatenation",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// queryArg maps a method name to the index of its query argument.
var queryArg = map[string]int{
	"Exec":             0,
	"Query":            0,
	"QueryRow":         0,
	"ExecContext":      1,
	"QueryContext":     1,
	"QueryRowContext":  1,
	"QueryxContext":    1,
	"QueryRowxContext": 1,
	"GetContext":       2,
	"SelectContext":    2,
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		idx, ok := queryArg[sel.Sel.Name]
		if !ok || len(call.Args) <= idx {
			return
		}

		query := astutil.Unparen(call.Args[idx])
		switch {
		case isSprintf(pass, query):
			pass.Reportf(query.Pos(), "query passed to %s is built with fmt.Sprintf, use placeholders", sel.Sel.Name)
		case isDynamicConcat(pass, query):
			pass.Reportf(query.Pos(), "query passed to %s is built by string concatenation, use placeholders", sel.Sel.Name)
		}
	})

	return nil, nil
}

func isSprintf(pass *analysis.Pass, expr ast.Expr) bool {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Sprintf" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)

	return ok && pkgName.Imported().Path() == "fmt"
}

func isDynamicConcat(pass *analysis.Pass, expr ast.Expr) bool {
	binary, ok := expr.(*ast.BinaryExpr)
	if !ok || binary.Op != token.ADD {
		return false
	}

	return pass.TypesInfo.Types[binary].Value == nil
}
