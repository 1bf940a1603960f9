// Package lint finds scope problems in a parsed file: undefined and unused
// names, loop variables rebinding other names, stray semicolons and named
// functions declared inside branches.
//
// Analysis has two phases. The Walker builds the scope tree in a single
// pass; a name referenced in a scope that does not bind it stays pending
// until an enclosing scope is finalized. The Resolver then merges per-scope
// messages with a textual line scan and applies no-lint directives.
package lint

import (
	"scopelint/internal/ast"
	"scopelint/internal/builtins"
	"scopelint/internal/diag"
	"scopelint/internal/source"
)

// Options tune one analysis run.
type Options struct {
	// Path labels diagnostics; file.Path when empty.
	Path     string
	Builtins *builtins.Set
}

// Analyze runs the walker and resolver over tree. file supplies the raw
// text for the line scan. The result is sorted by position.
func Analyze(tree *ast.Tree, file *source.File, opts Options) []diag.Diagnostic {
	path := opts.Path
	if path == "" && file != nil {
		path = file.Path
	}

	direct := diag.NewBag(0)
	w := NewWalker(tree, path, diag.BagReporter{Bag: direct})
	w.Walk()

	scan := ScanLines(file, path)
	r := Resolver{Builtins: opts.Builtins}
	return r.Resolve(direct.Items(), scan, w.Scopes(), w.Walked(), path)
}
