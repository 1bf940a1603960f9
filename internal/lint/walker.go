package lint

import (
	"scopelint/internal/ast"
	"scopelint/internal/diag"
	"scopelint/internal/scope"
)

// Walker visits a tree once, filling a scope arena and collecting the
// diagnostics that do not depend on resolution (extra-semicolon,
// func-in-branch).
type Walker struct {
	tree   *ast.Tree
	path   string
	scopes *scope.Arena
	report diag.Reporter

	stack    []scope.ScopeID
	branches int
	// current is the context node: binding flags and default positions
	// come from it.
	current ast.NodeID
	visited []bool
	walked  []scope.ScopeID
}

// NewWalker prepares a walk over tree. Diagnostics emitted during the walk
// go to report; path labels them.
func NewWalker(tree *ast.Tree, path string, report diag.Reporter) *Walker {
	if report == nil {
		report = diag.NopReporter{}
	}
	return &Walker{
		tree:    tree,
		path:    path,
		scopes:  scope.NewArena(0),
		report:  report,
		visited: make([]bool, tree.Len()+1),
	}
}

// Walk traverses the tree from its root.
func (w *Walker) Walk() {
	if w.tree == nil {
		return
	}
	w.visit(w.tree.Root)
}

// Scopes exposes the arena filled by Walk.
func (w *Walker) Scopes() *scope.Arena { return w.scopes }

// Walked lists scopes in the order their subtrees completed; every scope
// comes after all of its descendants.
func (w *Walker) Walked() []scope.ScopeID { return w.walked }

// Depth reports the number of scopes still open. It is zero after Walk.
func (w *Walker) Depth() int { return len(w.stack) }

// BranchDepth reports how many branch constructs enclose the current node.
func (w *Walker) BranchDepth() int { return w.branches }

func (w *Walker) visit(id ast.NodeID) {
	n := w.tree.Node(id)
	if n == nil || w.visited[id] {
		return
	}
	w.visited[id] = true
	w.current = id

	openScopes := len(w.stack)
	branched := n.Kind.IsBranch()
	if branched {
		w.branches++
	}

	handlerFor(n.Kind)(w, id, n)

	for _, child := range n.Children {
		w.visit(child)
	}

	if len(w.stack) > openScopes {
		w.leaveScope()
	}
	if branched {
		w.branches--
	}
}

// skip marks id so the traversal never visits it; bound targets are not
// uses of themselves.
func (w *Walker) skip(id ast.NodeID) {
	if int(id) < len(w.visited) {
		w.visited[id] = true
	}
}

func (w *Walker) top() scope.ScopeID {
	if len(w.stack) == 0 {
		return scope.NoScopeID
	}
	return w.stack[len(w.stack)-1]
}

func (w *Walker) pushScope(owner ast.NodeID, toplevel bool) {
	id := w.scopes.New(w.top(), owner, toplevel)
	w.stack = append(w.stack, id)
}

func (w *Walker) leaveScope() {
	id := w.stack[len(w.stack)-1]
	w.scopes.Finalize(id)
	w.stack = w.stack[:len(w.stack)-1]
	w.walked = append(w.walked, id)
}

// bind declares name in the innermost scope. Flags come from the context
// node; the binding is located at at, or at the context node when at is
// NoNodeID.
func (w *Walker) bind(name string, at ast.NodeID) *scope.Binding {
	if at == ast.NoNodeID {
		at = w.current
	}
	var flags scope.BindingFlags
	if ctx := w.tree.Node(w.current); ctx != nil {
		flags = contextFlags(ctx.Kind)
	}
	return w.scopes.AddBinding(w.top(), name, w.ref(at), flags)
}

func (w *Walker) use(name string) {
	w.scopes.RegisterUse(w.top(), name, w.ref(w.current))
}

func (w *Walker) ref(id ast.NodeID) scope.Ref {
	r := scope.Ref{Node: id}
	if n := w.tree.Node(id); n != nil {
		r.Span = n.Span
	}
	return r
}

func (w *Walker) emit(code diag.Code, id ast.NodeID, name string) {
	r := w.ref(id)
	w.report.Report(diag.New(code, w.path, r.Span, name, 0))
}

func contextFlags(k ast.Kind) scope.BindingFlags {
	switch k {
	case ast.KindImport, ast.KindImportedVar:
		return scope.FlagImport
	case ast.KindFunction:
		return scope.FlagFunction
	case ast.KindClass:
		return scope.FlagClass
	case ast.KindFuncArg:
		return scope.FlagFuncArg
	}
	return 0
}
