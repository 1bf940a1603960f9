package lint

import (
	"strings"

	"scopelint/internal/ast"
	"scopelint/internal/diag"
)

type handlerFunc func(w *Walker, id ast.NodeID, n *ast.Node)

// handlers has exactly one entry per ast.Kind.
var handlers = [...]handlerFunc{
	ast.KindInvalid:        visitNothing,
	ast.KindToplevel:       visitToplevel,
	ast.KindFunction:       visitDeclaration,
	ast.KindClass:          visitDeclaration,
	ast.KindComprehension:  visitComprehension,
	ast.KindImport:         visitImport,
	ast.KindImportedVar:    visitImportedVar,
	ast.KindAssign:         visitAssign,
	ast.KindVarDef:         visitVarDef,
	ast.KindSymbolRef:      visitReference,
	ast.KindDecorator:      visitReference,
	ast.KindFuncArg:        visitFuncArg,
	ast.KindForIn:          visitForIn,
	ast.KindEmptyStatement: visitEmptyStatement,
	ast.KindIf:             visitNothing,
	ast.KindSwitch:         visitNothing,
	ast.KindTry:            visitNothing,
	ast.KindCatch:          visitNothing,
	ast.KindArray:          visitNothing,
	ast.KindBlock:          visitNothing,
	ast.KindNode:           visitNothing,
}

// fails to compile when handlers and ast.Kind drift apart
var _ = [1]struct{}{}[len(handlers)-ast.KindCount]

func handlerFor(k ast.Kind) handlerFunc {
	if int(k) >= len(handlers) {
		return visitNothing
	}
	return handlers[k]
}

func visitNothing(*Walker, ast.NodeID, *ast.Node) {}

func visitToplevel(w *Walker, id ast.NodeID, _ *ast.Node) {
	w.pushScope(id, true)
}

// visitDeclaration binds a function or class name in the enclosing scope,
// then opens the body scope.
func visitDeclaration(w *Walker, id ast.NodeID, n *ast.Node) {
	if n.Name != "" {
		if w.branches > 0 {
			w.emit(diag.FuncInBranch, id, n.Name)
		}
		w.bind(n.Name, ast.NoNodeID)
	}
	w.pushScope(id, false)
}

func visitComprehension(w *Walker, id ast.NodeID, n *ast.Node) {
	w.pushScope(id, false)
	bindLoopTarget(w, id, n)
}

func visitForIn(w *Walker, id ast.NodeID, n *ast.Node) {
	bindLoopTarget(w, id, n)
}

func bindLoopTarget(w *Walker, id ast.NodeID, n *ast.Node) {
	forTargets(w, n.Target, func(ref ast.NodeID, name string) {
		if b := w.bind(name, ref); b != nil {
			b.MarkLoop()
		}
	})
	w.current = id
}

func visitImport(w *Walker, _ ast.NodeID, n *ast.Node) {
	if n.Members {
		return
	}
	name := n.Alias
	if name == "" {
		name, _, _ = strings.Cut(n.Key, ".")
	}
	w.bind(name, ast.NoNodeID)
}

func visitImportedVar(w *Walker, _ ast.NodeID, n *ast.Node) {
	name := n.Alias
	if name == "" {
		name = n.Name
	}
	w.bind(name, ast.NoNodeID)
}

// visitAssign binds plain `=` targets. A compound operator leaves the target
// to be walked as an ordinary reference.
func visitAssign(w *Walker, id ast.NodeID, n *ast.Node) {
	target := w.tree.Node(n.Target)
	if target == nil {
		return
	}
	if target.Kind == ast.KindSymbolRef && n.Operator != "=" {
		return
	}
	forTargets(w, n.Target, func(ref ast.NodeID, name string) {
		w.bind(name, ref)
	})
	w.current = id
}

// forTargets calls fn for a simple-name target or for each simple-name
// element of a destructuring list, left to right. Each such name is marked
// visited and becomes the context node while fn runs.
func forTargets(w *Walker, target ast.NodeID, fn func(ast.NodeID, string)) {
	t := w.tree.Node(target)
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.KindSymbolRef:
		w.skip(target)
		w.current = target
		fn(target, t.Name)
	case ast.KindArray:
		for _, el := range t.Children {
			e := w.tree.Node(el)
			if e == nil || e.Kind != ast.KindSymbolRef {
				continue
			}
			w.skip(el)
			w.current = el
			fn(el, e.Name)
		}
	}
}

// visitVarDef binds the declared name with the initializer as context node,
// so `var f = function() {}` declares a function.
func visitVarDef(w *Walker, id ast.NodeID, n *ast.Node) {
	if n.Value.IsValid() {
		w.current = n.Value
	}
	w.bind(n.Name, id)
	w.current = id
}

func visitReference(w *Walker, _ ast.NodeID, n *ast.Node) {
	w.use(n.Name)
}

func visitFuncArg(w *Walker, _ ast.NodeID, n *ast.Node) {
	w.bind(n.Name, ast.NoNodeID)
}

func visitEmptyStatement(w *Walker, id ast.NodeID, n *ast.Node) {
	if n.SType == ";" {
		w.emit(diag.ExtraSemicolon, id, ";")
	}
}
