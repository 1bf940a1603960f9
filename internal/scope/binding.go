package scope

import (
	"scopelint/internal/ast"
	"scopelint/internal/source"
)

// BindingFlags describe where a name came from.
type BindingFlags uint8

const (
	FlagImport BindingFlags = 1 << iota
	FlagToplevel
	FlagClass
	FlagFunction // never set together with FlagClass
	FlagFuncArg
	FlagLoop
)

// Normalize clears FlagFunction when FlagClass is set.
func (f BindingFlags) Normalize() BindingFlags {
	if f&FlagClass != 0 {
		f &^= FlagFunction
	}
	return f
}

// Strings returns textual flag labels.
func (f BindingFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 6)
	if f&FlagImport != 0 {
		labels = append(labels, "import")
	}
	if f&FlagToplevel != 0 {
		labels = append(labels, "toplevel")
	}
	if f&FlagClass != 0 {
		labels = append(labels, "class")
	}
	if f&FlagFunction != 0 {
		labels = append(labels, "function")
	}
	if f&FlagFuncArg != 0 {
		labels = append(labels, "arg")
	}
	if f&FlagLoop != 0 {
		labels = append(labels, "loop")
	}
	return labels
}

// Binding is one declaration of a name in a scope.
type Binding struct {
	Name  string
	Node  ast.NodeID
	Span  source.Span
	Flags BindingFlags
	Used  bool
}

func (b *Binding) IsImport() bool   { return b.Flags&FlagImport != 0 }
func (b *Binding) IsToplevel() bool { return b.Flags&FlagToplevel != 0 }
func (b *Binding) IsClass() bool    { return b.Flags&FlagClass != 0 }
func (b *Binding) IsFunction() bool { return b.Flags&FlagFunction != 0 }
func (b *Binding) IsFuncArg() bool  { return b.Flags&FlagFuncArg != 0 }
func (b *Binding) IsLoop() bool     { return b.Flags&FlagLoop != 0 }

// MarkLoop flags the binding as a loop or comprehension variable.
func (b *Binding) MarkLoop() { b.Flags |= FlagLoop }

// reportable reports whether an unused binding deserves a diagnostic:
// imports always, locals unless they are toplevel or arguments.
func (b *Binding) reportable() bool {
	if b.IsImport() {
		return true
	}
	return !b.IsToplevel() && !b.IsFuncArg()
}

// Shadow records a rebinding of Name within one scope.
type Shadow struct {
	Name string
	Prev *Binding
	Next *Binding
}

// Ref is a reference site: the node that used a name.
type Ref struct {
	Node ast.NodeID
	Span source.Span
}
