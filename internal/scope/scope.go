package scope

import (
	"scopelint/internal/ast"
)

// ScopeID identifies a scope in the arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// Scope is a lexical region. Names are kept in first-declaration order so
// that diagnostics come out the same way on every run.
type Scope struct {
	Parent   ScopeID
	Owner    ast.NodeID
	Toplevel bool
	Children []ScopeID
	Shadows  []Shadow

	bindings     map[string]*Binding
	bindingOrder []string

	pending      map[string]Ref
	pendingOrder []string

	unused    []*Binding
	finalized bool
}

func newScope(parent ScopeID, owner ast.NodeID, toplevel bool) Scope {
	return Scope{
		Parent:   parent,
		Owner:    owner,
		Toplevel: toplevel,
		bindings: make(map[string]*Binding),
		pending:  make(map[string]Ref),
	}
}

// Lookup returns this scope's current binding for name, ignoring parents.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Bindings returns current bindings in first-declaration order.
func (s *Scope) Bindings() []*Binding {
	out := make([]*Binding, 0, len(s.bindingOrder))
	for _, name := range s.bindingOrder {
		out = append(out, s.bindings[name])
	}
	return out
}

// Pending returns the first unresolved reference to name, if one remains.
func (s *Scope) Pending(name string) (Ref, bool) {
	ref, ok := s.pending[name]
	return ref, ok
}

// PendingNames lists unresolved names in first-reference order.
func (s *Scope) PendingNames() []string {
	out := make([]string, 0, len(s.pending))
	for _, name := range s.pendingOrder {
		if _, ok := s.pending[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Unused returns the bindings proven unused by Finalize.
func (s *Scope) Unused() []*Binding { return s.unused }

// Finalized reports whether Finalize has run.
func (s *Scope) Finalized() bool { return s.finalized }

func (s *Scope) addBinding(name string, node Ref, flags BindingFlags) *Binding {
	b := &Binding{Name: name, Node: node.Node, Span: node.Span, Flags: flags.Normalize()}
	if prev, ok := s.bindings[name]; ok {
		// повторное связывание в той же области: used переходит на новую привязку
		if prev.Used {
			b.Used = true
		}
		s.Shadows = append(s.Shadows, Shadow{Name: name, Prev: prev, Next: b})
	} else {
		s.bindingOrder = append(s.bindingOrder, name)
	}
	s.bindings[name] = b
	return b
}

func (s *Scope) registerUse(name string, ref Ref) {
	if b, ok := s.bindings[name]; ok {
		b.Used = true
		return
	}
	if _, seen := s.pending[name]; seen {
		return
	}
	s.pending[name] = ref
	s.pendingOrder = append(s.pendingOrder, name)
}

func (s *Scope) resolve(name string) bool {
	if _, ok := s.pending[name]; !ok {
		return false
	}
	delete(s.pending, name)
	return true
}
