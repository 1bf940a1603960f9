package scope

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"scopelint/internal/ast"
	"scopelint/internal/diag"
)

// Arena owns every scope of one analysis run. Scopes refer to each other by
// ScopeID only; index 0 is reserved for NoScopeID.
type Arena struct {
	data []Scope
}

// NewArena creates an arena with optional capacity hint.
func NewArena(capacity uint32) *Arena {
	if capacity == 0 {
		capacity = 16
	}
	return &Arena{data: make([]Scope, 1, capacity+1)}
}

// New allocates a scope under parent (which may be NoScopeID) and links it
// as parent's child.
func (a *Arena) New(parent ScopeID, owner ast.NodeID, toplevel bool) ScopeID {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	a.data = append(a.data, newScope(parent, owner, toplevel))
	if p := a.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
// The pointer is invalidated by the next New.
func (a *Arena) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (a *Arena) Len() int { return len(a.data) - 1 }

// AddBinding declares name in scope id and returns the new binding. A
// rebinding in the same scope is recorded as a Shadow.
func (a *Arena) AddBinding(id ScopeID, name string, node Ref, flags BindingFlags) *Binding {
	s := a.Get(id)
	if s == nil {
		return nil
	}
	if s.Toplevel {
		flags |= FlagToplevel
	}
	return s.addBinding(name, node, flags)
}

// RegisterUse marks name used in scope id, or records it as pending when
// the scope has no binding for it. Parent scopes are not consulted here;
// they settle pending references in Finalize.
func (a *Arena) RegisterUse(id ScopeID, name string, ref Ref) {
	if s := a.Get(id); s != nil {
		s.registerUse(name, ref)
	}
}

// Finalize resolves descendants' pending references against the bindings of
// scope id and records the bindings that nothing used. Every descendant must
// already be finalized.
func (a *Arena) Finalize(id ScopeID) {
	s := a.Get(id)
	if s == nil || s.finalized {
		return
	}
	for _, b := range s.Bindings() {
		found := false
		a.forDescendants(id, func(d *Scope) {
			if d.resolve(b.Name) {
				found = true
			}
		})
		// a reference from a nested scope settles the name but does not set Used
		if !found && !b.Used {
			s.unused = append(s.unused, b)
		}
	}
	s.finalized = true
}

func (a *Arena) forDescendants(id ScopeID, fn func(*Scope)) {
	s := a.Get(id)
	if s == nil {
		return
	}
	for _, child := range s.Children {
		if c := a.Get(child); c != nil {
			fn(c)
			a.forDescendants(child, fn)
		}
	}
}

// Messages renders the diagnostics owned by scope id: unresolved references,
// unused bindings, then loop variables rebinding a non-loop name.
func (a *Arena) Messages(id ScopeID, path string) []diag.Diagnostic {
	s := a.Get(id)
	if s == nil {
		return nil
	}
	var out []diag.Diagnostic

	for _, name := range s.PendingNames() {
		ref := s.pending[name]
		out = append(out, diag.New(diag.Undef, path, ref.Span, name, 0))
	}

	for _, b := range s.unused {
		if !b.reportable() {
			continue
		}
		code := diag.UnusedLocal
		if b.IsImport() {
			code = diag.UnusedImport
		}
		out = append(out, diag.New(code, path, b.Span, b.Name, 0))
	}

	for _, sh := range s.Shadows {
		if !sh.Next.IsLoop() || sh.Prev.IsLoop() {
			continue
		}
		line := sh.Prev.Span.Start.Line
		d := diag.New(diag.LoopShadowed, path, sh.Next.Span, sh.Name, line)
		if sh.Prev.Span.Known() {
			d = d.WithNote(sh.Prev.Span, "\""+sh.Name+"\" bound here at line "+strconv.FormatUint(uint64(line), 10))
		}
		out = append(out, d)
	}
	return out
}
