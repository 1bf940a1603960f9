// Package testkit holds invariant checks shared by unit tests and fuzz
// targets.
package testkit

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"scopelint/internal/ast"
	"scopelint/internal/diag"
	"scopelint/internal/scope"
)

// CheckScopeInvariants verifies the scope graph left behind by a walk:
//  1. every allocated scope was walked exactly once and is finalized
//  2. parent and child links agree
//  3. a scope is walked only after all of its children
func CheckScopeInvariants(arena *scope.Arena, walked []scope.ScopeID) error {
	if arena == nil {
		return fmt.Errorf("nil arena")
	}
	if len(walked) != arena.Len() {
		return fmt.Errorf("walked %d scopes, arena holds %d", len(walked), arena.Len())
	}
	pos := make(map[scope.ScopeID]int, len(walked))
	for i, id := range walked {
		if _, dup := pos[id]; dup {
			return fmt.Errorf("scope %d walked twice", id)
		}
		s := arena.Get(id)
		if s == nil {
			return fmt.Errorf("walked scope %d does not exist", id)
		}
		if !s.Finalized() {
			return fmt.Errorf("scope %d is not finalized", id)
		}
		pos[id] = i
	}

	n, err := safecast.Conv[uint32](arena.Len())
	if err != nil {
		return fmt.Errorf("arena length overflow: %w", err)
	}
	for raw := uint32(1); raw <= n; raw++ {
		id := scope.ScopeID(raw)
		s := arena.Get(id)
		if p := arena.Get(s.Parent); p != nil {
			if !slices.Contains(p.Children, id) {
				return fmt.Errorf("scope %d is missing from the children of %d", id, s.Parent)
			}
		} else if s.Parent.IsValid() {
			return fmt.Errorf("scope %d has dangling parent %d", id, s.Parent)
		}
		for _, c := range s.Children {
			child := arena.Get(c)
			if child == nil || child.Parent != id {
				return fmt.Errorf("child %d of scope %d does not point back", c, id)
			}
			if pos[c] >= pos[id] {
				return fmt.Errorf("scope %d finalized before its child %d", id, c)
			}
		}
	}
	return nil
}

// CheckScopeOwners verifies that every scope is owned by a distinct node
// of a scope-owning kind, and that only the module root opens a toplevel
// scope.
func CheckScopeOwners(tree *ast.Tree, arena *scope.Arena) error {
	if tree == nil || arena == nil {
		return fmt.Errorf("nil tree or arena")
	}
	n, err := safecast.Conv[uint32](arena.Len())
	if err != nil {
		return fmt.Errorf("arena length overflow: %w", err)
	}
	owners := make(map[ast.NodeID]scope.ScopeID, n)
	for raw := uint32(1); raw <= n; raw++ {
		id := scope.ScopeID(raw)
		s := arena.Get(id)
		node := tree.Node(s.Owner)
		if node == nil {
			return fmt.Errorf("scope %d has no owner node", id)
		}
		if !node.Kind.OwnsScope() {
			return fmt.Errorf("scope %d is owned by %s, which does not open scopes", id, node.Kind)
		}
		if s.Toplevel != (node.Kind == ast.KindToplevel) {
			return fmt.Errorf("scope %d: toplevel=%v but owner is %s", id, s.Toplevel, node.Kind)
		}
		if prev, dup := owners[s.Owner]; dup {
			return fmt.Errorf("node %d owns scopes %d and %d", s.Owner, prev, id)
		}
		owners[s.Owner] = id
	}
	return nil
}

// CheckDiagnostics verifies a final per-file list: known codes, the given
// path everywhere and positions in non-decreasing order.
func CheckDiagnostics(diags []diag.Diagnostic, path string) error {
	for i := range diags {
		d := &diags[i]
		if d.Code == diag.UnknownCode {
			return fmt.Errorf("diagnostic %d has no code", i)
		}
		if d.Path != path {
			return fmt.Errorf("diagnostic %d has path %q, want %q", i, d.Path, path)
		}
		if d.Message == "" {
			return fmt.Errorf("diagnostic %d (%s) has no message", i, d.Code.ID())
		}
		if i > 0 && d.Primary.Start.Before(diags[i-1].Primary.Start) {
			return fmt.Errorf("diagnostic %d at %v sorts before its predecessor at %v", i, d.Primary.Start, diags[i-1].Primary.Start)
		}
	}
	return nil
}
