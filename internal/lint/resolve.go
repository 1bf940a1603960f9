package lint

import (
	"scopelint/internal/builtins"
	"scopelint/internal/diag"
	"scopelint/internal/scope"
)

// Resolver merges the walk results with the line scan and produces the
// final ordered list for one file.
type Resolver struct {
	Builtins *builtins.Set
}

// Resolve concatenates direct diagnostics, line-scan warnings and the
// messages of every walked scope, in that order, then drops suppressed
// ones and undefined builtins and sorts stably by position.
func (r Resolver) Resolve(direct []diag.Diagnostic, scan LineScan, arena *scope.Arena, walked []scope.ScopeID, path string) []diag.Diagnostic {
	bag := diag.NewBag(0)
	for _, d := range direct {
		bag.Add(d)
	}
	for _, d := range scan.Semicolons {
		bag.Add(d)
	}
	for _, id := range walked {
		for _, d := range arena.Messages(id, path) {
			bag.Add(d)
		}
	}
	bag.Filter(func(d *diag.Diagnostic) bool {
		if scan.Suppressed(d) {
			return false
		}
		return d.Code != diag.Undef || !r.Builtins.Has(d.Name)
	})
	bag.Sort()
	return bag.Items()
}
