package fuzztests

import (
	"reflect"
	"testing"

	"scopelint/internal/astjson"
	"scopelint/internal/builtins"
	"scopelint/internal/lint"
	"scopelint/internal/source"
	"scopelint/internal/testkit"
)

// FuzzDecodeAndAnalyze feeds arbitrary parser output through the decoder
// and, when it yields a tree, through the walker and the resolver.
func FuzzDecodeAndAnalyze(f *testing.F) {
	addDocumentSeeds(f)
	set := builtins.NewSet(builtins.Defaults()...)

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.pyj", input)
		file := fs.Get(id)

		tree, failure, err := astjson.Decode(input, id)
		if err != nil {
			return
		}
		if (tree == nil) == (failure == nil) {
			t.Fatalf("Decode must return exactly one of tree and failure: tree=%v failure=%v", tree != nil, failure)
		}
		if tree == nil {
			return
		}

		w := lint.NewWalker(tree, file.Path, nil)
		w.Walk()
		if w.Depth() != 0 || w.BranchDepth() != 0 {
			t.Fatalf("walker left state behind: depth=%d branches=%d", w.Depth(), w.BranchDepth())
		}
		if err := testkit.CheckScopeInvariants(w.Scopes(), w.Walked()); err != nil {
			t.Fatalf("scope graph: %v", err)
		}
		if err := testkit.CheckScopeOwners(tree, w.Scopes()); err != nil {
			t.Fatalf("scope owners: %v", err)
		}

		first := lint.Analyze(tree, file, lint.Options{Builtins: set})
		if err := testkit.CheckDiagnostics(first, file.Path); err != nil {
			t.Fatalf("diagnostics: %v", err)
		}
		second := lint.Analyze(tree, file, lint.Options{Builtins: set})
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Analyze is not deterministic")
		}
	})
}

// FuzzScanLines checks the semicolon and suppression scanner on raw text.
func FuzzScanLines(f *testing.F) {
	addSourceSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.pyj", input))

		scan := lint.ScanLines(file, file.Path)
		if err := testkit.CheckDiagnostics(scan.Semicolons, file.Path); err != nil {
			t.Fatalf("semicolons: %v", err)
		}
		for line := range scan.Suppressions {
			if line == 0 {
				t.Fatalf("suppression recorded on line 0")
			}
		}
	})
}
