package parse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"scopelint/internal/ast"
	"scopelint/internal/source"
)

func helperParser(mode string) *CommandParser {
	return &CommandParser{
		Command: os.Args[0],
		Args:    []string{"-test.run=TestHelperProcess", "--", mode},
		Env:     []string{"GO_WANT_HELPER_PROCESS=1"},
	}
}

// TestHelperProcess is not a real test: CommandParser tests run the test
// binary itself as the parser.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(3)
	}
	src, _ := io.ReadAll(os.Stdin)
	switch args[1] {
	case "tree":
		// echo the first word of the source as a reference, and the label as an import
		name := strings.Fields(string(src))[0]
		fmt.Printf(`{"ast":{"type":"Toplevel","body":[{"type":"Import","key":%q},{"type":"SymbolRef","name":%q,"start":{"line":1,"col":0}}]}}`,
			os.Getenv(FilenameEnv), name)
		os.Exit(0)
	case "error":
		fmt.Print(`{"error":{"message":"Unexpected token: punc «)»","line":2,"col":5}}`)
		os.Exit(1)
	case "crash":
		fmt.Fprint(os.Stderr, "boom")
		os.Exit(2)
	}
	os.Exit(3)
}

func virtualFile(name, content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(name, []byte(content)))
}

func TestCommandParserTree(t *testing.T) {
	file := virtualFile("a.pyj", "hello world\n")
	tree, err := helperParser("tree").Parse(context.Background(), file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root)
	if root.Kind != ast.KindToplevel || len(root.Children) != 2 {
		t.Fatalf("unexpected root %+v", root)
	}
	if got := tree.Node(root.Children[0]).Key; got != "a.pyj" {
		t.Fatalf("parser did not receive the file label, got %q", got)
	}
	if got := tree.Node(root.Children[1]).Name; got != "hello" {
		t.Fatalf("parser did not receive the source, got %q", got)
	}
}

func TestCommandParserSyntaxError(t *testing.T) {
	file := virtualFile("bad.pyj", "f(\n")
	_, err := helperParser("error").Parse(context.Background(), file)
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if syntaxErr.Line != 2 || syntaxErr.Col != 5 || syntaxErr.Path != "bad.pyj" {
		t.Fatalf("unexpected syntax error %+v", syntaxErr)
	}
}

func TestCommandParserFailures(t *testing.T) {
	file := virtualFile("x.pyj", "x\n")
	_, err := helperParser("crash").Parse(context.Background(), file)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr in the error, got %v", err)
	}

	missing := &CommandParser{Command: filepath.Join(t.TempDir(), "no-such-parser")}
	if _, err := missing.Parse(context.Background(), file); !errors.Is(err, ErrParserUnavailable) {
		t.Fatalf("expected ErrParserUnavailable, got %v", err)
	}
	if _, err := (&CommandParser{}).Parse(context.Background(), file); !errors.Is(err, ErrParserUnavailable) {
		t.Fatalf("expected ErrParserUnavailable for an empty command, got %v", err)
	}
}

func TestFingerprintDependsOnArgs(t *testing.T) {
	a := &CommandParser{Command: "node", Args: []string{"parse.js"}}
	b := &CommandParser{Command: "node", Args: []string{"parse2.js"}}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("different command lines must not share a fingerprint")
	}
}

func TestCachingParser(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	var calls atomic.Int32
	inner := Func(func(_ context.Context, file *source.File) (*ast.Tree, error) {
		calls.Add(1)
		if strings.HasPrefix(string(file.Content), "bad") {
			return nil, &SyntaxError{Path: file.Path, Message: "nope", Line: 1}
		}
		b := ast.NewBuilder(file.ID, 4)
		ref := b.At(1, 0).Ref("x")
		return b.Finish(b.At(1, 0).Toplevel(ref)), nil
	})
	var cacheErrs []error
	p := &CachingParser{Inner: inner, Cache: cache, OnError: func(err error) { cacheErrs = append(cacheErrs, err) }}

	good := virtualFile("good.pyj", "x\n")
	for range 2 {
		tree, err := p.Parse(context.Background(), good)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		ref := tree.Node(tree.Node(tree.Root).Children[0])
		if ref.Kind != ast.KindSymbolRef || ref.Name != "x" || ref.Span.Start.Line != 1 {
			t.Fatalf("unexpected cached node %+v", ref)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one parser call, got %d", calls.Load())
	}

	bad := virtualFile("other.pyj", "bad\n")
	for range 2 {
		_, err := p.Parse(context.Background(), bad)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) || syntaxErr.Path != "other.pyj" {
			t.Fatalf("expected cached syntax error, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("syntax errors should be cached too, got %d calls", calls.Load())
	}
	if len(cacheErrs) != 0 {
		t.Fatalf("unexpected cache errors: %v", cacheErrs)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := p.Parse(context.Background(), good); err != nil {
		t.Fatalf("Parse after DropAll: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("DropAll should force a reparse, got %d calls", calls.Load())
	}
}
