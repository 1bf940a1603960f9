package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"scopelint/internal/diagfmt"
)

// TestHelperParser is not a real test: the CLI tests use the test binary as
// the external parser. Every non-empty line becomes a reference to its first
// word, with trailing semicolons stripped; a line "!" is a syntax error.
func TestHelperParser(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	src, _ := io.ReadAll(os.Stdin)
	var body []string
	for i, line := range strings.Split(string(src), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "!" {
			fmt.Printf(`{"error":{"message":"Unexpected token","line":%d,"col":0}}`, i+1)
			os.Exit(1)
		}
		name := strings.TrimRight(fields[0], ";")
		col := strings.Index(line, name)
		body = append(body, fmt.Sprintf(`{"type":"SymbolRef","name":%q,"start":{"line":%d,"col":%d}}`, name, i+1, col))
	}
	fmt.Printf(`{"ast":{"type":"Toplevel","body":[%s]}}`, strings.Join(body, ","))
	os.Exit(0)
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs scopelint in a fresh temporary working directory with the
// test binary as parser.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	parserArgs := []string{
		"--parser", os.Args[0],
		"--parser-arg=-test.run=TestHelperParser",
	}
	full := append([]string{}, args...)
	if len(full) == 0 || !isSubcommand(full[0]) {
		full = append(parserArgs, full...)
	} else {
		full = append([]string{full[0]}, append(parserArgs, full[1:]...)...)
	}
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func isSubcommand(arg string) bool {
	return arg == "lint"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLintCleanInputExitsZero(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "console\nwindow\n")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stdout %q, stderr %q)", res.code, res.stdout, res.stderr)
	}
	if res.stdout != "" {
		t.Fatalf("expected no output, got %q", res.stdout)
	}
}

func TestLintReportsUndefinedInShortFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "a.pyj", "console\n  frob\n")
	res := runCLI(t, "", "lint", path)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d (stderr %q)", res.code, res.stderr)
	}
	want := path + `:ERR:undef:2:2: undefined symbol: "frob"` + "\n"
	if res.stdout != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", res.stdout, want)
	}
	if res.stderr != "" {
		t.Fatalf("diagnostics must not print an error, got %q", res.stderr)
	}
}

func TestLintFilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	b := writeFile(t, dir, "b.pyj", "beta\n")
	a := writeFile(t, dir, "a.pyj", "alpha\n")
	res := runCLI(t, "", "--path-mode", "basename", "--jobs", "4", b, a)
	want := "b.pyj:ERR:undef:1:0: undefined symbol: \"beta\"\n" +
		"a.pyj:ERR:undef:1:0: undefined symbol: \"alpha\"\n"
	if res.stdout != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", res.stdout, want)
	}
}

func TestLintStdinSemicolonAndSuppression(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "console;\nfrob # no-lint\n")
	want := "<stdin>:WARN:eol-semicolon:1:7: Semi-colons at the end of the line are unnecessary\n"
	if res.stdout != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", res.stdout, want)
	}
	if res.code != 1 {
		t.Fatalf("warnings still fail the run, got exit %d", res.code)
	}
}

func TestLintRejectsTwoStdinArguments(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "x\n", "-", "-")
	if res.code == 0 {
		t.Fatalf("expected a non-zero exit")
	}
	if !strings.Contains(res.stderr, "only one argument can be -") {
		t.Fatalf("expected a usage message, got %q", res.stderr)
	}
	if res.stdout != "" {
		t.Fatalf("nothing should be linted, got %q", res.stdout)
	}
}

func TestLintSyntaxError(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "console\n!\n")
	want := "<stdin>:ERR:syntax-err:2:0: Unexpected token\n"
	if res.code != 1 || res.stdout != want {
		t.Fatalf("unexpected result %d %q, want %q", res.code, res.stdout, want)
	}
}

func TestLintDisableAndBuiltinsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	names := writeFile(t, dir, "names.txt", "# project globals\nfrob\n")

	res := runCLI(t, "frob\nconsole;\n", "--builtins", names, "--disable", "eol-semicolon")
	if res.code != 0 {
		t.Fatalf("expected a clean run, got %d: %q %q", res.code, res.stdout, res.stderr)
	}

	res = runCLI(t, "frob\n", "--builtins", filepath.Join(dir, "missing.txt"))
	if res.code != 1 || !strings.Contains(res.stderr, "failed to load builtins") {
		t.Fatalf("expected a builtins error, got %d %q", res.code, res.stderr)
	}

	res = runCLI(t, "frob\n", "--disable", "no-such-check")
	if res.code != 1 || !strings.Contains(res.stderr, "unknown diagnostic") {
		t.Fatalf("expected an unknown diagnostic error, got %d %q", res.code, res.stderr)
	}
}

func TestLintJSONFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "frob\nzap\n", "--format", "json")
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	var out diagfmt.DiagnosticsOutput
	if err := jsoniter.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("invalid json %q: %v", res.stdout, err)
	}
	if out.Count != 2 || out.Diagnostics[0].Code != "undef" || out.Diagnostics[1].Location.StartLine != 2 {
		t.Fatalf("unexpected json output %+v", out)
	}
}

func TestLintMaxDiagnostics(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "a1\na2\na3\n", "--max-diagnostics", "2")
	if got := strings.Count(res.stdout, "\n"); got != 2 {
		t.Fatalf("expected 2 lines, got %q", res.stdout)
	}
}

func TestLintUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, configFileName, `
[lint]
disable = ["eol-semicolon"]

[builtins]
names = ["frob"]

[cache]
enabled = false

[output]
format = "short"
`)
	res := runCLI(t, "frob;\nzap\n")
	want := "<stdin>:ERR:undef:2:0: undefined symbol: \"zap\"\n"
	if res.stdout != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", res.stdout, want)
	}
}

func TestLintParsedTreeCache(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cacheDir := filepath.Join(dir, "cache")
	path := writeFile(t, dir, "a.pyj", "frob\n")
	first := runCLI(t, "", "--cache-dir", cacheDir, path)
	second := runCLI(t, "", "--cache-dir", cacheDir, path)
	if first.stdout == "" || first.stdout != second.stdout {
		t.Fatalf("cached run differs: %q vs %q", first.stdout, second.stdout)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected cache entries in %s (err %v)", cacheDir, err)
	}
}

func TestLintWithoutParser(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"-"}, strings.NewReader("x\n"), &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "--parser") {
		t.Fatalf("expected a missing parser error, got %d %q", code, stderr.String())
	}
}

func TestBuiltinsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, configFileName, "[builtins]\nnames = [\"zeta_global\"]\nno_defaults = true\n")
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"builtins"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("builtins failed: %q", stderr.String())
	}
	if stdout.String() != "zeta_global\n" {
		t.Fatalf("unexpected builtins %q", stdout.String())
	}

	stdout.Reset()
	code = execute(context.Background(), []string{"builtins", "--no-default-builtins=false"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 || !strings.Contains(stdout.String(), "console\n") || !strings.Contains(stdout.String(), "zeta_global\n") {
		t.Fatalf("expected defaults and config names, got %q", stdout.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"version", "--format", "json", "--full"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("version failed: %q", stderr.String())
	}
	var payload versionPayload
	if err := jsoniter.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "scopelint" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	stdout.Reset()
	code = execute(context.Background(), []string{"version", "--color", "off"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 || !strings.HasPrefix(stdout.String(), "scopelint ") {
		t.Fatalf("unexpected pretty version %q", stdout.String())
	}

	code = execute(context.Background(), []string{"version", "--format", "xml"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected an unsupported format error")
	}
}

func TestTraceToStderr(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "console\n", "--trace", "-", "--trace-format", "ndjson")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d: %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, `"name":"lint"`) {
		t.Fatalf("expected the lint span in the trace, got %q", res.stderr)
	}
}

func TestLintWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	res := runCLI(t, "console\n", "--cpu-profile", cpu, "--mem-profile", mem)
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d: %q", res.code, res.stderr)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("expected a non-empty %s (err %v)", filepath.Base(p), err)
		}
	}
}
