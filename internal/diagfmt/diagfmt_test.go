package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"

	"scopelint/internal/diag"
	"scopelint/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	id := fs.AddVirtual("/home/user/project/src/app.pyj", []byte("def f():\n    i = 0\n    for i in xs: pass;\n"))

	bag := diag.NewBag(0)
	shadow := diag.New(diag.LoopShadowed, "src/app.pyj", source.Point(id, 3, 8, 1), "i", 2).
		WithNote(source.Point(id, 2, 4, 1), `"i" bound here at line 2`)
	bag.Add(shadow)
	bag.Add(diag.New(diag.EOLSemicolon, "src/app.pyj", source.Point(id, 3, 21, 1), ";", 0))
	return bag, fs
}

func TestShortPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAsGiven, "src/app.pyj:ERR:loop-shadowed:3:8: The loop variable \"i\" was previously used in this scope at line: 2"},
		{PathModeAbsolute, "/home/user/project/src/app.pyj:ERR:loop-shadowed:3:8:"},
		{PathModeRelative, "src/app.pyj:ERR:loop-shadowed:3:8:"},
		{PathModeBasename, "app.pyj:ERR:loop-shadowed:3:8:"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Short(&buf, bag, fs, tt.mode); err != nil {
				t.Fatalf("Short: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 2 {
				t.Fatalf("expected 2 lines, got %q", buf.String())
			}
			if !strings.HasPrefix(lines[0], tt.want) {
				t.Fatalf("got %q, want prefix %q", lines[0], tt.want)
			}
			if !strings.Contains(lines[1], ":WARN:eol-semicolon:3:21: ") {
				t.Fatalf("unexpected second line %q", lines[1])
			}
		})
	}
}

func TestPrettyExcerptAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"src/app.pyj:3:8: ERROR loop-shadowed: The loop variable",
		" 3 |     for i in xs: pass;\n",
		"   |         ^\n",
		"note: src/app.pyj:2:4: \"i\" bound here at line 2",
		"WARNING eol-semicolon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colors must be off:\n%s", out)
	}
}

func TestPrettyCaretUnderWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.pyj", []byte("名前 = 未定義\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.Undef, "w.pyj", source.Point(id, 1, 5, 3), "未定義", 0))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	// "名前 = " is 7 cells wide; the name spans 6 cells.
	want := "   | " + strings.Repeat(" ", 7) + "^~~~~~"
	if lines[2] != want {
		t.Fatalf("caret line\n got %q\nwant %q", lines[2], want)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got DiagnosticsOutput
	if err := jsoniter.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity:  "ERROR",
			Code:      "loop-shadowed",
			Message:   `The loop variable "i" was previously used in this scope at line: 2`,
			Name:      "i",
			OtherLine: 2,
			Location:  LocationJSON{File: "app.pyj", StartLine: 3, StartCol: 8, EndLine: 3, EndCol: 9},
			Notes: []NoteJSON{{
				Message:  `"i" bound here at line 2`,
				Location: LocationJSON{File: "app.pyj", StartLine: 2, StartCol: 4, EndLine: 2, EndCol: 5},
			}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"short", "PRETTY", "json", ""} {
		if _, err := ParseFormat(s); err != nil {
			t.Fatalf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}
