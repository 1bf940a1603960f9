package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scopelint/internal/diag"
	"scopelint/internal/source"
)

type palette struct {
	err, warn, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		code:   color.New(color.FgMagenta),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <code>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	sev := pal.err
	if d.Severity == diag.SevWarning {
		sev = pal.warn
	}
	loc := displayPath(d, fs, opts.PathMode)
	if d.Primary.Known() {
		loc = fmt.Sprintf("%s:%d:%d", loc, d.Primary.Start.Line, d.Primary.Start.Col)
	}
	if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(loc), sev.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message); err != nil {
		return err
	}

	file := lookupFile(fs, d.Primary)
	if err := writeExcerpt(w, file, d.Primary, pal); err != nil {
		return err
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		noteLoc := loc
		if nf := lookupFile(fs, n.Span); nf != nil && n.Span.Known() {
			noteLoc = fmt.Sprintf("%s:%d:%d", formatFilePath(nf, fs, opts.PathMode), n.Span.Start.Line, n.Span.Start.Col)
		}
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), noteLoc, n.Msg); err != nil {
			return err
		}
		if err := writeExcerpt(w, lookupFile(fs, n.Span), n.Span, pal); err != nil {
			return err
		}
	}
	return nil
}

func lookupFile(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(sp.File)
}

// writeExcerpt prints the line of sp and a caret under its columns. Columns
// are character offsets; wide characters take two cells.
func writeExcerpt(w io.Writer, file *source.File, sp source.Span, pal palette) error {
	if file == nil || !sp.Known() {
		return nil
	}
	line := strings.TrimRight(file.GetLine(sp.Start.Line), "\r")
	if line == "" {
		return nil
	}
	num := strconv.FormatUint(uint64(sp.Start.Line), 10)
	pad := strings.Repeat(" ", len(num))
	text := strings.ReplaceAll(line, "\t", " ")

	runes := []rune(text)
	start := min(int(sp.Start.Col), len(runes))
	width := 1
	if sp.End.Line == sp.Start.Line && sp.End.Col > sp.Start.Col {
		width = int(sp.End.Col - sp.Start.Col)
	}
	end := min(start+width, len(runes))

	lead := runewidth.StringWidth(string(runes[:start]))
	marked := max(runewidth.StringWidth(string(runes[start:end])), 1)
	caret := "^" + strings.Repeat("~", marked-1)

	_, err := fmt.Fprintf(w, " %s %s %s\n %s %s %s%s\n",
		pal.gutter.Sprint(num), pal.gutter.Sprint("|"), text,
		pad, pal.gutter.Sprint("|"), strings.Repeat(" ", lead), pal.caret.Sprint(caret))
	return err
}
