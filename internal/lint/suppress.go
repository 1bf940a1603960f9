package lint

import (
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"scopelint/internal/diag"
	"scopelint/internal/source"
)

const noLintMarker = "no-lint"

// Suppression is the no-lint directive of one line.
type Suppression struct {
	All bool
	IDs map[string]struct{}
}

// Suppresses reports whether diagnostics with the given identifier are
// disabled on the line.
func (s Suppression) Suppresses(id string) bool {
	if s.All {
		return true
	}
	_, ok := s.IDs[id]
	return ok
}

// ParseSuppression reads a trailing directive: the last whitespace-separated
// word of the line, optionally prefixed by '#', starting with "no-lint" in
// any case. "no-lint:a,b" disables a and b; a bare "no-lint" disables all.
func ParseSuppression(line string) (Suppression, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Suppression{}, false
	}
	last := strings.TrimPrefix(fields[len(fields)-1], "#")
	if len(last) < len(noLintMarker) || !strings.EqualFold(last[:len(noLintMarker)], noLintMarker) {
		return Suppression{}, false
	}
	parts := strings.Split(last, ":")
	if len(parts) == 1 {
		return Suppression{All: true}, true
	}
	ids := make(map[string]struct{})
	for _, id := range strings.Split(parts[1], ",") {
		ids[strings.TrimSpace(id)] = struct{}{}
	}
	return Suppression{IDs: ids}, true
}

// LineScan is the result of the text pass: eol-semicolon warnings in line
// order and the suppression table keyed by 1-based line.
type LineScan struct {
	Semicolons   []diag.Diagnostic
	Suppressions map[uint32]Suppression
}

// ScanLines inspects raw source text, independent of the syntax tree.
func ScanLines(file *source.File, path string) LineScan {
	scan := LineScan{Suppressions: make(map[uint32]Suppression)}
	if file == nil {
		return scan
	}
	for i, raw := range file.Lines() {
		lineNo, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			break
		}
		line := strings.TrimRight(raw, " \t\r\v\f")
		if strings.HasSuffix(line, ";") {
			col, err := safecast.Conv[uint32](utf8.RuneCountInString(line[:len(line)-1]))
			if err == nil {
				sp := source.Point(file.ID, lineNo, col, 1)
				scan.Semicolons = append(scan.Semicolons, diag.New(diag.EOLSemicolon, path, sp, ";", 0))
			}
		}
		if s, ok := ParseSuppression(line); ok {
			scan.Suppressions[lineNo] = s
		}
	}
	return scan
}

// Suppressed reports whether d falls on a line whose directive disables it.
// Diagnostics without a position are never suppressed.
func (s LineScan) Suppressed(d *diag.Diagnostic) bool {
	if !d.Primary.Known() {
		return false
	}
	sup, ok := s.Suppressions[d.Primary.Start.Line]
	return ok && sup.Suppresses(d.Code.ID())
}
