package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders one diagnostic in the classic single-line form
// `path:LEVEL:ident:line:col: message`. Unknown positions leave their
// fields empty.
func FormatShort(d *Diagnostic) string {
	line, col := "", ""
	if d.Primary.Known() {
		line = fmt.Sprint(d.Primary.Start.Line)
		col = fmt.Sprint(d.Primary.Start.Col)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s: %s", d.Path, d.Severity.Short(), d.Code.ID(), line, col, sanitizeMessage(d.Message))
}

// FormatShortDiagnostics renders diagnostics one per line, in their current
// order, with no trailing newline.
func FormatShortDiagnostics(diags []Diagnostic) string {
	var b strings.Builder
	for i := range diags {
		b.WriteString(FormatShort(&diags[i]))
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
