package diag

import "strings"

// Code identifies a diagnostic category. ID() is the stable string key used
// in output and in no-lint directives.
type Code uint8

const (
	UnknownCode Code = iota
	Undef
	UnusedImport
	UnusedLocal
	LoopShadowed
	ExtraSemicolon
	EOLSemicolon
	FuncInBranch
	SyntaxErr

	codeCount
)

type codeInfo struct {
	id       string
	template string
	severity Severity
}

var catalog = [codeCount]codeInfo{
	UnknownCode:    {"unknown", "Unknown error", SevError},
	Undef:          {"undef", `undefined symbol: "{name}"`, SevError},
	UnusedImport:   {"unused-import", `"{name}" is imported but not used`, SevError},
	UnusedLocal:    {"unused-local", `"{name}" is defined but not used`, SevError},
	LoopShadowed:   {"loop-shadowed", `The loop variable "{name}" was previously used in this scope at line: {line}`, SevError},
	ExtraSemicolon: {"extra-semicolon", "This semi-colon is not needed", SevWarning},
	EOLSemicolon:   {"eol-semicolon", "Semi-colons at the end of the line are unnecessary", SevWarning},
	FuncInBranch:   {"func-in-branch", "JavaScript in strict mode does not allow the definition of named functions/classes inside a branch such as an if/try/switch", SevError},
	SyntaxErr:      {"syntax-err", "A syntax error caused compilation to abort", SevError},
}

// ID returns the stable identifier, e.g. "unused-local".
func (c Code) ID() string {
	if c >= codeCount {
		return catalog[UnknownCode].id
	}
	return catalog[c].id
}

func (c Code) String() string { return c.ID() }

// Template returns the message template with {name} and {line} placeholders.
func (c Code) Template() string {
	if c >= codeCount {
		return catalog[UnknownCode].template
	}
	return catalog[c].template
}

// Severity returns the default severity of the code.
func (c Code) Severity() Severity {
	if c >= codeCount {
		return SevError
	}
	return catalog[c].severity
}

// Render substitutes the first {name} and {line} placeholders. An empty line
// renders as nothing.
func (c Code) Render(name, line string) string {
	msg := strings.Replace(c.Template(), "{name}", name, 1)
	return strings.Replace(msg, "{line}", line, 1)
}

// ParseCode looks up a code by its identifier.
func ParseCode(id string) (Code, bool) {
	for c := Undef; c < codeCount; c++ {
		if catalog[c].id == id {
			return c, true
		}
	}
	return UnknownCode, false
}

// Codes lists every known code in catalog order.
func Codes() []Code {
	out := make([]Code, 0, codeCount-1)
	for c := Undef; c < codeCount; c++ {
		out = append(out, c)
	}
	return out
}
