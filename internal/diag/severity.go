package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is for stylistic findings (stray semicolons).
	SevWarning Severity = iota + 1
	// SevError is for everything else.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Short returns the compact label used by the one-line report format.
func (s Severity) Short() string {
	if s == SevWarning {
		return "WARN"
	}
	return "ERR"
}
