// Package builtins holds the names that are never reported as undefined.
//
// A Set is built once per process and only read afterwards, so it can be
// shared by any number of analysis runs.
package builtins

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrSourceUnavailable is returned by providers that cannot supply their
// catalog text.
var ErrSourceUnavailable = errors.New("builtins source unavailable")

// Set is an immutable collection of builtin names.
type Set struct {
	names map[string]struct{}
}

// Has reports whether name is a builtin. A nil Set contains nothing.
func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len reports the number of names.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the sorted names.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// NewSet builds a set from explicit names.
func NewSet(names ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s.names[n] = struct{}{}
		}
	}
	return s
}

// Provider supplies catalog text: one name per line, `#` starts a comment.
type Provider interface {
	Source(ctx context.Context) (string, error)
}

// FileProvider reads the catalog from a file.
type FileProvider struct{ Path string }

func (p FileProvider) Source(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// #nosec G304 -- path comes from configuration
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, p.Path, err)
	}
	return string(data), nil
}

// StaticProvider returns fixed text.
type StaticProvider string

func (p StaticProvider) Source(context.Context) (string, error) { return string(p), nil }

// Options configure Load.
type Options struct {
	// NoDefaults drops the built-in JavaScript/Python catalog.
	NoDefaults bool
	// Extra names, e.g. from configuration.
	Extra []string
	// Providers are consulted in order; any failure aborts Load.
	Providers []Provider
}

// Load assembles a Set from the default catalog, the extra names and every
// provider's text.
func Load(ctx context.Context, opts Options) (*Set, error) {
	var names []string
	if !opts.NoDefaults {
		names = append(names, Defaults()...)
	}
	names = append(names, opts.Extra...)
	for _, p := range opts.Providers {
		text, err := p.Source(ctx)
		if err != nil {
			return nil, err
		}
		parsed, err := ParseCatalog(text)
		if err != nil {
			return nil, err
		}
		names = append(names, parsed...)
	}
	return NewSet(names...), nil
}

// ParseCatalog extracts names from catalog text.
func ParseCatalog(text string) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, " \t") {
			return nil, fmt.Errorf("builtins catalog line %d: expected a single name, got %q", lineNo, line)
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("builtins catalog: %w", err)
	}
	return out, nil
}
