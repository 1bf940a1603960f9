package parse

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"scopelint/internal/ast"
	"scopelint/internal/astjson"
	"scopelint/internal/source"
)

// FilenameEnv carries the file label to the parser process.
const FilenameEnv = "SCOPELINT_FILENAME"

// DefaultTimeout bounds one parser invocation.
const DefaultTimeout = 30 * time.Second

// CommandParser runs an external program per file. The source goes to its
// stdin; it must print a JSON document as described in package astjson.
type CommandParser struct {
	Command string
	Args    []string
	// Timeout per file; DefaultTimeout when zero, none when negative.
	Timeout time.Duration
	// Env is appended to the current environment.
	Env []string
}

// Fingerprint identifies the command line.
func (p *CommandParser) Fingerprint() string {
	h := sha256.New()
	_, _ = h.Write([]byte(p.Command))
	for _, a := range p.Args {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(a))
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (p *CommandParser) Parse(ctx context.Context, file *source.File) (*ast.Tree, error) {
	if p.Command == "" {
		return nil, fmt.Errorf("%w: no parser command configured", ErrParserUnavailable)
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 -- the command comes from the user's configuration
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Stdin = bytes.NewReader(file.Content)
	cmd.Env = append(append(os.Environ(), p.Env...), FilenameEnv+"="+file.Path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrParserUnavailable, runErr)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("parse %s: %w", file.Path, ctx.Err())
		}
		// a parser may exit non-zero after printing an error document
		if stdout.Len() == 0 {
			return nil, fmt.Errorf("parse %s: %w: %s", file.Path, runErr, strings.TrimSpace(stderr.String()))
		}
	}

	tree, failure, err := astjson.Decode(stdout.Bytes(), file.ID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	if failure != nil {
		return nil, &SyntaxError{Path: file.Path, Message: failure.Message, Line: failure.Line, Col: failure.Col}
	}
	return tree, nil
}
