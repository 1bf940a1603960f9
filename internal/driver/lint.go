// Package driver runs the lint pipeline over a list of inputs: load, parse
// (in parallel), analyze, then filter per configuration.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"scopelint/internal/builtins"
	"scopelint/internal/diag"
	"scopelint/internal/lint"
	"scopelint/internal/observ"
	"scopelint/internal/parse"
	"scopelint/internal/source"
	"scopelint/internal/trace"
)

// StdinArg is the command-line spelling of standard input.
const StdinArg = "-"

// ErrMultipleStdin is returned when standard input is requested twice.
var ErrMultipleStdin = errors.New("only one argument can be - (standard input)")

// Options configure Lint.
type Options struct {
	Parser   parse.Parser
	Builtins *builtins.Set
	// Disable drops these codes after resolution.
	Disable []diag.Code
	// MaxDiagnostics truncates each file's sorted list; <= 0 keeps all.
	MaxDiagnostics int
	// Jobs bounds parallel parsing; GOMAXPROCS when <= 0.
	Jobs int
	// Stdin is read for the "-" input; os.Stdin when nil.
	Stdin io.Reader
	// BaseDir for relative path display.
	BaseDir string
	Timer   *observ.Timer
}

// FileResult holds the outcome for one input, in argument order.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Bag         *diag.Bag
	SyntaxError bool
}

// Result collects every file's diagnostics.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Count returns the number of diagnostics over all files.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, f := range r.Files {
		n += f.Bag.Len()
	}
	return n
}

// Clean reports whether no file produced a diagnostic.
func (r *Result) Clean() bool { return r.Count() == 0 }

// Merged returns one bag with every file's diagnostics, file by file.
func (r *Result) Merged() *diag.Bag {
	out := diag.NewBag(0)
	if r == nil {
		return out
	}
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	return out
}

// CheckInputs validates the argument list. No arguments means stdin.
func CheckInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{StdinArg}, nil
	}
	stdin := 0
	for _, a := range args {
		if a == StdinArg {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, ErrMultipleStdin
	}
	return args, nil
}

// Lint runs the pipeline over inputs. Syntax errors become diagnostics;
// unreadable inputs and parser failures abort the run.
func Lint(ctx context.Context, inputs []string, opts Options) (*Result, error) {
	inputs, err := CheckInputs(inputs)
	if err != nil {
		return nil, err
	}
	if opts.Parser == nil {
		return nil, fmt.Errorf("%w: no parser", parse.ErrParserUnavailable)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lint")
	defer span.End("")

	fs := source.NewFileSetWithBase(opts.BaseDir)
	idx := opts.Timer.Begin("load")
	files, err := load(ctx, fs, inputs, opts.Stdin)
	opts.Timer.End(idx, strconv.Itoa(len(files))+" files")
	if err != nil {
		trace.Error(trace.FromContext(ctx), "load", err, span.ID())
		return nil, err
	}

	idx = opts.Timer.Begin("lint")
	results, err := lintFiles(ctx, fs, files, opts)
	opts.Timer.End(idx, "")
	if err != nil {
		trace.Error(trace.FromContext(ctx), "lint", err, span.ID())
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(results)))
	return &Result{FileSet: fs, Files: results}, nil
}

func load(ctx context.Context, fs *source.FileSet, inputs []string, stdin io.Reader) ([]source.FileID, error) {
	_, span := trace.Start(ctx, trace.ScopePass, "load")
	defer span.End("")

	ids := make([]source.FileID, 0, len(inputs))
	for _, in := range inputs {
		if in == StdinArg {
			if stdin == nil {
				stdin = os.Stdin
			}
			id, err := fs.LoadReader(source.StdinName, stdin)
			if err != nil {
				return nil, fmt.Errorf("read standard input: %w", err)
			}
			ids = append(ids, id)
			continue
		}
		id, err := fs.Load(in)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", in, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func lintFiles(ctx context.Context, fs *source.FileSet, ids []source.FileID, opts Options) ([]FileResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "parse+analyze")
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(ids))))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := lintFile(gctx, fs.Get(id), opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lintFile(ctx context.Context, file *source.File, opts Options) (FileResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	res := FileResult{Path: file.Path, FileID: file.ID, Bag: diag.NewBag(0)}
	defer func() {
		span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End("")
	}()

	start := time.Now()
	tree, err := opts.Parser.Parse(ctx, file)
	opts.Timer.Add("parse", time.Since(start))

	var syntaxErr *parse.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		d := diag.New(diag.SyntaxErr, file.Path, syntaxErr.Span(file.ID), "", 0)
		if syntaxErr.Message != "" {
			d.Message = syntaxErr.Message
		}
		res.Bag.Add(d)
		res.SyntaxError = true
		span.WithExtra("syntax", syntaxErr.Message)
	case err != nil:
		span.Fail(err)
		return res, err
	default:
		start = time.Now()
		for _, d := range lint.Analyze(tree, file, lint.Options{Builtins: opts.Builtins}) {
			res.Bag.Add(d)
		}
		opts.Timer.Add("analyze", time.Since(start))
	}

	if len(opts.Disable) > 0 {
		res.Bag.Filter(func(d *diag.Diagnostic) bool {
			return !slices.Contains(opts.Disable, d.Code)
		})
	}
	res.Bag.Truncate(opts.MaxDiagnostics)
	return res, nil
}
