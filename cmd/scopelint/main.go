package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scopelint/internal/version"
)

// errDiagnostics marks a run that completed and reported something. It maps
// to exit code 1 without an error message.
var errDiagnostics = errors.New("diagnostics reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scopelint [flags] [file ...|-]",
		Short: "Scope linter for RapydScript sources",
		Long: `scopelint finds undefined symbols, unused imports and locals, shadowed loop
variables, stray semicolons and named definitions inside branches.
Without a subcommand it behaves like "scopelint lint".`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runLint,
	}
	// Устанавливаем версию для автоматического флага --version
	root.Version = version.Version
	root.SetVersionTemplate(version.String(false) + "\n")

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to scopelint.toml (default: search upward from the working directory)")
	pf.String("color", "", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = all)")
	pf.StringArray("builtins", nil, "file with extra builtin names, one per line (repeatable)")
	pf.Bool("no-default-builtins", false, "do not load the default builtin catalog")
	pf.String("trace", "", "write trace events to this file (- for stderr)")
	pf.String("trace-level", "phase", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	addLintFlags(root)
	root.AddCommand(newLintCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newBuiltinsCmd())
	return root
}

// execute runs the command tree and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errDiagnostics):
		return 1
	default:
		fmt.Fprintf(stderr, "scopelint: %v\n", err)
		return 1
	}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
