package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scopelint/internal/builtins"
	"scopelint/internal/diag"
	"scopelint/internal/diagfmt"
	"scopelint/internal/driver"
	"scopelint/internal/observ"
	"scopelint/internal/parse"
	"scopelint/internal/trace"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [flags] [file ...|-]",
		Short: "Lint source files (- or no arguments reads standard input)",
		Long: `Parse every input with the configured parser and report scope problems.
Exit status is 0 when no file produced a diagnostic and 1 otherwise.`,
		Args: cobra.ArbitraryArgs,
		RunE: runLint,
	}
	addLintFlags(cmd)
	return cmd
}

// addLintFlags registers the flags shared by the root and lint commands.
func addLintFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "", "output format (short|pretty|json)")
	f.String("path-mode", "", "how file paths are printed (given|auto|absolute|relative|basename)")
	f.Int("jobs", 0, "max parallel parser processes (0=auto)")
	f.String("parser", "", "parser command (overrides [parser].command)")
	f.StringArray("parser-arg", nil, "argument passed to the parser command (repeatable)")
	f.Duration("parser-timeout", 0, "per-file parser timeout (0 = config or default)")
	f.StringSlice("disable", nil, "diagnostic identifiers to drop, e.g. unused-local,eol-semicolon")
	f.Bool("no-cache", false, "do not use the parsed tree cache")
	f.String("cache-dir", "", "directory of the parsed tree cache")
	f.Bool("with-notes", false, "include notes in pretty and json output")
}

// lintSettings is the configuration after flags have overridden the manifest.
type lintSettings struct {
	manifest  *projectManifest
	config    projectConfig
	files     []string
	format    diagfmt.Format
	pathMode  diagfmt.PathMode
	color     colorMode
	disable   []diag.Code
	timings   bool
	withNotes bool
}

func runLint(cmd *cobra.Command, args []string) (err error) {
	inputs, err := driver.CheckInputs(args)
	if err != nil {
		return fmt.Errorf("usage: %w", err)
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() {
		cleanup(err != nil && !errors.Is(err, errDiagnostics))
	}()

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	if settings.manifest != nil {
		trace.Point(tracer, trace.ScopeDriver, "config", settings.manifest.Path, 0)
	}

	set, err := loadBuiltins(ctx, settings)
	if err != nil {
		return err
	}
	parser, err := buildParser(settings, tracer)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if settings.timings {
		timer = observ.NewTimer()
	}
	baseDir, _ := os.Getwd()

	result, err := driver.Lint(ctx, inputs, driver.Options{
		Parser:         parser,
		Builtins:       set,
		Disable:        settings.disable,
		MaxDiagnostics: settings.config.Lint.MaxDiagnostics,
		Jobs:           settings.config.Lint.Jobs,
		Stdin:          cmd.InOrStdin(),
		BaseDir:        baseDir,
		Timer:          timer,
	})
	if err != nil {
		if errors.Is(err, driver.ErrMultipleStdin) {
			return fmt.Errorf("usage: %w", err)
		}
		return err
	}

	idx := timer.Begin("render")
	err = render(cmd.OutOrStdout(), result, settings)
	timer.End(idx, settings.format.String())
	if err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if !result.Clean() {
		return errDiagnostics
	}
	return nil
}

func resolveSettings(cmd *cobra.Command) (lintSettings, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return lintSettings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	manifest, err := loadProjectManifest(configPath, ".")
	if err != nil {
		return lintSettings{}, err
	}
	cfg := defaultConfig()
	if manifest != nil {
		cfg = manifest.Config
	}
	if err := applyFlagOverrides(cmd, &cfg); err != nil {
		return lintSettings{}, err
	}

	s := lintSettings{manifest: manifest, config: cfg}
	if cfg.Builtins.File != "" {
		s.files = append(s.files, cfg.Builtins.File)
	}
	extra, err := flags.GetStringArray("builtins")
	if err != nil {
		return lintSettings{}, fmt.Errorf("failed to get builtins flag: %w", err)
	}
	s.files = append(s.files, extra...)

	if s.format, err = diagfmt.ParseFormat(cfg.Output.Format); err != nil {
		return lintSettings{}, err
	}
	if s.pathMode, err = diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return lintSettings{}, err
	}
	if s.color, err = parseColorMode(cfg.Output.Color); err != nil {
		return lintSettings{}, err
	}
	if s.disable, err = parseDisabled(cfg.Lint.Disable); err != nil {
		return lintSettings{}, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return lintSettings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if flags.Lookup("with-notes") != nil {
		if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
			return lintSettings{}, fmt.Errorf("failed to get with-notes flag: %w", err)
		}
	}
	return s, nil
}

// applyFlagOverrides copies explicitly set flags over the manifest values.
// Flags the command does not define are ignored.
func applyFlagOverrides(cmd *cobra.Command, cfg *projectConfig) error {
	flags := cmd.Flags()
	var err error
	strFlags := []struct {
		name string
		dst  *string
	}{
		{"color", &cfg.Output.Color},
		{"format", &cfg.Output.Format},
		{"path-mode", &cfg.Output.PathMode},
		{"parser", &cfg.Parser.Command},
		{"cache-dir", &cfg.Cache.Dir},
	}
	for _, f := range strFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.dst, err = flags.GetString(f.name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
	}
	intFlags := []struct {
		name string
		dst  *int
	}{
		{"max-diagnostics", &cfg.Lint.MaxDiagnostics},
		{"jobs", &cfg.Lint.Jobs},
	}
	for _, f := range intFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.dst, err = flags.GetInt(f.name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
	}
	if cfg.Lint.MaxDiagnostics < 0 {
		return fmt.Errorf("max-diagnostics must not be negative")
	}

	if flags.Changed("parser-arg") {
		if cfg.Parser.Args, err = flags.GetStringArray("parser-arg"); err != nil {
			return fmt.Errorf("failed to get parser-arg flag: %w", err)
		}
	}
	if flags.Changed("parser-timeout") {
		if cfg.Parser.Timeout.Duration, err = flags.GetDuration("parser-timeout"); err != nil {
			return fmt.Errorf("failed to get parser-timeout flag: %w", err)
		}
	}
	if flags.Changed("disable") {
		extra, err := flags.GetStringSlice("disable")
		if err != nil {
			return fmt.Errorf("failed to get disable flag: %w", err)
		}
		cfg.Lint.Disable = append(cfg.Lint.Disable, extra...)
	}
	if flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-default-builtins") {
		if cfg.Builtins.NoDefaults, err = flags.GetBool("no-default-builtins"); err != nil {
			return fmt.Errorf("failed to get no-default-builtins flag: %w", err)
		}
	}
	return nil
}

func loadBuiltins(ctx context.Context, s lintSettings) (*builtins.Set, error) {
	opts := builtins.Options{
		NoDefaults: s.config.Builtins.NoDefaults,
		Extra:      s.config.Builtins.Names,
	}
	for _, path := range s.files {
		opts.Providers = append(opts.Providers, builtins.FileProvider{Path: path})
	}
	set, err := builtins.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load builtins: %w", err)
	}
	return set, nil
}

func buildParser(s lintSettings, tracer trace.Tracer) (parse.Parser, error) {
	pc := s.config.Parser
	if pc.Command == "" {
		return nil, fmt.Errorf("%w: set [parser].command in %s or pass --parser", parse.ErrParserUnavailable, configFileName)
	}
	var parser parse.Parser = &parse.CommandParser{
		Command: pc.Command,
		Args:    pc.Args,
		Timeout: pc.Timeout.Duration,
	}
	if !s.config.Cache.Enabled {
		return parser, nil
	}
	cache, err := parse.OpenDiskCache(s.config.Cache.Dir)
	if err != nil {
		// без кэша всё равно работаем
		trace.Error(tracer, "cache", err, 0)
		return parser, nil
	}
	return &parse.CachingParser{
		Inner: parser,
		Cache: cache,
		OnError: func(err error) {
			trace.Error(tracer, "cache", err, 0)
		},
	}, nil
}

func render(w io.Writer, result *driver.Result, s lintSettings) error {
	bag := result.Merged()
	switch s.format {
	case diagfmt.FormatPretty:
		return diagfmt.Pretty(w, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(s.color, w),
			PathMode:  s.pathMode,
			ShowNotes: s.withNotes,
		})
	case diagfmt.FormatJSON:
		return diagfmt.JSON(w, bag, result.FileSet, diagfmt.JSONOpts{
			PathMode:     s.pathMode,
			IncludeNotes: s.withNotes,
		})
	default:
		return diagfmt.Short(w, bag, result.FileSet, s.pathMode)
	}
}

func useColor(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(w)
	}
}
