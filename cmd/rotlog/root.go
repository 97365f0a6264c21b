package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/Station-Manager/rotlog"
	"github.com/Station-Manager/utils"
	"github.com/spf13/cobra"
)

const emptyString = ""

type options struct {
	file         string
	level        string
	messageLevel string
	maxFiles     int
	maxFileSize  int64
	prefix       string
	noReuse      bool
	noRotate     bool
	configPath   string
	fromEnv      bool
	stderr       bool
	diagFile     string
	noColor      bool
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "rotlog",
		Short: "Copy standard input into a rotating log",
		Long: `rotlog reads lines from standard input and writes each one as a log
message, prefixed and rotated by size across numbered files.

The destination comes from the flags, from a YAML file (--config) or from
the ROTLOG_* environment variables (--from-env).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", emptyString, "Log file path (default <executable>.log)")
	f.StringVarP(&o.level, "level", "l", "info", "Threshold: a number or debug, info, warning, error, critical, none")
	f.StringVarP(&o.messageLevel, "message-level", "m", "info", "Level given to every input line")
	f.IntVar(&o.maxFiles, "max-files", 1, "Number of rotation slots; 1 disables rotation")
	f.Int64Var(&o.maxFileSize, "max-file-size", rotlog.DefaultMaxFileSize, "Bytes per file before switching slots")
	f.StringVarP(&o.prefix, "prefix", "p", rotlog.DefaultPrefix, "Line prefix template (%i, %d, %t, %l)")
	f.BoolVar(&o.noReuse, "no-reuse", false, "Fail instead of overwriting an existing file")
	f.BoolVar(&o.noRotate, "no-rotate", false, "Never switch files")
	f.StringVarP(&o.configPath, "config", "c", emptyString, "YAML configuration file; explicit flags override it")
	f.BoolVar(&o.fromEnv, "from-env", false, "Configure from ROTLOG_* environment variables")
	f.BoolVar(&o.stderr, "stderr", false, "Log to standard error instead of a file")
	f.StringVar(&o.diagFile, "diag-file", emptyString, "Also write the command's own diagnostics to this file")
	f.BoolVar(&o.noColor, "no-color", false, "Disable coloured diagnostics")

	cmd.MarkFlagsMutuallyExclusive("config", "from-env", "stderr")
	return cmd
}

func run(cmd *cobra.Command, o *options) error {
	diag := newDiagnostics(o, cmd.ErrOrStderr())
	defer func() { _ = diag.Close() }()

	msgLevel, err := rotlog.ParseLevel(o.messageLevel)
	if err != nil {
		diag.Error().Err(err).Str("flag", "message-level").Msg("invalid level")
		return err
	}

	svc := rotlog.NewService()
	if err := startLogging(cmd, svc, o); err != nil {
		op, cause := rotlog.ErrorRoot(err)
		diag.Error().Str("op", op).Str("cause", cause).Str("history", rotlog.ErrorHistory(err)).Msg("failed to start logging")
		return err
	}
	diag.Info().Str("file", svc.FileName()).Stringer("threshold", svc.Level()).Msg("logging started")

	lines, copyErr := copyLines(cmd.Context(), cmd.InOrStdin(), svc.Writer(msgLevel))
	if copyErr != nil {
		diag.Error().Str("history", rotlog.ErrorHistory(copyErr)).Int("lines", lines).Msg("failed to write line")
	}

	if err := svc.Close(); err != nil {
		diag.Error().Str("history", rotlog.ErrorHistory(err)).Msg("failed to stop logging")
		if copyErr == nil {
			copyErr = err
		}
	}
	diag.Info().Int("lines", lines).Msg("logging stopped")
	return copyErr
}

func startLogging(cmd *cobra.Command, svc *rotlog.Service, o *options) error {
	switch {
	case o.fromEnv:
		return svc.StartLoggingFromEnvironment()
	case o.stderr:
		level, err := rotlog.ParseLevel(o.level)
		if err != nil {
			return err
		}
		return svc.StartLoggingStderr(level, o.prefix)
	}

	cfg, err := buildConfig(cmd, o)
	if err != nil {
		return err
	}
	return svc.StartLogging(cfg)
}

// buildConfig starts from --config when given and lets explicitly set
// flags override it; otherwise every flag applies.
func buildConfig(cmd *cobra.Command, o *options) (rotlog.Config, error) {
	var cfg rotlog.Config
	changed := func(string) bool { return true }

	if o.configPath != emptyString {
		loaded, err := rotlog.LoadConfig(o.configPath)
		if err != nil {
			return rotlog.Config{}, err
		}
		cfg = loaded
		changed = cmd.Flags().Changed
	} else {
		cfg = rotlog.NewConfig(emptyString, rotlog.LevelInfo)
	}

	if changed("file") {
		cfg.FileName = o.file
	}
	if cfg.FileName == emptyString {
		exeName, err := utils.ExecName(true)
		if err != nil {
			return rotlog.Config{}, fmt.Errorf("failed to get executable name: %w", err)
		}
		cfg.FileName = exeName + ".log"
	}
	if changed("level") {
		level, err := rotlog.ParseLevel(o.level)
		if err != nil {
			return rotlog.Config{}, err
		}
		cfg.Level = level
	}
	if changed("max-files") {
		cfg.MaxFiles = o.maxFiles
	}
	if changed("max-file-size") {
		cfg.MaxFileSize = o.maxFileSize
	}
	if changed("prefix") {
		cfg.Prefix = o.prefix
	}
	if changed("no-reuse") {
		cfg.ReuseExistingFiles = !o.noReuse
	}
	if changed("no-rotate") {
		cfg.Rotate = !o.noRotate
	}
	return cfg, nil
}

// copyLines logs each line of r through w until r is exhausted or ctx is
// cancelled. It returns the number of lines written.
func copyLines(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type line struct {
		text []byte
		err  error
	}
	lines := make(chan line)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			text := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line{text: text}:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case lines <- line{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, nil
		case l, ok := <-lines:
			if !ok {
				return n, nil
			}
			if l.err != nil {
				return n, fmt.Errorf("reading standard input: %w", l.err)
			}
			if _, err := w.Write(l.text); err != nil {
				return n, err
			}
			n++
		}
	}
}
