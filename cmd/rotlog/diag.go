package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	diagMaxSizeMB  = 10
	diagMaxBackups = 3
	diagMaxAgeDays = 28
)

// diagnostics is the command's own logger. It never writes into the log
// being produced from standard input.
type diagnostics struct {
	zerolog.Logger
	file *lumberjack.Logger
}

func newDiagnostics(o *options, stderr io.Writer) *diagnostics {
	d := &diagnostics{}
	writers := d.initializeWriters(o, stderr)
	d.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	return d
}

func (d *diagnostics) initializeWriters(o *options, stderr io.Writer) []io.Writer {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: stderr, NoColor: o.noColor || !isTerminal(stderr)},
	}
	if o.diagFile != emptyString {
		d.file = &lumberjack.Logger{
			Filename:   o.diagFile,
			MaxSize:    diagMaxSizeMB,
			MaxBackups: diagMaxBackups,
			MaxAge:     diagMaxAgeDays,
		}
		writers = append(writers, d.file)
	}
	return writers
}

func (d *diagnostics) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
