package rotlog

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"
)

// levelWriter adapts a ContextLogger to io.Writer. Each Write becomes one
// message; a single trailing newline is dropped since the engine adds its
// own.
type levelWriter struct {
	cl    *ContextLogger
	level Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	if err := w.cl.Log(w.level, string(bytes.TrimSuffix(p, []byte{'\n'}))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Writer returns an io.Writer that logs every Write at level. It suits
// log.New and exec.Cmd.Stderr.
func (c *ContextLogger) Writer(level Level) io.Writer {
	return levelWriter{cl: c, level: level}
}

// zerologWriter receives serialised zerolog events. Events carrying a level
// are filtered by the engine threshold after mapping through FromZerolog;
// level-less writes are logged at LevelNone.
type zerologWriter struct {
	cl *ContextLogger
}

func (w zerologWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w zerologWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if err := w.cl.Log(FromZerolog(l), string(bytes.TrimSuffix(p, []byte{'\n'}))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Zerolog returns a zerolog.Logger whose events are written, one JSON object
// per line, through this context's state.
func (c *ContextLogger) Zerolog() zerolog.Logger {
	return zerolog.New(zerologWriter{cl: c})
}

var _ zerolog.LevelWriter = zerologWriter{}
