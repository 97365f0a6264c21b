package rotlog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// SlogHandler implements slog.Handler on top of a ContextLogger so the
// engine can sit behind log/slog. Records are rendered as
// "message key=value key=value"; the engine's prefix supplies time and
// level.
type SlogHandler struct {
	cl    *ContextLogger
	attrs string
	group string
}

// NewSlogHandler returns a handler writing through cl.
func NewSlogHandler(cl *ContextLogger) *SlogHandler {
	return &SlogHandler{cl: cl}
}

// Enabled reports whether the engine threshold passes records at level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.cl.IsEnabled(slogLevel(level))
}

// Handle renders the record and writes it as one message.
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	return h.cl.Log(slogLevel(record.Level), b.String())
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	return &SlogHandler{cl: h.cl, attrs: b.String(), group: h.group}
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == emptyString {
		return h
	}
	group := name
	if h.group != emptyString {
		group = h.group + "." + name
	}
	return &SlogHandler{cl: h.cl, attrs: h.attrs, group: group}
}

// slogLevel maps slog levels onto the engine's bands. Anything above
// slog.LevelError counts as critical.
func slogLevel(level slog.Level) Level {
	switch {
	case level > slog.LevelError:
		return LevelCritical
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	case level >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	switch {
	case group == emptyString:
	case key == emptyString:
		key = group
	default:
		key = group + "." + a.Key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, key, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s == emptyString || strings.ContainsAny(s, " =\"") {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	case slog.KindTime:
		b.WriteString(a.Value.Time().Format(time.RFC3339Nano))
	default:
		b.WriteString(a.Value.String())
	}
}

var _ slog.Handler = (*SlogHandler)(nil)
