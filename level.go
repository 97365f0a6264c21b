package rotlog

import (
	"strconv"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Level is a numeric severity. Lower values are more verbose.
type Level uint32

const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
	// LevelNone is the sentinel. As a message level it is always written; as
	// a threshold it suppresses every ordinary message.
	LevelNone Level = 100
)

// String returns the name used by the %l prefix directive.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRIT"
	case LevelNone:
		return "TRACE"
	default:
		return strconv.FormatUint(uint64(l), 10)
	}
}

// Enabled reports whether a message at l passes a state configured with
// threshold.
func (l Level) Enabled(threshold Level) bool {
	return l == LevelNone || l >= threshold
}

// ParseLevel accepts a decimal level, the engine's own names (as returned by
// String, plus "warning" and "critical") and anything zerolog.ParseLevel
// understands.
func ParseLevel(s string) (Level, error) {
	const op smerrors.Op = "rotlog.ParseLevel"
	s = strings.TrimSpace(s)
	if s == emptyString {
		return 0, configError(op, nil, errMsgEmptyLevel)
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return Level(n), nil
	}

	switch strings.ToLower(s) {
	case "warning":
		return LevelWarning, nil
	case "crit", "critical":
		return LevelCritical, nil
	case "trace", "none":
		return LevelNone, nil
	}

	zl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return 0, configError(op, err, "Unknown logging level "+strconv.Quote(s))
	}
	return FromZerolog(zl), nil
}

// FromZerolog maps a zerolog level onto the engine's bands. Level-less
// zerolog events (Log()) become LevelNone so they are never filtered.
func FromZerolog(zl zerolog.Level) Level {
	switch zl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarning
	case zerolog.ErrorLevel:
		return LevelError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return LevelCritical
	case zerolog.NoLevel, zerolog.Disabled:
		return LevelNone
	default:
		return LevelInfo
	}
}

// SetValue lets cleanenv populate a Level from an environment variable.
func (l *Level) SetValue(s string) error {
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	return l.SetValue(string(text))
}

// UnmarshalYAML accepts both numeric and named levels.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	return l.SetValue(value.Value)
}
