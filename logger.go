package rotlog

import (
	"fmt"
	"strings"
	"sync"
)

// sprintPool is a buffer pool for Logf formatting to reduce allocations
var sprintPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// ContextLogger writes on behalf of one context: to the context's override
// when it has one, and to the service's default state otherwise. It is a
// small value; creating one per call is fine.
type ContextLogger struct {
	svc *Service
	id  ContextID
}

// ID returns the context id rendered by %i.
func (c *ContextLogger) ID() ContextID {
	return c.id
}

func (c *ContextLogger) do(fn func(*State) error) (bool, error) {
	return c.svc.registry.Do(c.id, fn)
}

// Log writes msg at level.
func (c *ContextLogger) Log(level Level, msg string) error {
	_, err := c.do(func(st *State) error {
		return st.Write(c.id, level, msg)
	})
	return err
}

// Logf formats and writes a message at level. Nothing is formatted when the
// level is filtered out. Arguments are formatted outside the registry lock,
// so a Stringer may itself log.
func (c *ContextLogger) Logf(level Level, format string, args ...interface{}) error {
	if !c.IsEnabled(level) {
		return nil
	}

	buf := sprintPool.Get().(*strings.Builder)
	buf.Reset()
	defer sprintPool.Put(buf)

	_, _ = fmt.Fprintf(buf, format, args...)
	return c.Log(level, buf.String())
}

// Debug writes msg at LevelDebug.
func (c *ContextLogger) Debug(msg string) error { return c.Log(LevelDebug, msg) }

// Info writes msg at LevelInfo.
func (c *ContextLogger) Info(msg string) error { return c.Log(LevelInfo, msg) }

// Warning writes msg at LevelWarning.
func (c *ContextLogger) Warning(msg string) error { return c.Log(LevelWarning, msg) }

// Error writes msg at LevelError.
func (c *ContextLogger) Error(msg string) error { return c.Log(LevelError, msg) }

// Critical writes msg at LevelCritical.
func (c *ContextLogger) Critical(msg string) error { return c.Log(LevelCritical, msg) }

// Trace writes at LevelNone, which no threshold filters out.
func (c *ContextLogger) Trace(msg string) error { return c.Log(LevelNone, msg) }

// Debugf formats and writes at LevelDebug.
func (c *ContextLogger) Debugf(format string, args ...interface{}) error {
	return c.Logf(LevelDebug, format, args...)
}

// Infof formats and writes at LevelInfo.
func (c *ContextLogger) Infof(format string, args ...interface{}) error {
	return c.Logf(LevelInfo, format, args...)
}

// Warningf formats and writes at LevelWarning.
func (c *ContextLogger) Warningf(format string, args ...interface{}) error {
	return c.Logf(LevelWarning, format, args...)
}

// Errorf formats and writes at LevelError.
func (c *ContextLogger) Errorf(format string, args ...interface{}) error {
	return c.Logf(LevelError, format, args...)
}

// Criticalf formats and writes at LevelCritical.
func (c *ContextLogger) Criticalf(format string, args ...interface{}) error {
	return c.Logf(LevelCritical, format, args...)
}

// Tracef formats and writes at LevelNone.
func (c *ContextLogger) Tracef(format string, args ...interface{}) error {
	return c.Logf(LevelNone, format, args...)
}

// LogErr writes "msg: outer -> ... -> root". A nil err writes msg alone.
func (c *ContextLogger) LogErr(level Level, msg string, err error) error {
	if err == nil {
		return c.Log(level, msg)
	}
	history := ErrorHistory(err)
	if msg == emptyString {
		return c.Log(level, history)
	}
	return c.Log(level, msg+": "+history)
}

// Level returns the threshold in effect for this context, or LevelNone when
// logging is not active.
func (c *ContextLogger) Level() Level {
	level := LevelNone
	_, _ = c.do(func(st *State) error {
		level = st.Level()
		return nil
	})
	return level
}

// SetLevel changes the threshold of the state this context writes to. It
// does nothing while logging is not active.
func (c *ContextLogger) SetLevel(level Level) error {
	_, err := c.do(func(st *State) error {
		return st.SetLevel(level)
	})
	return err
}

// IsActive reports whether a state is reachable from this context.
func (c *ContextLogger) IsActive() bool {
	ok, _ := c.do(func(*State) error { return nil })
	return ok
}

// IsEnabled reports whether a message at level would be written.
func (c *ContextLogger) IsEnabled(level Level) bool {
	enabled := false
	_, _ = c.do(func(st *State) error {
		enabled = st.Enabled(level)
		return nil
	})
	return enabled
}

// FileName returns the active file of the reachable state, or "".
func (c *ContextLogger) FileName() string {
	name := emptyString
	_, _ = c.do(func(st *State) error {
		name = st.FileName()
		return nil
	})
	return name
}
