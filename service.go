package rotlog

import (
	"context"
	stderrs "errors"
	"io"
	"os"

	smerrors "github.com/Station-Manager/errors"
)

// Service owns a Registry and starts and stops the states in it. The
// embedded ContextLogger writes to the default state; use Context or
// FromContext to write on behalf of a context with its own destination.
type Service struct {
	*ContextLogger

	registry *Registry
	metrics  *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics counts lines, bytes, rotations and failures of every state
// the service starts from now on.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService returns a service with no active states.
func NewService(opts ...Option) *Service {
	s := &Service{registry: NewRegistry()}
	s.ContextLogger = &ContextLogger{svc: s, id: NoContext}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the underlying registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Context returns a logger for id. NoContext returns the default logger.
func (s *Service) Context(id ContextID) *ContextLogger {
	if id == NoContext {
		return s.ContextLogger
	}
	return &ContextLogger{svc: s, id: id}
}

// FromContext returns the logger for the id carried by ctx.
func (s *Service) FromContext(ctx context.Context) *ContextLogger {
	return s.Context(ContextIDFrom(ctx))
}

func (s *Service) stateOptions(id ContextID) []StateOption {
	return []StateOption{WithOwner(id), WithStateMetrics(s.metrics)}
}

// StartLogging opens the file described by cfg and makes it the default
// state. A previous default is closed once writes in flight on it finish;
// its close error, if any, is returned while the new state stays active.
func (s *Service) StartLogging(cfg Config) error {
	st, err := NewState(cfg, s.stateOptions(NoContext)...)
	if err != nil {
		return err
	}
	return s.installDefault(st)
}

// StartLoggingToStream makes w the default destination. w is never closed.
func (s *Service) StartLoggingToStream(w io.Writer, level Level, prefix string) error {
	st, err := NewStreamState(w, level, prefix, s.stateOptions(NoContext)...)
	if err != nil {
		return err
	}
	return s.installDefault(st)
}

// StartLoggingStdout makes standard output the default destination.
func (s *Service) StartLoggingStdout(level Level, prefix string) error {
	return s.StartLoggingToStream(os.Stdout, level, prefix)
}

// StartLoggingStderr makes standard error the default destination.
func (s *Service) StartLoggingStderr(level Level, prefix string) error {
	return s.StartLoggingToStream(os.Stderr, level, prefix)
}

// StartLoggingFromEnvironment starts the default state from the ROTLOG_*
// variables. ROTLOG_FILE_NAME and ROTLOG_LEVEL are required.
func (s *Service) StartLoggingFromEnvironment() error {
	cfg, err := ConfigFromEnvironment()
	if err != nil {
		return err
	}
	return s.StartLogging(cfg)
}

func (s *Service) installDefault(st *State) error {
	if old := s.registry.SetDefault(st); old != nil {
		return old.Close()
	}
	return nil
}

// StopLogging closes the default state. Overrides are left running.
func (s *Service) StopLogging() error {
	if old := s.registry.SetDefault(nil); old != nil {
		return old.Close()
	}
	return nil
}

// StartLoggingForContext gives id its own state. The new destination is
// announced on the default state before the override takes effect, and a
// state previously registered for id is closed.
func (s *Service) StartLoggingForContext(id ContextID, cfg Config) error {
	const op smerrors.Op = "rotlog.Service.StartLoggingForContext"
	if id == NoContext {
		return configError(op, nil, errMsgNoContext)
	}

	st, err := NewState(cfg, s.stateOptions(id)...)
	if err != nil {
		return err
	}

	if err := s.announceContext(id, st); err != nil {
		_ = st.Close()
		return err
	}

	old, err := s.registry.SetOverride(id, st)
	if err != nil {
		_ = st.Close()
		return err
	}
	if old != nil {
		return old.Close()
	}
	return nil
}

func (s *Service) announceContext(id ContextID, st *State) error {
	st.mu.Lock()
	fileName, level := st.fileName, st.level
	maxFiles, maxFileSize := st.rot.maxFiles, st.rot.maxFileSize
	st.mu.Unlock()

	def := s.ContextLogger
	return stderrs.Join(
		def.Infof(msgContextStarting, id),
		def.Infof("    fileName => %s", fileName),
		def.Infof("    level => %d", level),
		def.Infof("    maxFiles => %d", maxFiles),
		def.Infof("    maxFileSize => %d", maxFileSize),
	)
}

// StopLoggingForContext closes the override of id; the context falls back
// to the default state. Stopping a context that never started is logged as
// a warning and is not an error.
func (s *Service) StopLoggingForContext(id ContextID) error {
	removed, err := s.registry.ClearOverride(id)
	if !removed {
		return s.Warning(msgContextNotFound)
	}
	return stderrs.Join(err, s.Infof(msgContextStopping, id))
}

// Close stops every context and then the default state.
func (s *Service) Close() error {
	return s.registry.CloseAll()
}
