package rotlog

import (
	stderrs "errors"
	"io"
	"os"
	"sync"

	smerrors "github.com/Station-Manager/errors"
)

// State is one logging destination together with its threshold, prefix and
// rotation ring. All methods are safe for concurrent use; writes to the same
// State are serialised by its mutex and reach the destination in lock order.
type State struct {
	mu sync.Mutex

	dest     io.Writer
	file     *os.File // nil unless the state opened the destination itself
	owned    bool
	fileName string
	written  int64

	level   Level
	prefix  prefixFormatter
	rot     rotator
	owner   ContextID
	closed  bool
	metrics *Metrics
}

// StateOption customises a State at construction.
type StateOption func(*State)

// WithOwner sets the context id rendered by %i on lifecycle lines.
func WithOwner(id ContextID) StateOption {
	return func(s *State) { s.owner = id }
}

// WithStateMetrics attaches counters to the state.
func WithStateMetrics(m *Metrics) StateOption {
	return func(s *State) { s.metrics = m }
}

// NewState opens the file described by cfg and writes the startup line.
// Nothing is left open when an error is returned.
func NewState(cfg Config, opts ...StateOption) (*State, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	s := &State{
		owned:    true,
		fileName: cfg.FileName,
		level:    cfg.Level,
		prefix:   newPrefixFormatter(cfg.Prefix),
		rot:      newRotator(cfg.FileName, cfg.MaxFiles, cfg.MaxFileSize, cfg.ReuseExistingFiles, cfg.Rotate),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rot.enabled {
		s.rot.seq = s.rot.initialSlot()
		s.fileName = s.rot.template.name(s.rot.seq)
	}

	f, err := openLogFile(s.fileName, s.rot.reuse)
	if err != nil {
		s.metrics.writeFailed()
		return nil, err
	}
	s.attach(f)

	if err := s.writeLine(s.owner, LevelNone, msgStarting+s.level.String()); err != nil {
		_ = f.Close()
		s.detach()
		return nil, err
	}
	return s, nil
}

// NewStreamState wraps an inherited writer such as os.Stderr. The state
// never closes it, never rotates and writes no lifecycle lines.
func NewStreamState(w io.Writer, level Level, prefix string, opts ...StateOption) (*State, error) {
	const op smerrors.Op = "rotlog.NewStreamState"
	if w == nil {
		return nil, configError(op, nil, errMsgNilWriter)
	}

	s := &State{
		dest:     w,
		fileName: streamName(w),
		level:    level,
		prefix:   newPrefixFormatter(prefix),
		rot:      newRotator(emptyString, 1, DefaultMaxFileSize, true, false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func streamName(w io.Writer) string {
	switch w {
	case os.Stdout:
		return streamStdout
	case os.Stderr:
		return streamStderr
	}
	if f, ok := w.(*os.File); ok {
		return f.Name()
	}
	return streamOther
}

// Write emits msg at level if it passes the threshold, switching rotation
// slots first when the active file is full.
func (s *State) Write(id ContextID, level Level, msg string) error {
	return s.write(id, level, msg)
}

// WriteBytes is Write for byte slices. A nil slice is logged as "(null)".
func (s *State) WriteBytes(id ContextID, level Level, msg []byte) error {
	if msg == nil {
		return s.write(id, level, msgNull)
	}
	return s.write(id, level, string(msg))
}

func (s *State) write(id ContextID, level Level, msg string) error {
	const op smerrors.Op = "rotlog.State.Write"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return closedError(op)
	}
	if !level.Enabled(s.level) {
		return nil
	}
	if s.rot.full(s.file != nil, s.written) {
		if err := s.switchFiles(); err != nil {
			return err
		}
	}
	if s.dest == nil {
		return nil
	}
	return s.writeLine(id, level, msg)
}

// switchFiles closes the active slot and opens the next one. The current
// file is closed even when the switching notice cannot be written.
// Caller holds s.mu.
func (s *State) switchFiles() error {
	const op smerrors.Op = "rotlog.State.switchFiles"

	if s.file != nil {
		noticeErr := s.writeLine(s.owner, LevelNone, msgSwitching)
		closeErr := s.file.Close()
		s.detach()
		if noticeErr != nil {
			return noticeErr
		}
		if closeErr != nil {
			s.metrics.writeFailed()
			return ioError(op, "close", s.fileName, closeErr)
		}
	}

	s.fileName = s.rot.advance()
	f, err := openLogFile(s.fileName, s.rot.reuse)
	if err != nil {
		s.metrics.writeFailed()
		return err
	}
	s.attach(f)
	s.metrics.rotated()

	return s.writeLine(s.owner, LevelNone, msgStartingAfterSwitch+s.level.String())
}

// writeLine assembles prefix, body and newline and hands them to the
// destination in a single Write so concurrent states sharing a stream never
// interleave inside a line. Caller holds s.mu.
func (s *State) writeLine(id ContextID, level Level, msg string) error {
	const op smerrors.Op = "rotlog.State.writeLine"

	line := getLine()
	defer putLine(line)

	b := s.prefix.appendTo(*line, level, id)
	b = append(b, msg...)
	b = append(b, '\n')
	*line = b

	n, err := s.dest.Write(b)
	s.written += int64(n)
	if err != nil {
		s.metrics.writeFailed()
		return ioError(op, "write to", s.fileName, err)
	}
	if f, ok := s.dest.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			s.metrics.writeFailed()
			return ioError(op, "flush", s.fileName, err)
		}
	}
	s.metrics.lineWritten(level, n)
	return nil
}

func (s *State) attach(f *os.File) {
	s.file = f
	s.dest = f
	s.written = 0
}

func (s *State) detach() {
	s.file = nil
	s.dest = nil
}

// Level returns the current threshold.
func (s *State) Level() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Enabled reports whether a message at level would currently be written.
func (s *State) Enabled(level Level) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return level.Enabled(s.level)
}

// SetLevel records the change in the log, then updates the threshold. The
// threshold is left untouched if the record cannot be written.
func (s *State) SetLevel(level Level) error {
	const op smerrors.Op = "rotlog.State.SetLevel"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return closedError(op)
	}
	if s.dest != nil {
		msg := msgSwitchedLevel + s.level.String() + " to " + level.String()
		if err := s.writeLine(s.owner, LevelNone, msg); err != nil {
			return err
		}
	}
	s.level = level
	return nil
}

// FileName returns the active path, or a <stdout>-style name for streams.
func (s *State) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// SequenceNumber returns the active rotation slot, starting at 1.
func (s *State) SequenceNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rot.seq
}

// Close writes the closing line and closes the destination if the state
// owns it. Both steps are attempted; their errors are joined. Close is
// idempotent and later writes fail with a closed-state error.
func (s *State) Close() error {
	const op smerrors.Op = "rotlog.State.Close"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if !s.owned || s.file == nil {
		s.dest = nil
		return nil
	}

	bannerErr := s.writeLine(s.owner, LevelNone, msgEnding)
	var closeErr error
	if err := s.file.Close(); err != nil {
		closeErr = ioError(op, "close", s.fileName, err)
	}
	s.detach()
	return stderrs.Join(bannerErr, closeErr)
}
