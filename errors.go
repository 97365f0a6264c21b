package rotlog

import (
	stderrs "errors"
	"fmt"
	"syscall"

	smerrors "github.com/Station-Manager/errors"
)

// Sentinel causes. Every error returned by this package carries exactly one
// of them somewhere in its chain; use the Is* helpers to classify.
var (
	ErrInvalidConfig = stderrs.New("invalid logging configuration")
	ErrIO            = stderrs.New("logging i/o failure")
	ErrFileExists    = stderrs.New("log file exists and reuse not specified")
	ErrStateClosed   = stderrs.New("logging state closed")
)

// IsConfigError reports whether err was rejected at creation time because of
// its configuration.
func IsConfigError(err error) bool { return hasCause(err, ErrInvalidConfig) }

// IsIOError reports whether err comes from a failed open, stat, write, flush
// or close.
func IsIOError(err error) bool { return hasCause(err, ErrIO) }

// IsPolicyError reports whether err is the refusal to overwrite an existing
// file when reuse was disabled.
func IsPolicyError(err error) bool { return hasCause(err, ErrFileExists) }

// IsClosedError reports whether err came from using a state after Close.
func IsClosedError(err error) bool { return hasCause(err, ErrStateClosed) }

func configError(op smerrors.Op, err error, msg string) error {
	cause := ErrInvalidConfig
	if err != nil {
		cause = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return smerrors.New(op).Err(cause).Msg(bounded(msg))
}

// ioError names the action, the path and the OS error number.
func ioError(op smerrors.Op, action, path string, err error) error {
	code := 0
	var errno syscall.Errno
	if stderrs.As(err, &errno) {
		code = int(errno)
	}
	msg := fmt.Sprintf("Failed to %s file %s: OS error %d", action, path, code)
	return smerrors.New(op).Err(fmt.Errorf("%w: %w", ErrIO, err)).Msg(bounded(msg))
}

func policyError(op smerrors.Op, path string) error {
	msg := fmt.Sprintf("File %s exists and reuse not specified.", path)
	return smerrors.New(op).Err(ErrFileExists).Msg(bounded(msg))
}

func closedError(op smerrors.Op) error {
	return smerrors.New(op).Err(ErrStateClosed).Msg(errMsgStateClosed)
}

// ErrorChain returns the messages of err and its causes, outermost first.
func ErrorChain(err error) []string {
	chain, _, _, _ := buildErrorChain(err)
	return chain
}

// ErrorOps returns the operation of each link in ErrorChain, outermost
// first. Links that are not DetailedErrors have an empty operation.
func ErrorOps(err error) []string {
	_, ops, _, _ := buildErrorChain(err)
	return ops
}

// ErrorRoot returns the innermost cause of err and the innermost operation
// named in its chain.
func ErrorRoot(err error) (op, msg string) {
	_, _, msg, op = buildErrorChain(err)
	return op, msg
}

// ErrorHistory joins ErrorChain with " -> ".
func ErrorHistory(err error) string {
	return joinChain(ErrorChain(err))
}
