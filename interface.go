package rotlog

// Logger is the leveled front end shared by Service (the default state) and
// ContextLogger (one context's override, falling back to the default).
// Every method is a no-op returning nil while no state is reachable.
type Logger interface {
	Log(level Level, msg string) error
	Logf(level Level, format string, args ...interface{}) error

	Debug(msg string) error
	Info(msg string) error
	Warning(msg string) error
	Error(msg string) error
	Critical(msg string) error
	Trace(msg string) error

	// LogErr writes msg followed by the error's cause chain.
	LogErr(level Level, msg string, err error) error

	Level() Level
	SetLevel(level Level) error
	IsEnabled(level Level) bool
}

var (
	_ Logger = (*ContextLogger)(nil)
	_ Logger = (*Service)(nil)
)
