package rotlog

const (
	// ServiceName is the metrics namespace.
	ServiceName = "rotlog"
	emptyString = ""
)

const (
	// DefaultMaxFileSize applies when a Config leaves MaxFileSize at zero.
	DefaultMaxFileSize int64 = 1024 * 1024
	// DefaultPrefix is the prefix template used when none is configured.
	DefaultPrefix = "%t"
	// MaxRotationSlots bounds MaxFiles so the sequence placeholder stays at
	// most five digits wide.
	MaxRotationSlots = 99999
)

// Environment variables read by StartLoggingFromEnvironment.
const (
	EnvFileName           = "ROTLOG_FILE_NAME"
	EnvLevel              = "ROTLOG_LEVEL"
	EnvMaxFiles           = "ROTLOG_MAX_FILES"
	EnvMaxFileSize        = "ROTLOG_MAX_FILE_SIZE"
	EnvPrefix             = "ROTLOG_PREFIX"
	EnvReuseExistingFiles = "ROTLOG_REUSE_EXISTING_FILES"
	EnvRotate             = "ROTLOG_ROTATE"
)

// Lifecycle lines. They are always written at LevelNone.
const (
	msgStarting            = "starting logging at level "
	msgStartingAfterSwitch = "starting logging (after switch) at level "
	msgSwitching           = "switching to a new log file"
	msgEnding              = "ending logging"
	msgSwitchedLevel       = "switched logging level from "
	msgNull                = "(null)"
)

// Lines written to the default state when context logging starts and stops.
const (
	msgContextStarting = "starting logging for context %d"
	msgContextStopping = "stopping logging for context %d"
	msgContextNotFound = "tried to stop logging without starting first"
)

const (
	errMsgNilConfig      = "Logging config is nil."
	errMsgConfigInvalid  = "Logging configuration is invalid."
	errMsgNoContext      = "Context overrides require a non-zero context id."
	errMsgStateClosed    = "Logging state is closed."
	errMsgNilWriter      = "Stream writer is nil."
	errMsgEmptyLevel     = "Logging level is empty."
	errMsgRegisterMetric = "Failed to register metric."
	maxErrorMessage      = 512
)

const (
	streamStdout = "<stdout>"
	streamStderr = "<stderr>"
	streamOther  = "<stream>"
)
