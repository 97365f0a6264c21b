package rotlog

import (
	smerrors "github.com/Station-Manager/errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config describes a file-backed logging state.
//
// Boolean fields carry no env-default: cleanenv would apply the default over
// an explicit false read from YAML. NewConfig sets them instead.
type Config struct {
	// FileName is the requested path. With rotation active the sequence
	// number is inserted before its extension.
	FileName string `yaml:"file_name" env:"ROTLOG_FILE_NAME" env-required:"true" validate:"required"`

	// Level is the threshold; accepts a number or a name in YAML and env.
	Level Level `yaml:"level" env:"ROTLOG_LEVEL" env-required:"true"`

	// MaxFiles is the number of rotation slots. 0 and 1 disable rotation.
	MaxFiles int `yaml:"max_files" env:"ROTLOG_MAX_FILES" env-default:"1" validate:"gte=0,lte=99999"`

	// MaxFileSize is the size in bytes at which the next write switches
	// slots. 0 selects DefaultMaxFileSize.
	MaxFileSize int64 `yaml:"max_file_size" env:"ROTLOG_MAX_FILE_SIZE" env-default:"1048576" validate:"gte=0"`

	// Prefix is the per-line header template.
	Prefix string `yaml:"prefix" env:"ROTLOG_PREFIX" env-default:"%t"`

	// ReuseExistingFiles allows truncating a file that already exists.
	ReuseExistingFiles bool `yaml:"reuse_existing_files" env:"ROTLOG_REUSE_EXISTING_FILES"`

	// Rotate enables size-triggered rotation when MaxFiles > 1.
	Rotate bool `yaml:"rotate" env:"ROTLOG_ROTATE"`
}

// NewConfig returns a Config for path and level with the same defaults the
// plain StartLogging entry point has always used: one file, default size,
// "%t" prefix, reuse and rotation on.
func NewConfig(fileName string, level Level) Config {
	return Config{
		FileName:           fileName,
		Level:              level,
		MaxFiles:           1,
		MaxFileSize:        DefaultMaxFileSize,
		Prefix:             DefaultPrefix,
		ReuseExistingFiles: true,
		Rotate:             true,
	}
}

// normalized applies the zero-value substitutions.
func (c Config) normalized() Config {
	if c.MaxFiles == 0 {
		c.MaxFiles = 1
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	return c
}

// LoadConfig reads a YAML (or JSON/TOML, by extension) file and then applies
// ROTLOG_* environment overrides.
func LoadConfig(path string) (Config, error) {
	const op smerrors.Op = "rotlog.LoadConfig"

	cfg := NewConfig(emptyString, 0)
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, configError(op, err, "Failed to read logging configuration from "+path)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnvironment builds a Config from the ROTLOG_* variables. The
// file name and level are mandatory.
func ConfigFromEnvironment() (Config, error) {
	const op smerrors.Op = "rotlog.ConfigFromEnvironment"

	cfg := NewConfig(emptyString, 0)
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, configError(op, err, "Failed to read logging configuration from the environment.")
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
