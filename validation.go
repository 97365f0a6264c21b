package rotlog

import (
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op smerrors.Op = "rotlog.validateConfig"
	if cfg == nil {
		return configError(op, nil, errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return configError(op, err, errMsgConfigInvalid)
	}

	return nil
}
