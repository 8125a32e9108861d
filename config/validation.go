package config

import (
	"fmt"

	"github.com/grovetools/hotload/errors"
	"github.com/moby/patternmatcher"
)

// Validate checks the configuration against the schema and the rules the
// schema cannot express.
func (c *Config) Validate() error {
	validator, err := NewSchemaValidator()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create validator")
	}
	if err := validator.Validate(c); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	if size := c.Compiler.MaxTextureSize; size != 0 && (size < 16 || size&(size-1) != 0) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("compiler.max_texture_size must be a power of two >= 16, got %d", size)).
			WithDetail("field", "compiler.max_texture_size")
	}

	if _, err := patternmatcher.New(c.Watch.Ignore); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid watch.ignore pattern").
			WithDetail("field", "watch.ignore")
	}

	return nil
}
