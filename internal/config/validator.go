// Copyright 2016 Aleksandr Demakin. All rights reserved.

package config

import (
	"fmt"
	"strings"

	"github.com/nxgtw/go-msgchan/internal/logging"
)

// ValidationError is a single invalid configuration value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a list of validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:", len(e))
	for _, err := range e {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate returns all invalid values of the configuration.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level, "must be one of debug, info, warn, error"})
	}
	if !logging.ValidFormat(c.Logging.Format) {
		errs = append(errs, ValidationError{"logging.format", c.Logging.Format, "must be text or json"})
	}
	positive := []struct {
		field string
		value int
	}{
		{"bench.producers", c.Bench.Producers},
		{"bench.consumers", c.Bench.Consumers},
		{"bench.messages", c.Bench.Messages},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, ValidationError{p.field, p.value, "must be positive"})
		}
	}
	return errs
}
