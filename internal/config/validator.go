package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/watson/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateSherlock checks the tool invocation settings. Failures here are fatal
// since no backend can serve searches without them.
func ValidateSherlock(c SherlockConfig) error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid sherlock settings: %s", describe(err))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid sherlock settings: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// CheckBackend reports whether the named backend has usable credentials.
// An absent section and an incomplete one both wrap domain.ErrBackendNotConfigured.
func (c *Config) CheckBackend(p domain.Platform) error {
	var (
		section any
		empty   bool
	)
	switch p {
	case domain.PlatformMatrix:
		section = c.Matrix
		empty = c.Matrix == MatrixConfig{}
	case domain.PlatformDiscord:
		section = c.Discord
		empty = c.Discord == DiscordConfig{}
	default:
		return fmt.Errorf("%w: unknown platform %q", domain.ErrBackendNotConfigured, p)
	}

	if empty {
		return fmt.Errorf("%w: %s section missing", domain.ErrBackendNotConfigured, p)
	}
	if err := getValidator().Struct(section); err != nil {
		return fmt.Errorf("%w: %s: %s", domain.ErrBackendNotConfigured, p, describe(err))
	}
	return nil
}

// EnabledBackends returns the configured platforms together with the reason
// each disabled platform was skipped.
func (c *Config) EnabledBackends() ([]domain.Platform, map[domain.Platform]error) {
	var enabled []domain.Platform
	skipped := make(map[domain.Platform]error)
	for _, p := range []domain.Platform{domain.PlatformMatrix, domain.PlatformDiscord} {
		if err := c.CheckBackend(p); err != nil {
			skipped[p] = err
			continue
		}
		enabled = append(enabled, p)
	}
	return enabled, skipped
}

// Warnings returns non-fatal issues such as example values left in place
func (c *Config) Warnings() []string {
	var warnings []string

	if c.Matrix.Password == ExamplePassword {
		warnings = append(warnings, "matrix.password appears to be using the example value")
	}
	if c.Discord.Token == ExampleToken {
		warnings = append(warnings, "discord.token appears to be using the example value")
	}
	if c.Discord.MessageCommands {
		warnings = append(warnings, "discord.message_commands requires the privileged Message Content intent")
	}

	return warnings
}

// describe flattens validator errors into "field: tag" pairs without leaking struct internals
func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "required_without":
			parts = append(parts, field+" is required")
		case "url":
			parts = append(parts, field+" must be a URL")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}
