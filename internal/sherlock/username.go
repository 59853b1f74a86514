package sherlock

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/watson/internal/domain"
)

// usernamePattern allows letters, digits, underscores, hyphens and periods
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// similarReplacer swaps each separator for the tool's wildcard token
var similarReplacer = strings.NewReplacer(
	"_", domain.WildcardToken,
	"-", domain.WildcardToken,
	".", domain.WildcardToken,
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("sherlock_username", validateUsername)
		validate = v
	})
	return validate
}

func validateUsername(fl validator.FieldLevel) bool {
	return ValidUsername(fl.Field().String())
}

// ValidUsername reports whether s only contains allowed characters
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// ValidateRequest checks a search request before any process is spawned.
// It returns domain.ErrEmptyUsername or domain.ErrInvalidUsername.
func ValidateRequest(req domain.SearchRequest) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidUsername, err)
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return domain.ErrEmptyUsername
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidUsername, req.RawUsername)
}

// SimilarPattern turns a_b-c.d into a{?}b{?}c{?}d
func SimilarPattern(username string) string {
	return similarReplacer.Replace(username)
}
