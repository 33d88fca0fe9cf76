package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // validator caches struct metadata; one instance per process.
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func boundaryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validatePayload checks a decoded payload against its struct tags. Slices are validated
// element by element.
func validatePayload(v any) error {
	var err error
	switch payload := v.(type) {
	case *[]BreachPoint:
		err = boundaryValidator().Var(*payload, "required,dive")
	default:
		err = boundaryValidator().Struct(v)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid payload: %s", strings.Join(parts, ", "))
	}
	return fmt.Errorf("invalid payload: %w", err)
}
