package memory

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/crudkit/repository"
)

// Validated builds a ValidateCreate/ValidateUpdate hook from the input
// type's validate struct tags. Failures carry repository.ErrValidation so
// callers can match the kind without knowing about the validator library.
// T must be a struct type; anything else fails at the first call.
func Validated[T any]() func(data T) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(data T) error {
		err := v.Struct(data)
		if err == nil {
			return nil
		}
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			return fmt.Errorf("%w: %s", repository.ErrValidation, fields.Error())
		}
		return err
	}
}
