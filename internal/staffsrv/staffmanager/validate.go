package staffmanager

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// V returns the validator shared by request payloads.
func V() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(s any) apperrors.Error {
	if err := V().Struct(s); err != nil {
		return ErrInvalidInput.Err(err)
	}
	return nil
}

func requireValue(value, field string) apperrors.Error {
	if err := V().Var(value, "required"); err != nil {
		return ErrInvalidInput.Msg(field + " is required")
	}
	return nil
}
