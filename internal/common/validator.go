package common

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

var (
	defaultValidator     *validator.Validate
	defaultValidatorOnce sync.Once
)

// ValidateStruct checks the `validate` tags of i with a shared validator instance.
func ValidateStruct(i interface{}) error {
	defaultValidatorOnce.Do(func() {
		defaultValidator = validator.New()
	})
	return defaultValidator.Struct(i)
}

type GenericEchoValidator struct {
	Validator *validator.Validate
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	var err error
	if gv.Validator == nil {
		err = ValidateStruct(i)
	} else {
		err = gv.Validator.Struct(i)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request: %v", err))
	}
	return nil
}
