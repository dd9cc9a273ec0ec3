package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/domainname"
)

// RequestValidator validates bound request bodies with struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator registers the storefront tags (domainname) on top of
// the built-in ones and reports fields by their json name.
func NewRequestValidator() (*RequestValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := domainname.RegisterValidation(v); err != nil {
		return nil, fmt.Errorf("failed to register domain validation: %w", err)
	}
	return &RequestValidator{validate: v}, nil
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.InvalidArgument(fieldMessage(fieldErrs[0]), err)
	}
	return apperrors.InvalidArgument("invalid request", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "iso4217":
		return fmt.Sprintf("%s must be an ISO 4217 currency code", fe.Field())
	case domainname.Tag:
		return fmt.Sprintf("%s must be a valid domain name", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bind decodes the request body and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.InvalidArgument("invalid request body", err)
	}
	return c.Validate(req)
}
