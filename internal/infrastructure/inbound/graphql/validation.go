package graphql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"blog-post-service/internal/custom_errors"
)

const validationErrorCode = "VALIDATION_ERROR"

type createDraftInput struct {
	Title string `json:"title" validate:"min=3,max=64"`
	Body  string `json:"body" validate:"min=3,max=64000"`
}

type idInput struct {
	ID int64 `json:"id" validate:"gte=0"`
}

// ValidationError is reported in the GraphQL errors array with its
// extensions.
type ValidationError struct {
	Field    string
	Message  string
	Received string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return custom_errors.ErrPostValidation
}

func (e *ValidationError) Extensions() map[string]any {
	return map[string]any{
		"code":     validationErrorCode,
		"field":    e.Field,
		"received": e.Received,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput returns the first violated constraint as a *ValidationError.
func validateInput(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	fe := fieldErrors[0]
	return &ValidationError{
		Field:    fe.Field(),
		Message:  violationMessage(fe),
		Received: fmt.Sprint(fe.Value()),
	}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Invalid value for argument %q: must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Invalid value for argument %q: must be at most %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("Invalid value for argument %q: must be greater than or equal to %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Invalid value for argument %q: failed %s validation", fe.Field(), fe.Tag())
}
