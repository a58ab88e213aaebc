package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON reads the request body into dst. Unknown fields are tolerated;
// both calc endpoints accept passthrough fields the engine never reads.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// DecodeErrors maps a DecodeJSON failure to validation entries. Type
// mismatches carry the json path of the offending field, such as a
// fractional number sent for an integer field; anything else, including
// malformed JSON, is reported against the body as a whole.
func DecodeErrors(err error) []ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []ValidationError{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("Invalid value, expected %s", typeErr.Type),
		}}
	}
	return []ValidationError{{Path: "body", Message: "invalid JSON body"}}
}

// Validate runs struct validation and maps failures to field path entries.
// Returns nil when the value is valid.
func Validate(v any) []ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Path: "body", Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Path:    fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath strips the root struct name from the validator namespace, leaving
// the json path of the offending field (e.g. "items[0].unitPrice").
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		return fmt.Sprintf("Invalid value, expected one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must contain at least %s element(s)", fe.Param())
	default:
		return fmt.Sprintf("Failed validation on %q", fe.Tag())
	}
}
