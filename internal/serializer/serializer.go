package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"inscode/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as they appear on the wire, not as Go fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses the JSON body into dst, rejecting unknown keys.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.BadRequest("malformed request body")
	}
	return nil
}

// DecodeBytes is Decode over an in-memory body.
func DecodeBytes(body []byte, dst any) error {
	return Decode(bytes.NewReader(body), dst)
}

// Validate runs struct validation on dst and converts any violations
// into a 400 error carrying one entry per offending field.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Internal("validation failed")
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apperror.BadRequest("validation failed", fields...)
}

// DecodeValid decodes and validates in one step.
func DecodeValid(body []byte, dst any) error {
	if err := DecodeBytes(body, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// VerifyRequired checks that every named key is present and non-empty
// in a raw decoded payload. It covers dynamic payloads where a typed
// DTO is not available.
func VerifyRequired(data map[string]any, fields ...string) error {
	var missing []apperror.FieldError
	for _, f := range fields {
		v, ok := data[f]
		if !ok || v == nil || v == "" {
			missing = append(missing, apperror.FieldError{
				Field:   f,
				Message: "this field is required",
			})
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i].Field < missing[j].Field })
		return apperror.BadRequest("validation failed", missing...)
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid4", "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
