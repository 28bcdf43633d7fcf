package apierror

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to the reasons it failed validation.
//
//	{"email": ["is required"], "age": ["must be at least 18"]}
type FieldErrors map[string][]string

// Add appends a reason for field.
func (f FieldErrors) Add(field, reason string) {
	f[field] = append(f[field], reason)
}

// FromValidationErrors converts struct-tag validation failures into a
// validation-error. Non-validator errors are reported under the "_" key.
func FromValidationErrors(err error) *Error {
	fields := FieldErrors{}

	var ves validator.ValidationErrors
	if !stderrors.As(err, &ves) {
		if err != nil {
			fields.Add("_", "is invalid")
		}
		return Validation(fields).WithCause(err)
	}

	for _, fe := range ves {
		fields.Add(fieldName(fe), describe(fe))
	}
	return Validation(fields).WithCause(err)
}

// fieldName derives a snake_case path for fe, dropping the root struct name
// from the namespace ("Signup.Address.ZipCode" -> "address.zip_code").
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		ns = fe.Field()
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = toSnakeCase(p)
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
