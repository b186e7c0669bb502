package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	dErrors "nexuscomply/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(FieldName)
	return v
}

// FieldName is the name a struct field has on the wire: its json tag, or the
// lowerCamel form of the Go name for untagged fields.
func FieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return lowerCamel(f.Name)
	}
	return name
}

// Validate checks a request struct before it is sent to the backend and
// returns a CodeValidation domain error describing the first failing field.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, message(err, structType(req)))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message.
// Cross-field parameters keep their Go names; Validate resolves them.
func ErrorMessage(err error) string {
	return message(err, nil)
}

func message(err error, owner reflect.Type) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request"
	}

	fe := validationErrs[0]
	field := fe.Field()
	if field == "" {
		field = lowerCamel(fe.StructField())
	}

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "contains":
		return fmt.Sprintf("%s must contain %q", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, siblingName(owner, fe.Param()))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, siblingName(owner, fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	default:
		if field == "" {
			return "invalid request"
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}

func structType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// siblingName maps the Go field named by a cross-field tag to its wire name.
func siblingName(owner reflect.Type, goName string) string {
	if owner != nil {
		if f, ok := owner.FieldByName(goName); ok {
			if name := FieldName(f); name != "" {
				return name
			}
		}
	}
	return lowerCamel(goName)
}

// lowerCamel lowers the leading run of capitals: NewPassword becomes
// newPassword and ID becomes id.
func lowerCamel(s string) string {
	runes := []rune(s)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
