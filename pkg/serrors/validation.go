package serrors

import (
	"fmt"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const CodeValidation = "VALIDATION_FAILED"

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := v.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names in stable order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (v ValidationErrors) Is(target error) bool {
	be, ok := target.(*BaseError)
	return ok && be.Code == CodeValidation
}

func NewFieldRequiredError(field string) ValidationErrors {
	return ValidationErrors{field: fmt.Sprintf("%s is a required field", field)}
}

// ProcessValidatorErrors converts validator output into ValidationErrors keyed by the
// struct field's json name. fieldName may return "" to fall back to the struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors, trans ut.Translator, fieldName func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		key := fe.Field()
		if fieldName != nil {
			if name := fieldName(fe.StructField()); name != "" {
				key = name
			}
		}
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		out[key] = msg
	}
	return out
}
