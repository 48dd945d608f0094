package constants

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/iota-uz/hradmin/pkg/serrors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator
)

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")

	Validate = validator.New(validator.WithRequiredStructEnabled())
	// Report json names so field errors line up with the wire format.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := entranslations.RegisterDefaultTranslations(Validate, Translator); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the shared validator and returns English field errors keyed by json
// name, or nil when v is valid.
func ValidateStruct(v any) serrors.ValidationErrors {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serrors.ValidationErrors{"_": err.Error()}
	}
	return serrors.ProcessValidatorErrors(verrs, Translator, nil)
}
