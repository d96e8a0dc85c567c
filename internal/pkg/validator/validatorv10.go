package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/seongminoh/otpauth/internal/pkg/strcase"
)

var (
	// Canonical phone format: 010 or 070 prefix, 3-4 digit middle block.
	rePhoneNumber = regexp.MustCompile(`^(010|070)-\d{3,4}-\d{4}$`)

	// Based on NIST 800-63B Guidelines
	rePassword = regexp.MustCompile(`^.{8,72}$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates annotated structs and reports field violations.
type Validator interface {
	Validate(data any) error
}

// V10Validator implements Validator on go-playground/validator v10 with
// English messages and the service's custom tags registered.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator builds the validator, wires English translations, and
// registers the phonenumber and password tags.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	enTrans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	registerPattern(validate, enTrans, "phonenumber", rePhoneNumber, "{0} must match 010-0000-0000")
	registerPattern(validate, enTrans, "password", rePassword, "{0} must be 8-72 characters")

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate checks data against its struct tags. Violations come back as a
// V10ValidationError keyed by snake_case field name.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError)
	for _, fe := range validateErrs {
		errV10[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}
	return errV10
}

// V10ValidationError is a field-to-message map returned when validation fails.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// registerPattern installs a string tag that must match re, with its
// translated message.
//
//nolint:errcheck,gosec // make linter silent
func registerPattern(validate *validator.Validate, enTrans ut.Translator, tag string, re *regexp.Regexp, message string) {
	validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(s)
	})

	validate.RegisterTranslation(tag, enTrans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fe.Field())
			return t
		},
	)
}
