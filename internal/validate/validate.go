// Package validate checks user input before it is sent to the backend.
package validate

import (
	"math"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/mmcdole/campus/internal/domain"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	halfStepTag = "halfstep"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(halfStepTag, halfStepValidation)
	registerCustomTranslations(notBlankTag, halfStepTag)
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case halfStepTag:
		return fe.Field() + " must be a multiple of 0.5"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func halfStepValidation(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return math.Mod(f*2, 1) == 0
}

// FieldError is one failed field
type FieldError struct {
	Field   string
	Message string
}

// Error lists every failed field. It matches domain.ErrValidation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) UserMessage() string { return e.Error() }

func (e *Error) Is(target error) bool { return target == domain.ErrValidation }

// Field returns the message for field, or ""
func (e *Error) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// Struct validates s against its validate tags
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(translator)})
	}
	return out
}

// Course checks a course before an add or update
func Course(c domain.Course) error {
	return Struct(c)
}

// Feedback checks rating (0.5 to 5 in half steps) and comment length
func Feedback(f domain.Feedback) error {
	return Struct(f)
}

// Signup checks a registration. Any role other than USER is refused first.
func Signup(req domain.SignupRequest) error {
	if req.Role != string(domain.RoleUser) {
		return &domain.Failure{
			Msg: "Only USER role is allowed for signup",
			Err: domain.ErrSignupRoleNotAllowed,
		}
	}
	return Struct(req)
}
