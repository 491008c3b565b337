package enquiry

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// dialablePattern accepts an optional leading + followed by 2 to 15 digits,
// the plausible shape of an international dialing number.
var dialablePattern = regexp.MustCompile(`^\+?[0-9]{2,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("dialable", func(fl validator.FieldLevel) bool {
		return dialablePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateDraft checks every rule at once and returns one message per
// violated field, keyed by JSON field name, so the UI can show them all.
func validateDraft(d Draft) map[string]string {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": "is invalid"}
	}

	fields := map[string]string{}
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "dialable":
		return "must be a phone number like +919998042577"
	case "oneof":
		return "must be one of personal, wholesale or other"
	}
	return "is invalid"
}
