package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// maxQuoteIDLength bounds favorite ids supplied by clients.
const maxQuoteIDLength = 128

var (
	// ErrValidation wraps request values that bound but broke a rule.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps malformed JSON bodies and unparsable query values.
	ErrBinding = errors.New("binding failed")
)

// fieldRule is a custom validator tag and the message shown when it fails.
type fieldRule struct {
	fn      validator.Func
	message string
}

// fieldRules are the request-level rules of this API on top of the built-in
// validator tags.
var fieldRules = map[string]fieldRule{
	"quoteid":  {fn: isQuoteID, message: "must be a quote id without spaces or control characters"},
	"notblank": {fn: isNotBlank, message: "must not be blank"},
	"mood":     {fn: isMood, message: "must be one of: positive neutral negative"},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, with field names taken from json
// tags so error details match the wire format.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		for tag, rule := range fieldRules {
			if err := validate.RegisterValidation(tag, rule.fn); err != nil {
				panic(fmt.Sprintf("registering %q validator: %v", tag, err))
			}
		}
	})

	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

// Validate checks struct tags only.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v, then runs ValidateAll.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// BindQueryAndValidate is BindAndValidate for query parameters.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// ValidationErrors flattens tag failures into a json field -> message map.
// Errors that did not come from struct tags yield an empty map.
func ValidationErrors(err error) map[string]string {
	details := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return details
	}

	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}

	return details
}

// IsValidationError reports whether err carries struct tag failures.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func fieldMessage(fe validator.FieldError) string {
	param := fe.Param()

	switch tag := fe.Tag(); tag {
	case "required":
		return "this field is required"
	case "min", "max":
		return boundMessage(tag, param, fe.Kind())
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + param
	default:
		if rule, ok := fieldRules[tag]; ok {
			return rule.message
		}

		return "failed validation: " + tag
	}
}

// boundMessage phrases min/max by kind: characters for strings, items for
// slices, plain numbers otherwise.
func boundMessage(tag, param string, kind reflect.Kind) string {
	prefix := "must be at most "
	if tag == "min" {
		prefix = "must be at least "
	}

	switch kind {
	case reflect.String:
		return prefix + param + " characters"
	case reflect.Slice, reflect.Array:
		return prefix + param + " items"
	default:
		return prefix + param
	}
}

// isQuoteID accepts ids from the quote source or the fallback pool. Empty
// passes; pair with required.
func isQuoteID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) > maxQuoteIDLength {
		return false
	}

	return !strings.ContainsFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isMood(fl validator.FieldLevel) bool {
	_, err := domain.ParseMood(fl.Field().String())
	return err == nil
}

// Validatable is implemented by requests with rules that span fields or
// elements, beyond what tags can express.
type Validatable interface {
	Validate() error
}

// ValidateAll runs the struct tags, then v.Validate when v is Validatable.
func ValidateAll(v any) error {
	if err := Validate(v); err != nil {
		return err
	}

	if vv, ok := v.(Validatable); ok {
		if err := vv.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}
