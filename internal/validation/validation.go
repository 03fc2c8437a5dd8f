// Package validation configures request validation on gin's binding engine
// and turns validation failures into readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/zohair-aabidi/ajenda/internal/service"
)

var messages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"hexcolor": "The field '%s' must be a hex color.",
	"gtefield": "The field '%s' must not be before '%s'.",
}

// RegisterGin installs the custom rules on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	Register(v)
	return nil
}

// Register installs field naming and struct-level rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	v.RegisterStructValidation(eventRequestRules, service.EventRequest{})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// eventRequestRules requires both bounds and an end that is not before the start.
func eventRequestRules(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(service.EventRequest)
	if !ok {
		return
	}
	if req.Start.IsZero() {
		sl.ReportError(req.Start, "dateDebut", "Start", "required", "")
	}
	if req.End.IsZero() {
		sl.ReportError(req.End, "dateFin", "End", "required", "")
	}
	if !req.Start.IsZero() && !req.End.IsZero() && req.End.Before(req.Start.Time) {
		sl.ReportError(req.End, "dateFin", "End", "gtefield", "dateDebut")
	}
}

// Messages renders a binding error as one message per failed field.
// Errors that are not validation failures (bad JSON) yield a single generic message.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request body."}
	}
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, message(e))
	}
	return out
}

func message(e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}
