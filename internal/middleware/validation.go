package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// categoryCodeRe accepts lowercase kebab-case category codes like
// "invoice-overdue" or "webhook-invoice-paid".
var categoryCodeRe = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// RegisterValidations installs custom binding rules on gin's validator
// engine. Must run once before the router serves requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("notifcategory", func(fl validator.FieldLevel) bool {
		return categoryCodeRe.MatchString(fl.Field().String())
	})
}
