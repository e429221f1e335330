package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// mobileRegexp accepts an optional leading + followed by 7 to 15 digits.
var mobileRegexp = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// RegisterCustomValidations installs the custom binding rules used by the DTO
// tags above on gin's validator engine. Call once at startup.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegexp.MatchString(fl.Field().String())
	})
}
