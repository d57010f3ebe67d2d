package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// school work-centre code, e.g. 21EBH0001Z
var cctPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{3}[0-9]{4}[A-Z0-9]$`)

const cctTag = "cct"

func cctValidation(fl validator.FieldLevel) bool {
	return ValidCCT(fl.Field().String())
}

// ValidCCT reports whether s is a well-formed CCT, ignoring case.
func ValidCCT(s string) bool {
	return cctPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation(cctTag, cctValidation)
}
