package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

// 24h wall clock, minutes only
var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func clockValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return clockRegex.MatchString(val)
}

func serviceTypeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return model.ValidServiceType(val)
}
