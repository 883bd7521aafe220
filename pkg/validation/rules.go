package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"toro-system/pkg/constants"
)

var (
	// Телефон строго в формате +7-XXX-XXX-XX-XX.
	phoneRegexp = regexp.MustCompile(`^\+7-\d{3}-\d{3}-\d{2}-\d{2}$`)

	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	equipmentIDRegexp = regexp.MustCompile(`^[A-Z0-9-]{3,40}$`)

	whitespaceRegexp = regexp.MustCompile(`\s+`)
)

// registerRules регистрирует теги, которые мы используем в struct tags DTO.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("phone_ru", isRussianPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_priority", isOrderPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("custom_email", isGoodEmailFormat); err != nil {
		return err
	}
	return nil
}

func isRussianPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegexp.MatchString(fl.Field().String())
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegexp.MatchString(fl.Field().String())
}

func isOrderStatus(fl validator.FieldLevel) bool {
	return constants.IsValidStatus(fl.Field().String())
}

func isOrderPriority(fl validator.FieldLevel) bool {
	return constants.IsValidPriority(fl.Field().String())
}
