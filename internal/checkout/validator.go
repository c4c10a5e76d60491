package checkout

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PaymentInfo is the raw card form submitted when embedded fields are
// disabled. Validated before any tokenization attempt.
type PaymentInfo struct {
	CardholderName string `validate:"required"`
	CardNumber     string `validate:"required,credit_card"`
	ExpireMonth    int    `validate:"required,min=1,max=12"`
	ExpireYear     int    `validate:"required,min=1"`
	CardCode       string `validate:"required,numeric,min=3,max=4"`
}

var validate = validator.New()

// ValidatePaymentInfo returns one message per failed field, empty when the
// form is valid.
func ValidatePaymentInfo(info PaymentInfo) []string {
	err := validate.Struct(info)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Field() {
		case "CardholderName":
			messages = append(messages, "Cardholder name is required")
		case "CardNumber":
			messages = append(messages, "Card number is invalid")
		case "ExpireMonth", "ExpireYear":
			messages = append(messages, "Expiration date is invalid")
		case "CardCode":
			messages = append(messages, "Card verification code is invalid")
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldError.Field()))
		}
	}
	return messages
}
