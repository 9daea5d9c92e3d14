package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Empty input matches on purpose: query parameters have historically accepted
// an empty mobile number. Body fields pair the tag with "required".
// TODO: drop the empty alternative once callers stop sending blank mobileNumber queries.
var twelveDigits = regexp.MustCompile(`^$|^[0-9]{12}$`)

const mobileNumberMessage = "Mobile Number must be 12 digits of number"

var fieldMessages = map[string]string{
	"mobileNumber.required": "Mobile Number can not be a null or empty",
	"mobileNumber.digits12": mobileNumberMessage,
	"cardNumber.required":   "Card Number can not be a null or empty",
	"cardNumber.digits12":   "CardNumber must be 12 digits of number",
	"cardType.required":     "CardType can not be a null or empty",
	"totalLimit.gt":         "Total card limit should be greater than zero",
	"amountUsed.gte":        "Total amount used should be equal or greater than zero",
	"availableAmount.gte":   "Total available amount should be equal or greater than zero",
}

func ValidMobileNumber(s string) bool {
	return twelveDigits.MatchString(s)
}

// NewValidator returns a validator that knows the digits12 tag and reports
// fields by their JSON names.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := registerTags(v, customTags); err != nil {
		return nil, err
	}

	return v, nil
}

var customTags = map[string]validator.Func{
	"digits12": func(fl validator.FieldLevel) bool {
		return ValidMobileNumber(fl.Field().String())
	},
}

func registerTags(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %q validation: %w", tag, err)
		}
	}
	return nil
}

// fieldErrors flattens validator output into field -> message.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = err.Error()
		return out
	}

	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}
