// Package validation wraps go-playground/validator with the tags shared by
// every request type and a readable error translation.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"mentorbook/internal/slots"
	"mentorbook/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const TagTimeSlot = "timeslot"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for an API response.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// New returns a validator with the custom tags registered. Registration
// failure is a programming error and stops the process.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation(TagTimeSlot, validateTimeSlot); err != nil {
		log.Fatal("Failed to register 'timeslot' validator",
			"error", err,
		)
	}

	return v
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	return slots.Slot(fl.Field().String()).Valid()
}

// Struct validates s and returns ValidationErrors for tag failures.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "hexadecimal":
			message = fmt.Sprintf("%s must be hexadecimal", err.Field())
		case TagTimeSlot:
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(slots.Strings(), ", "))
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
