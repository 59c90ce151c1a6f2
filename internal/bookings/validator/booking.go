package validator

import (
	"mentorbook/internal/validation"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *BookingValidator) ValidateRemark(remark *model.BookingRemark) error {
	return validation.Struct(v.validate, remark)
}
