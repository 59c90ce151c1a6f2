package validator

import (
	"mentorbook/internal/validation"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type PaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentValidator(log *logger.Logger) *PaymentValidator {
	return &PaymentValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

func (v *PaymentValidator) ValidateOrder(req *model.OrderRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *PaymentValidator) ValidateVerify(req *model.VerifyRequest) error {
	return validation.Struct(v.validate, req)
}
