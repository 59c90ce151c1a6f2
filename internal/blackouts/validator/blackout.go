package validator

import (
	"mentorbook/internal/validation"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type BlackoutValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBlackoutValidator(log *logger.Logger) *BlackoutValidator {
	return &BlackoutValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

func (v *BlackoutValidator) ValidateBlock(req *model.BlockRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *BlackoutValidator) ValidateUnblock(req *model.UnblockRequest) error {
	return validation.Struct(v.validate, req)
}
