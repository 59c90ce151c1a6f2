package validator

import (
	"mentorbook/internal/validation"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type MentorValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewMentorValidator(log *logger.Logger) *MentorValidator {
	v := validation.New(log)

	log.Info("Mentor validator initialized successfully")

	return &MentorValidator{
		validate: v,
		logger:   log,
	}
}

func (v *MentorValidator) Validate(mentor *model.Mentor) error {
	return validation.Struct(v.validate, mentor)
}

func (v *MentorValidator) ValidateUpdate(update *model.MentorUpdate) error {
	return validation.Struct(v.validate, update)
}
