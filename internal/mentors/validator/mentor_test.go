package validator

import (
	"io"
	"testing"

	"mentorbook/internal/validation"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *MentorValidator {
	return NewMentorValidator(logger.New(logger.Config{Output: io.Discard}))
}

func TestValidate(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name   string
		mutate func(m *model.Mentor)
		field  string
	}{
		{"valid", func(m *model.Mentor) {}, ""},
		{"name too short", func(m *model.Mentor) { m.Name = "A" }, "Name"},
		{"missing bio", func(m *model.Mentor) { m.Bio = "" }, "Bio"},
		{"bad linkedin", func(m *model.Mentor) { m.LinkedIn = "not a url" }, "LinkedIn"},
		{"order out of range", func(m *model.Mentor) { m.Order = 5000 }, "Order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &model.Mentor{
				Name:     "Asha Rao",
				Bio:      "Staff engineer, ten years in payments",
				LinkedIn: "https://linkedin.com/in/asha",
				IsActive: true,
			}
			tt.mutate(m)

			err := v.Validate(m)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Details(), tt.field)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateUpdate(&model.MentorUpdate{}))

	order := -1
	err := v.ValidateUpdate(&model.MentorUpdate{Order: &order})
	var verrs validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Details(), "Order")
}
