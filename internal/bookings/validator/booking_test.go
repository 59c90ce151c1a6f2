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

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}))
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		MentorID:   "507f1f77bcf86cd799439011",
		Date:       "2025-06-02",
		TimeSlot:   "15:00-16:00",
		PaymentRef: &model.PaymentRef{OrderID: "order_1", PaymentID: "pay_1"},
	}
}

func TestValidateRequest(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name   string
		mutate func(r *model.BookingRequest)
		field  string
	}{
		{"valid", func(r *model.BookingRequest) {}, ""},
		{"missing date", func(r *model.BookingRequest) { r.Date = "" }, "Date"},
		{"slot outside catalog", func(r *model.BookingRequest) { r.TimeSlot = "14:00-15:00" }, "TimeSlot"},
		{"bad mentor id", func(r *model.BookingRequest) { r.MentorID = "mentor-1" }, "MentorID"},
		{"missing payment ref", func(r *model.BookingRequest) { r.PaymentRef = nil }, "PaymentRef"},
		{"empty payment id", func(r *model.BookingRequest) { r.PaymentRef.PaymentID = "" }, "PaymentID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateRemark(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateRemark(&model.BookingRemark{Remark: "great session"}))
	assert.NoError(t, v.ValidateRemark(&model.BookingRemark{Status: model.BookingStatusCancelled}))
	assert.Error(t, v.ValidateRemark(&model.BookingRemark{Status: model.BookingStatusPending}))
	assert.Error(t, v.ValidateRemark(&model.BookingRemark{Remark: "note", Status: model.BookingStatusConfirmed}))
}
