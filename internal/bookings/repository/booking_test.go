package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateOn(t *testing.T) {
	dup := func(index string) error {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: "E11000 duplicate key error collection: mentorbook.Bookings index: " + index + " dup key: { : \"order_1\" }",
		}}}
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "payment order index", err: dup(PaymentOrderIndex), want: true},
		{name: "active slot index", err: dup("uniq_active_slot"), want: false},
		{name: "other write error", err: mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}}},
		{name: "not a write exception", err: errors.New("index: uniq_payment_order dup key")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, duplicateOn(tt.err, PaymentOrderIndex))
		})
	}
}
