package mongo

import (
	"testing"

	bookingsrepo "mentorbook/internal/bookings/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBookingsIndexes_PartialUniqueGuard(t *testing.T) {
	guard := BookingsIndexes[0]
	require.NotNil(t, guard.Options)

	keys, ok := guard.Keys.(bson.D)
	require.True(t, ok)
	assert.Equal(t, []string{"mentor_id", "date", "time_slot"}, []string{keys[0].Key, keys[1].Key, keys[2].Key})

	require.NotNil(t, guard.Options.Unique)
	assert.True(t, *guard.Options.Unique)
	assert.Equal(t, bson.D{{Key: "active", Value: true}}, guard.Options.PartialFilterExpression)
}

func TestSlotHoldsIndexes_ExpireImmediately(t *testing.T) {
	ttl := SlotHoldsIndexes[0]
	require.NotNil(t, ttl.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *ttl.Options.ExpireAfterSeconds)
}

func TestCollections_AllHaveValidators(t *testing.T) {
	defs := Collections()
	for _, name := range []string{"Bookings", "Blackouts", "Mentors", "Payments", "Slot_holds"} {
		def, ok := defs[name]
		require.True(t, ok, name)
		assert.Contains(t, def.Validator, "$jsonSchema", name)
		assert.NotEmpty(t, def.Indexes, name)
	}
}

func TestBookingsIndexes_PaymentOrderUnique(t *testing.T) {
	var found bool
	for _, idx := range BookingsIndexes {
		if idx.Options == nil || idx.Options.Name == nil || *idx.Options.Name != bookingsrepo.PaymentOrderIndex {
			continue
		}
		found = true
		keys, ok := idx.Keys.(bson.D)
		require.True(t, ok)
		assert.Equal(t, "payment_ref.order_id", keys[0].Key)
		require.NotNil(t, idx.Options.Unique)
		assert.True(t, *idx.Options.Unique)
		assert.NotNil(t, idx.Options.PartialFilterExpression)
	}
	assert.True(t, found)
}
