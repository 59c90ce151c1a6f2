package bookings

import (
	"context"
	"net/http"
	"testing"

	"mentorbook/pkg/client"
	"mentorbook/pkg/model"
	"mentorbook/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const blackouts = "Blackouts"

func block(t *testing.T, api *client.BookingClient, req *model.BlockRequest) *model.Blackout {
	t.Helper()
	resp, err := api.As(admin).Block(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	var blackout model.Blackout
	require.NoError(t, client.DecodeData(resp, &blackout))
	return &blackout
}

func storedBlackout(t *testing.T, mongo *testutil.MongoHelper) *model.Blackout {
	t.Helper()
	require.Equal(t, int64(1), mongo.CountDocuments(t, blackouts, bson.D{}))
	var blackout model.Blackout
	mongo.FindOne(t, blackouts, bson.D{}, &blackout)
	return &blackout
}

func TestBlock_SameSlotTwiceKeepsOneEntry(t *testing.T) {
	mongo, api := setup(t)
	date := testutil.FutureDate(7)

	first := block(t, api, &model.BlockRequest{Date: date, TimeSlots: []string{"15:00-16:00"}})
	second := block(t, api, &model.BlockRequest{Date: date, TimeSlots: []string{"15:00-16:00"}})

	assert.Equal(t, first.ID, second.ID)
	stored := storedBlackout(t, mongo)
	assert.Equal(t, []string{"15:00-16:00"}, stored.TimeSlots)
	assert.False(t, stored.IsFullDay)
}

func TestBlock_PartialThenFullDay(t *testing.T) {
	mongo, api := setup(t)
	date := testutil.FutureDate(8)

	block(t, api, &model.BlockRequest{Date: date, TimeSlots: []string{"15:00-16:00", "16:00-17:00"}})
	full := block(t, api, &model.BlockRequest{Date: date, IsFullDay: true, Reason: "offsite"})

	assert.True(t, full.IsFullDay)
	assert.Empty(t, full.TimeSlots)

	stored := storedBlackout(t, mongo)
	assert.True(t, stored.IsFullDay)
	assert.Empty(t, stored.TimeSlots)
	assert.Equal(t, "offsite", stored.Reason)
}

func TestUnblock_PartialLeavesOtherSlots(t *testing.T) {
	mongo, api := setup(t)
	date := testutil.FutureDate(9)
	ctx := context.Background()

	blackout := block(t, api, &model.BlockRequest{Date: date, TimeSlots: []string{"15:00-16:00", "16:00-17:00", "17:00-18:00"}})

	resp, err := api.As(admin).Unblock(ctx, blackout.ID, []string{"16:00-17:00"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	var result model.UnblockResult
	require.NoError(t, client.DecodeData(resp, &result))
	assert.False(t, result.Removed)
	require.NotNil(t, result.Blackout)
	assert.ElementsMatch(t, []string{"15:00-16:00", "17:00-18:00"}, result.Blackout.TimeSlots)

	stored := storedBlackout(t, mongo)
	assert.ElementsMatch(t, []string{"15:00-16:00", "17:00-18:00"}, stored.TimeSlots)

	resp, err = api.As(admin).Unblock(ctx, blackout.ID, []string{"15:00-16:00", "17:00-18:00"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))
	require.NoError(t, client.DecodeData(resp, &result))
	assert.True(t, result.Removed)
	assert.Equal(t, int64(0), mongo.CountDocuments(t, blackouts, bson.D{}))
}

func TestUnblock_UnknownIDIsNotFound(t *testing.T) {
	_, api := setup(t)

	for _, slots := range [][]string{nil, {"15:00-16:00"}} {
		resp, err := api.As(admin).Unblock(context.Background(), "507f1f77bcf86cd799439099", slots)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "slots %v", slots)
		assert.Equal(t, "NOT_FOUND", client.ErrorCode(resp))
	}
}
