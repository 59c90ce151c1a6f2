package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SlotHoldCollectionName = "Slot_holds"
)

type mongoSlotHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// SlotHoldRepository keeps short-lived holds on a mentor slot while its
// payment is in flight. Expired documents are removed by a TTL index on
// expires_at; until then they are treated as free.
type SlotHoldRepository interface {
	Acquire(ctx context.Context, hold *model.SlotHold) error
	Release(ctx context.Context, key string, userID string) error
	FindHeldByOthers(ctx context.Context, mentorID string, date time.Time, userID string, now time.Time) ([]*model.SlotHold, error)
}

func NewMongoSlotHoldRepository(cfg *config.Config) SlotHoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotHoldRepository{
		cfg:        cfg,
		collection: db.Collection(SlotHoldCollectionName),
	}
}

// SlotKey identifies one mentor slot on one date.
func SlotKey(mentorID string, date time.Time, timeSlot string) string {
	return fmt.Sprintf("%s|%s|%s", mentorID, date.UTC().Format(time.RFC3339), timeSlot)
}

// Acquire takes or refreshes the hold. The upsert only matches a hold that
// belongs to the same user or has expired; any other live hold makes the
// insert collide on _id.
func (r *mongoSlotHoldRepository) Acquire(ctx context.Context, hold *model.SlotHold) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	hold.ID = SlotKey(hold.MentorID, hold.Date, hold.TimeSlot)
	hold.CreatedAt = now

	filter := bson.M{
		"_id": hold.ID,
		"$or": bson.A{
			bson.M{"user_id": hold.UserID},
			bson.M{"expires_at": bson.M{"$lte": now}},
		},
	}
	update := bson.M{"$set": bson.M{
		"user_id":    hold.UserID,
		"mentor_id":  hold.MentorID,
		"date":       hold.Date,
		"time_slot":  hold.TimeSlot,
		"expires_at": hold.ExpiresAt,
		"created_at": hold.CreatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotHeld
		}
		return fmt.Errorf("failed to acquire slot hold: %w", err)
	}
	return nil
}

// Release drops the hold if userID still owns it. A missing hold is not an error.
func (r *mongoSlotHoldRepository) Release(ctx context.Context, key string, userID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to release slot hold %s: %w", key, err)
	}
	return nil
}

func (r *mongoSlotHoldRepository) FindHeldByOthers(ctx context.Context, mentorID string, date time.Time, userID string, now time.Time) ([]*model.SlotHold, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":       date,
		"expires_at": bson.M{"$gt": now},
	}
	if mentorID != "" {
		filter["mentor_id"] = mentorID
	}
	if userID != "" {
		filter["user_id"] = bson.M{"$ne": userID}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find slot holds: %w", err)
	}
	defer cursor.Close(ctx)

	holds := []*model.SlotHold{}
	if err = cursor.All(ctx, &holds); err != nil {
		return nil, fmt.Errorf("failed to decode slot holds: %w", err)
	}
	return holds, nil
}
