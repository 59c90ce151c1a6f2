package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	blackoutserrors "mentorbook/internal/blackouts/errors"
	"mentorbook/internal/slots"
	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Blackouts"
)

type mongoBlackoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// BlackoutRepository holds at most one entry per date, enforced by a unique
// index on date.
type BlackoutRepository interface {
	Block(ctx context.Context, entry *model.Blackout) (*model.Blackout, error)
	Unblock(ctx context.Context, id string, timeSlots []string) (*model.Blackout, error)
	FindByDate(ctx context.Context, date time.Time) (*model.Blackout, error)
	ListForRange(ctx context.Context, start, end time.Time) ([]*model.Blackout, error)
}

func NewMongoBlackoutRepository(cfg *config.Config) BlackoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlackoutRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Block merges entry into the document for entry.Date in one upsert: slots
// are unioned, is_full_day is ORed, reason is replaced only when non-empty
// and created_by is kept from the first write. A full-day result carries no
// slots.
func (r *mongoBlackoutRepository) Block(ctx context.Context, entry *model.Blackout) (*model.Blackout, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	added := entry.TimeSlots
	if added == nil {
		added = []string{}
	}
	isFullDay := bson.M{"$or": bson.A{
		bson.M{"$ifNull": bson.A{"$is_full_day", false}},
		entry.IsFullDay,
	}}
	set := bson.M{
		"is_full_day": isFullDay,
		"time_slots": bson.M{"$cond": bson.A{
			isFullDay,
			bson.A{},
			bson.M{"$setUnion": bson.A{
				bson.M{"$ifNull": bson.A{"$time_slots", bson.A{}}},
				bson.M{"$literal": added},
			}},
		}},
		"created_by": bson.M{"$ifNull": bson.A{"$created_by", bson.M{"$literal": entry.CreatedBy}}},
		"created_at": bson.M{"$ifNull": bson.A{"$created_at", now}},
		"updated_at": now,
	}
	if entry.Reason != "" {
		set["reason"] = bson.M{"$literal": entry.Reason}
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.Blackout
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"date": entry.Date}, pipeline, opts).Decode(&result)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert inserted the date first; the retry updates it.
		err = r.collection.FindOneAndUpdate(ctx, bson.M{"date": entry.Date}, pipeline, opts).Decode(&result)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert blackout: %w", err)
	}

	result.TimeSlots = slots.Ordered(result.TimeSlots)
	return &result, nil
}

// Unblock removes timeSlots from the entry, or the whole entry when timeSlots
// is empty. A nil result means the entry no longer exists.
func (r *mongoBlackoutRepository) Unblock(ctx context.Context, id string, timeSlots []string) (*model.Blackout, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", blackoutserrors.ErrInvalidID, id)
	}

	if len(timeSlots) == 0 {
		return nil, r.delete(ctx, objectID)
	}

	var remaining *model.Blackout
	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		remaining = nil

		update := bson.M{
			"$pullAll": bson.M{"time_slots": timeSlots},
			"$set": bson.M{
				"is_full_day": false,
				"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
			},
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var entry model.Blackout
		if err := r.collection.FindOneAndUpdate(sessCtx, bson.M{"_id": objectID}, update, opts).Decode(&entry); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("%w: %s", blackoutserrors.ErrNotFound, id)
			}
			return fmt.Errorf("failed to pull blocked slots: %w", err)
		}

		if len(entry.TimeSlots) == 0 {
			return r.delete(sessCtx, objectID)
		}
		entry.TimeSlots = slots.Ordered(entry.TimeSlots)
		remaining = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

func (r *mongoBlackoutRepository) delete(ctx context.Context, objectID primitive.ObjectID) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete blackout: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", blackoutserrors.ErrNotFound, objectID.Hex())
	}
	return nil
}

// FindByDate returns nil without error when the date has no entry.
func (r *mongoBlackoutRepository) FindByDate(ctx context.Context, date time.Time) (*model.Blackout, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var entry model.Blackout
	err := r.collection.FindOne(ctx, bson.M{"date": date}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find blackout: %w", err)
	}
	return &entry, nil
}

// ListForRange returns entries with start <= date < end, ordered by date.
func (r *mongoBlackoutRepository) ListForRange(ctx context.Context, start, end time.Time) ([]*model.Blackout, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": start, "$lt": end}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blackouts: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*model.Blackout{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode blackouts: %w", err)
	}
	for _, e := range entries {
		e.TimeSlots = slots.Ordered(e.TimeSlots)
	}
	return entries, nil
}
