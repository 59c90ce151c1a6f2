package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "mentorbook/internal/bookings/repository"
	"mentorbook/internal/migrations/mongo/validators"
	"mentorbook/pkg/logger"
)

var (
	// BookingsIndexes carries the double-booking guard: at most one active
	// booking per (mentor_id, date, time_slot).
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "mentor_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time_slot", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_active_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{{Key: "payment_ref.order_id", Value: 1}},
			Options: options.Index().
				SetName(bookingsrepo.PaymentOrderIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "payment_ref.order_id", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
	}

	BlackoutsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("uniq_date").SetUnique(true),
		},
	}

	MentorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}}},
	}

	PaymentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetName("uniq_order").SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	SlotHoldsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		"Bookings":   {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		"Blackouts":  {Indexes: BlackoutsIndexes, Validator: validators.BlackoutValidator},
		"Mentors":    {Indexes: MentorsIndexes, Validator: validators.MentorValidator},
		"Payments":   {Indexes: PaymentsIndexes, Validator: validators.PaymentValidator},
		"Slot_holds": {Indexes: SlotHoldsIndexes, Validator: validators.SlotHoldValidator},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
