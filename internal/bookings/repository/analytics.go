package repository

import (
	"context"
	"fmt"
	"time"

	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// revenueStatuses are the statuses whose amount counts as earned.
var revenueStatuses = bson.A{model.BookingStatusConfirmed, model.BookingStatusCompleted}

type mongoAnalyticsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AnalyticsRepository interface {
	CountNotCancelled(ctx context.Context, from, to *time.Time) (int64, error)
	SumRevenue(ctx context.Context, from *time.Time) (int64, error)
	MentorStats(ctx context.Context) ([]model.MentorStat, error)
	PopularSlots(ctx context.Context, limit int) ([]model.SlotStat, error)
}

func NewMongoAnalyticsRepository(cfg *config.Config) AnalyticsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAnalyticsRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// CountNotCancelled counts bookings whose date is in [from, to). Nil bounds are open.
func (r *mongoAnalyticsRepository) CountNotCancelled(ctx context.Context, from, to *time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": model.BookingStatusCancelled}}
	if dates := dateRange(from, to); dates != nil {
		filter["date"] = dates
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoAnalyticsRepository) SumRevenue(ctx context.Context, from *time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	match := bson.M{"status": bson.M{"$in": revenueStatuses}}
	if dates := dateRange(from, nil); dates != nil {
		match["date"] = dates
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// MentorStats groups non-cancelled bookings per mentor. Names are left empty.
func (r *mongoAnalyticsRepository) MentorStats(ctx context.Context) ([]model.MentorStat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": model.BookingStatusCancelled}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$mentor_id",
			"bookings": bson.M{"$sum": 1},
			"revenue":  bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookings", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	stats := []model.MentorStat{}
	if err := r.aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *mongoAnalyticsRepository) PopularSlots(ctx context.Context, limit int) ([]model.SlotStat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": model.BookingStatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": "$time_slot", "bookings": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookings", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	stats := []model.SlotStat{}
	if err := r.aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *mongoAnalyticsRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func dateRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	dates := bson.M{}
	if from != nil {
		dates["$gte"] = *from
	}
	if to != nil {
		dates["$lt"] = *to
	}
	return dates
}
