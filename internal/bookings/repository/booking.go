package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"

	// PaymentOrderIndex keeps one gateway order from paying for more than
	// one booking.
	PaymentOrderIndex = "uniq_payment_order"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// BookingRepository is the booking ledger. Insert and SetStatus are each a
// single conditional write; callers never read-check-then-write.
type BookingRepository interface {
	Insert(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveForSlot(ctx context.Context, mentorID string, date time.Time, timeSlot string) (*model.Booking, error)
	FindActiveForDate(ctx context.Context, mentorID string, date time.Time) ([]*model.Booking, error)
	SetStatus(ctx context.Context, id string, status model.BookingStatus, remark *string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, filter model.BookingFilter) (int64, error)
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// Insert relies on the partial unique index over (mentor_id, date, time_slot)
// where active is true. A concurrent second insert for the same slot fails
// with a duplicate key error. A reused payment_ref.order_id trips
// PaymentOrderIndex instead.
func (r *mongoBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.Active = booking.Status.Active()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if duplicateOn(err, PaymentOrderIndex) {
				return bookingserrors.ErrPaymentReused
			}
			return bookingserrors.ErrSlotConflict
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func duplicateOn(err error, index string) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 && strings.Contains(e.Message, "index: "+index+" ") {
			return true
		}
	}
	return false
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindActiveForSlot returns nil without error when the slot is free.
func (r *mongoBookingRepository) FindActiveForSlot(ctx context.Context, mentorID string, date time.Time, timeSlot string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"mentor_id": mentorID,
		"date":      date,
		"time_slot": timeSlot,
		"active":    true,
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active booking: %w", err)
	}
	return &booking, nil
}

// FindActiveForDate returns the active bookings on date. An empty mentorID
// matches every mentor.
func (r *mongoBookingRepository) FindActiveForDate(ctx context.Context, mentorID string, date time.Time) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"active": true,
	}
	if mentorID != "" {
		filter["mentor_id"] = mentorID
	}
	opts := options.Find().SetProjection(bson.M{"time_slot": 1, "status": 1, "user_id": 1, "mentor_id": 1, "date": 1})

	return r.find(ctx, filter, opts)
}

// SetStatus applies the transition only if the current status is a legal
// source for it. On no match the booking is re-read to tell a missing
// booking from an illegal transition.
func (r *mongoBookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus, remark *string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     status,
		"active":     status.Active(),
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if remark != nil {
		set["mentor_remark"] = *remark
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$in": model.TransitionSources(status)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	current, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, &bookingserrors.TransitionError{From: current.Status, To: status}
}

func (r *mongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, buildFilter(filter), opts)
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func buildFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.MentorID != "" {
		filter["mentor_id"] = f.MentorID
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.StartDate != nil || f.EndDate != nil {
		dateFilter := bson.M{}
		if f.StartDate != nil {
			dateFilter["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			dateFilter["$lte"] = *f.EndDate
		}
		filter["date"] = dateFilter
	}
	return filter
}
