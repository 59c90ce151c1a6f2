package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentserrors "mentorbook/internal/payments/errors"
	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Payments"
)

type mongoPaymentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// PaymentRepository keys payments by gateway order id, which is unique.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	SetStatus(ctx context.Context, orderID string, status model.PaymentStatus, paymentID, signature string) (*model.Payment, error)
	LinkBooking(ctx context.Context, orderID string, bookingID string) error
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	payment.CreatedAt = now
	payment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", paymentserrors.ErrDuplicateOrder, payment.OrderID)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var payment model.Payment
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", paymentserrors.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

// SetStatus records the gateway outcome. Empty paymentID and signature
// leave the stored values unchanged.
func (r *mongoPaymentRepository) SetStatus(ctx context.Context, orderID string, status model.PaymentStatus, paymentID, signature string) (*model.Payment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if paymentID != "" {
		set["payment_id"] = paymentID
	}
	if signature != "" {
		set["signature"] = signature
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment model.Payment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"order_id": orderID}, bson.M{"$set": set}, opts).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", paymentserrors.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return &payment, nil
}

func (r *mongoPaymentRepository) LinkBooking(ctx context.Context, orderID string, bookingID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"booking_id": bookingID,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"order_id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to link booking to payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", paymentserrors.ErrNotFound, orderID)
	}
	return nil
}
