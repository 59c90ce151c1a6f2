package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/pkg/config"
	mongotx "mentorbook/pkg/db/mongo"
	"mentorbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Mentors"
)

type mongoMentorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type MentorRepository interface {
	Create(ctx context.Context, mentor *model.Mentor) error
	FindByID(ctx context.Context, id string) (*model.Mentor, error)
	FindActive(ctx context.Context) ([]*model.Mentor, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Mentor, error)
	Update(ctx context.Context, id string, mentor *model.Mentor) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

func NewMongoMentorRepository(cfg *config.Config) MentorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMentorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// listOrder puts mentors in display order, oldest first within the same order.
var listOrder = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}}

func (r *mongoMentorRepository) Create(ctx context.Context, mentor *model.Mentor) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	mentor.ID = ""
	mentor.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, mentor)
	if err != nil {
		return fmt.Errorf("failed to create mentor: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		mentor.ID = oid.Hex()
	}

	return nil
}

func (r *mongoMentorRepository) FindByID(ctx context.Context, id string) (*model.Mentor, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", mentorserrors.ErrInvalidID, id)
	}

	var mentor model.Mentor
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&mentor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", mentorserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find mentor: %w", err)
	}
	return &mentor, nil
}

func (r *mongoMentorRepository) FindActive(ctx context.Context) ([]*model.Mentor, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"is_active": true}, options.Find().SetSort(listOrder))
}

func (r *mongoMentorRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Mentor, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(listOrder)

	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoMentorRepository) Update(ctx context.Context, id string, mentor *model.Mentor) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", mentorserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      mentor.Name,
			"bio":       mentor.Bio,
			"photo":     mentor.Photo,
			"linkedin":  mentor.LinkedIn,
			"instagram": mentor.Instagram,
			"is_active": mentor.IsActive,
			"order":     mentor.Order,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update mentor: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", mentorserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoMentorRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", mentorserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete mentor: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", mentorserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoMentorRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count mentors: %w", err)
	}
	return count, nil
}

func (r *mongoMentorRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Mentor, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}
	defer cursor.Close(ctx)

	mentors := []*model.Mentor{}
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, fmt.Errorf("failed to decode mentors: %w", err)
	}
	return mentors, nil
}
