package mongo

import (
	"context"
	"errors"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const needCollectionName = "training_needs"

// mongoNeedRepository implements repository.NeedRepository
type mongoNeedRepository struct {
	collection *mongo.Collection
}

// NewMongoNeedRepository creates a new training need repository.
func NewMongoNeedRepository(db *mongo.Database) repository.NeedRepository {
	return &mongoNeedRepository{
		collection: db.Collection(needCollectionName),
	}
}

// Create inserts a new training need.
func (r *mongoNeedRepository) Create(ctx context.Context, need *domain.TrainingNeed) (primitive.ObjectID, error) {
	if need.Title == "" {
		return primitive.NilObjectID, errors.New("training need requires a title")
	}
	need.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	need.CreatedAt = now
	need.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, need)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted need ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single training need.
func (r *mongoNeedRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingNeed, error) {
	var need domain.TrainingNeed
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&need)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &need, nil
}

// GetAll retrieves every training need, newest first.
func (r *mongoNeedRepository) GetAll(ctx context.Context) ([]domain.TrainingNeed, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	needs := []domain.TrainingNeed{}
	if err = cursor.All(ctx, &needs); err != nil {
		return nil, err
	}
	return needs, nil
}

// Update modifies an existing training need.
func (r *mongoNeedRepository) Update(ctx context.Context, need *domain.TrainingNeed) error {
	if need.ID == primitive.NilObjectID {
		return errors.New("need ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"title":       need.Title,
		"objective":   need.Objective,
		"desiredDate": need.DesiredDate,
		"priority":    need.Priority,
		"direction":   need.Direction,
		"employeeIds": need.EmployeeIDs,
		"updatedAt":   time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": need.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a training need.
func (r *mongoNeedRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes every need whose id is in ids.
func (r *mongoNeedRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureNeedIndexes creates necessary indexes. Call during startup.
func EnsureNeedIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "direction", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
