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

const formationCollectionName = "formations"

// mongoFormationRepository implements repository.FormationRepository
type mongoFormationRepository struct {
	collection *mongo.Collection
}

// NewMongoFormationRepository creates a new catalog formation repository.
func NewMongoFormationRepository(db *mongo.Database) repository.FormationRepository {
	return &mongoFormationRepository{
		collection: db.Collection(formationCollectionName),
	}
}

// Create inserts a new catalog formation.
func (r *mongoFormationRepository) Create(ctx context.Context, formation *domain.CatalogFormation) (primitive.ObjectID, error) {
	if formation.Theme == "" {
		return primitive.NilObjectID, errors.New("formation requires a theme")
	}
	formation.ID = primitive.NewObjectID()
	formation.PlanID = nil
	now := time.Now().UTC()
	formation.CreatedAt = now
	formation.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, formation)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted formation ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single catalog formation.
func (r *mongoFormationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogFormation, error) {
	var formation domain.CatalogFormation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&formation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &formation, nil
}

// GetAll retrieves every catalog formation, newest first.
func (r *mongoFormationRepository) GetAll(ctx context.Context) ([]domain.CatalogFormation, error) {
	return r.find(ctx, bson.M{})
}

// ListAvailable retrieves formations not attached to any plan.
func (r *mongoFormationRepository) ListAvailable(ctx context.Context) ([]domain.CatalogFormation, error) {
	return r.find(ctx, bson.M{"planId": nil})
}

// ListCompleted retrieves formations whose end date has passed.
func (r *mongoFormationRepository) ListCompleted(ctx context.Context) ([]domain.CatalogFormation, error) {
	return r.find(ctx, bson.M{"endDate": bson.M{"$lt": time.Now().UTC()}})
}

func (r *mongoFormationRepository) find(ctx context.Context, filter bson.M) ([]domain.CatalogFormation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	formations := []domain.CatalogFormation{}
	if err = cursor.All(ctx, &formations); err != nil {
		return nil, err
	}
	return formations, nil
}

// Update modifies the descriptive fields of a formation. Plan linkage is
// managed exclusively through Claim/Release.
func (r *mongoFormationRepository) Update(ctx context.Context, formation *domain.CatalogFormation) error {
	if formation.ID == primitive.NilObjectID {
		return errors.New("formation ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"theme":     formation.Theme,
		"startDate": formation.StartDate,
		"endDate":   formation.EndDate,
		"location":  formation.Location,
		"trainer":   formation.Trainer,
		"notes":     formation.Notes,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": formation.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a catalog formation. Attached formations cannot be deleted;
// the filter enforces this at the database level.
func (r *mongoFormationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "planId": nil})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return countErr
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrFormationClaimed
	}
	return nil
}

// Claim atomically marks the formation as attached to planID. The filter
// requires planId to be unset, so of two concurrent claims exactly one
// matches and the other observes ErrFormationClaimed.
func (r *mongoFormationRepository) Claim(ctx context.Context, formationID, planID primitive.ObjectID) (*domain.CatalogFormation, error) {
	filter := bson.M{"_id": formationID, "planId": nil}
	update := bson.M{"$set": bson.M{
		"planId":    planID,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var formation domain.CatalogFormation
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&formation)
	if err == nil {
		return &formation, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": formationID})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrFormationClaimed
}

// Release clears the plan linkage, returning the formation to the available
// pool. The filter requires the formation to be held by planID so a plan
// cannot release someone else's claim.
func (r *mongoFormationRepository) Release(ctx context.Context, formationID, planID primitive.ObjectID) error {
	filter := bson.M{"_id": formationID, "planId": planID}
	update := bson.M{
		"$unset": bson.M{"planId": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFormationIndexes creates necessary indexes. Call during startup.
func EnsureFormationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
