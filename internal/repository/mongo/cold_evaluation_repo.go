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

const coldEvaluationCollectionName = "cold_evaluations"

// mongoColdEvaluationRepository implements repository.ColdEvaluationRepository
type mongoColdEvaluationRepository struct {
	collection *mongo.Collection
}

// NewMongoColdEvaluationRepository creates a new cold evaluation repository.
func NewMongoColdEvaluationRepository(db *mongo.Database) repository.ColdEvaluationRepository {
	return &mongoColdEvaluationRepository{
		collection: db.Collection(coldEvaluationCollectionName),
	}
}

// Create inserts a new cold evaluation record.
func (r *mongoColdEvaluationRepository) Create(ctx context.Context, evaluation *domain.ColdEvaluation) (primitive.ObjectID, error) {
	if evaluation.FormationID == primitive.NilObjectID || evaluation.EmployeeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("cold evaluation requires formationId and employeeId")
	}

	evaluation.ID = primitive.NewObjectID()
	evaluation.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, evaluation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted cold evaluation ID")
	}
	return insertedID, nil
}

// GetAll retrieves the full cold evaluation history, newest first.
func (r *mongoColdEvaluationRepository) GetAll(ctx context.Context) ([]domain.ColdEvaluation, error) {
	return r.find(ctx, bson.M{})
}

// GetByFormationID retrieves cold evaluations recorded for a formation.
func (r *mongoColdEvaluationRepository) GetByFormationID(ctx context.Context, formationID primitive.ObjectID) ([]domain.ColdEvaluation, error) {
	return r.find(ctx, bson.M{"formationId": formationID})
}

// GetByEmployeeID retrieves cold evaluations about an employee.
func (r *mongoColdEvaluationRepository) GetByEmployeeID(ctx context.Context, employeeID primitive.ObjectID) ([]domain.ColdEvaluation, error) {
	return r.find(ctx, bson.M{"employeeId": employeeID})
}

func (r *mongoColdEvaluationRepository) find(ctx context.Context, filter bson.M) ([]domain.ColdEvaluation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "evaluatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluations := []domain.ColdEvaluation{}
	if err = cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// EnsureColdEvaluationIndexes creates necessary indexes. Call during startup.
func EnsureColdEvaluationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "formationId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "employeeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
