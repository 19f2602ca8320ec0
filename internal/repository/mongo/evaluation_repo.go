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

const evaluationCollectionName = "hot_evaluations"

// mongoEvaluationRepository implements repository.EvaluationRepository
type mongoEvaluationRepository struct {
	collection *mongo.Collection
}

// NewMongoEvaluationRepository creates a new hot evaluation repository.
func NewMongoEvaluationRepository(db *mongo.Database) repository.EvaluationRepository {
	return &mongoEvaluationRepository{
		collection: db.Collection(evaluationCollectionName),
	}
}

// Create inserts a new evaluation record.
func (r *mongoEvaluationRepository) Create(ctx context.Context, evaluation *domain.HotEvaluation) (primitive.ObjectID, error) {
	if evaluation.FormationID == primitive.NilObjectID || evaluation.EmployeeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("evaluation requires formationId and employeeId")
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
		return primitive.NilObjectID, errors.New("failed to convert inserted evaluation ID")
	}
	return insertedID, nil
}

// GetByFormationID retrieves all evaluations submitted for a formation.
func (r *mongoEvaluationRepository) GetByFormationID(ctx context.Context, formationID primitive.ObjectID) ([]domain.HotEvaluation, error) {
	return r.find(ctx, bson.M{"formationId": formationID})
}

// GetByEmployeeID retrieves all evaluations submitted by an employee.
func (r *mongoEvaluationRepository) GetByEmployeeID(ctx context.Context, employeeID primitive.ObjectID) ([]domain.HotEvaluation, error) {
	return r.find(ctx, bson.M{"employeeId": employeeID})
}

func (r *mongoEvaluationRepository) find(ctx context.Context, filter bson.M) ([]domain.HotEvaluation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluations := []domain.HotEvaluation{}
	if err = cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// EnsureEvaluationIndexes creates necessary indexes. Call during startup.
// One evaluation per employee per formation.
func EnsureEvaluationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "formationId", Value: 1}, {Key: "employeeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "employeeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
