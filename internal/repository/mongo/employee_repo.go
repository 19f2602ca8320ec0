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

const employeeCollectionName = "employees"

// mongoEmployeeRepository implements repository.EmployeeRepository
type mongoEmployeeRepository struct {
	collection *mongo.Collection
}

// NewMongoEmployeeRepository creates a new employee repository.
func NewMongoEmployeeRepository(db *mongo.Database) repository.EmployeeRepository {
	return &mongoEmployeeRepository{
		collection: db.Collection(employeeCollectionName),
	}
}

// Create inserts a new employee record.
func (r *mongoEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) (primitive.ObjectID, error) {
	if employee.Matricule == "" || employee.LastName == "" {
		return primitive.NilObjectID, errors.New("employee matricule and last name are required")
	}

	employee.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted employee ID")
	}
	return insertedID, nil
}

// GetByMatricule retrieves a single employee by matricule.
func (r *mongoEmployeeRepository) GetByMatricule(ctx context.Context, matricule string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.collection.FindOne(ctx, bson.M{"matricule": matricule}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// GetAll retrieves every employee, sorted by matricule.
func (r *mongoEmployeeRepository) GetAll(ctx context.Context) ([]domain.Employee, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "matricule", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	employees := []domain.Employee{}
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update modifies an existing employee, matched by matricule. The matricule
// itself is immutable.
func (r *mongoEmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	if employee.Matricule == "" {
		return errors.New("employee matricule is required for update")
	}

	update := bson.M{"$set": bson.M{
		"firstName": employee.FirstName,
		"lastName":  employee.LastName,
		"email":     employee.Email,
		"position":  employee.Position,
		"direction": employee.Direction,
		"userId":    employee.UserID,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"matricule": employee.Matricule}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an employee by matricule.
func (r *mongoEmployeeRepository) Delete(ctx context.Context, matricule string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"matricule": matricule})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureEmployeeIndexes creates necessary indexes. Call during startup.
func EnsureEmployeeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "matricule", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "direction", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
