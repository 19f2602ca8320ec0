package service

import (
	"context"
	"testing"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeEmployeeRepo struct {
	byMatricule map[string]*domain.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byMatricule: map[string]*domain.Employee{}}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) (primitive.ObjectID, error) {
	if _, ok := r.byMatricule[employee.Matricule]; ok {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	stored := *employee
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.byMatricule[stored.Matricule] = &stored
	return stored.ID, nil
}

func (r *fakeEmployeeRepo) GetByMatricule(_ context.Context, matricule string) (*domain.Employee, error) {
	employee, ok := r.byMatricule[matricule]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *employee
	return &copied, nil
}

func (r *fakeEmployeeRepo) GetAll(_ context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range r.byMatricule {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	if _, ok := r.byMatricule[employee.Matricule]; !ok {
		return repository.ErrNotFound
	}
	stored := *employee
	r.byMatricule[employee.Matricule] = &stored
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, matricule string) error {
	if _, ok := r.byMatricule[matricule]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byMatricule, matricule)
	return nil
}

func TestCreateEmployee(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	created, err := svc.CreateEmployee(context.Background(), &domain.Employee{
		Matricule: "104587",
		FirstName: "Samira",
		LastName:  "Benali",
		Direction: "DRH",
	})
	require.NoError(t, err)
	assert.Equal(t, "104587", created.Matricule)
	assert.False(t, created.ID.IsZero())
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.CreateEmployee(context.Background(), &domain.Employee{Matricule: "12345", LastName: "Benali"})
	assert.ErrorIs(t, err, ErrEmployeeValidation, "short matricule")

	_, err = svc.CreateEmployee(context.Background(), &domain.Employee{Matricule: "123456"})
	assert.ErrorIs(t, err, ErrEmployeeValidation, "missing last name")
}

func TestCreateEmployeeDuplicateMatricule(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.CreateEmployee(context.Background(), &domain.Employee{Matricule: "200001", LastName: "Hadj"})
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), &domain.Employee{Matricule: "200001", LastName: "Autre"})
	assert.ErrorIs(t, err, ErrEmployeeExists)
}

func TestUpdateEmployeeKeepsMatricule(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo)

	_, err := svc.CreateEmployee(context.Background(), &domain.Employee{Matricule: "300010", LastName: "Cherif", Position: "Technicien"})
	require.NoError(t, err)

	updated, err := svc.UpdateEmployee(context.Background(), "300010", &domain.Employee{
		Matricule: "999999", // Ignored: the path matricule names the record
		LastName:  "Cherif",
		Position:  "Chef d'équipe",
	})
	require.NoError(t, err)
	assert.Equal(t, "300010", updated.Matricule)
	assert.Equal(t, "Chef d'équipe", updated.Position)
}

func TestEmployeeNotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.GetEmployeeByMatricule(context.Background(), "000001")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	err = svc.DeleteEmployee(context.Background(), "000001")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
