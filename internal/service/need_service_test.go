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

type fakeNeedRepo struct {
	needs map[primitive.ObjectID]*domain.TrainingNeed
}

func newFakeNeedRepo() *fakeNeedRepo {
	return &fakeNeedRepo{needs: map[primitive.ObjectID]*domain.TrainingNeed{}}
}

func (r *fakeNeedRepo) Create(_ context.Context, need *domain.TrainingNeed) (primitive.ObjectID, error) {
	stored := *need
	stored.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.needs[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeNeedRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingNeed, error) {
	need, ok := r.needs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *need
	return &clone, nil
}

func (r *fakeNeedRepo) GetAll(_ context.Context) ([]domain.TrainingNeed, error) {
	out := []domain.TrainingNeed{}
	for _, need := range r.needs {
		out = append(out, *need)
	}
	return out, nil
}

func (r *fakeNeedRepo) Update(_ context.Context, need *domain.TrainingNeed) error {
	stored, ok := r.needs[need.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *need
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.needs[need.ID] = &updated
	return nil
}

func (r *fakeNeedRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.needs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.needs, id)
	return nil
}

func (r *fakeNeedRepo) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.needs[id]; ok {
			delete(r.needs, id)
			deleted++
		}
	}
	return deleted, nil
}

func validTrainingNeed() *domain.TrainingNeed {
	return &domain.TrainingNeed{
		Title:       "Habilitation électrique",
		Objective:   "Mettre l'équipe en conformité",
		DesiredDate: time.Now().UTC().AddDate(0, 3, 0),
		Priority:    domain.NeedPriorityHigh,
		Direction:   "Direction Technique",
		EmployeeIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}
}

func TestCreateNeed(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	created, err := svc.CreateNeed(context.Background(), validTrainingNeed())
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	fetched, err := svc.GetNeedByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Habilitation électrique", fetched.Title)
	assert.Equal(t, domain.NeedPriorityHigh, fetched.Priority)
}

func TestCreateNeedValidation(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	noTitle := validTrainingNeed()
	noTitle.Title = "  "
	_, err := svc.CreateNeed(context.Background(), noTitle)
	assert.ErrorIs(t, err, ErrNeedValidation)

	badPriority := validTrainingNeed()
	badPriority.Priority = "Urgente"
	_, err = svc.CreateNeed(context.Background(), badPriority)
	assert.ErrorIs(t, err, ErrNeedValidation)

	noEmployees := validTrainingNeed()
	noEmployees.EmployeeIDs = nil
	_, err = svc.CreateNeed(context.Background(), noEmployees)
	assert.ErrorIs(t, err, ErrNeedValidation)

	noDirection := validTrainingNeed()
	noDirection.Direction = ""
	_, err = svc.CreateNeed(context.Background(), noDirection)
	assert.ErrorIs(t, err, ErrNeedValidation)
}

func TestUpdateNeed(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	created, err := svc.CreateNeed(context.Background(), validTrainingNeed())
	require.NoError(t, err)

	created.Priority = domain.NeedPriorityLow
	created.Objective = "Renouvellement des habilitations"
	updated, err := svc.UpdateNeed(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, domain.NeedPriorityLow, updated.Priority)
	assert.Equal(t, "Renouvellement des habilitations", updated.Objective)
}

func TestUpdateUnknownNeed(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	need := validTrainingNeed()
	need.ID = primitive.NewObjectID()
	_, err := svc.UpdateNeed(context.Background(), need)
	assert.ErrorIs(t, err, ErrNeedNotFound)
}

func TestDeleteNeed(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	created, err := svc.CreateNeed(context.Background(), validTrainingNeed())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNeed(context.Background(), created.ID))
	_, err = svc.GetNeedByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNeedNotFound)

	assert.ErrorIs(t, svc.DeleteNeed(context.Background(), created.ID), ErrNeedNotFound)
}

func TestDeleteNeedsBulk(t *testing.T) {
	svc := NewNeedService(newFakeNeedRepo())

	first, err := svc.CreateNeed(context.Background(), validTrainingNeed())
	require.NoError(t, err)
	second, err := svc.CreateNeed(context.Background(), validTrainingNeed())
	require.NoError(t, err)

	// Unknown ids are skipped, not an error.
	deleted, err := svc.DeleteNeeds(context.Background(), []primitive.ObjectID{first.ID, second.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := svc.GetAllNeeds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = svc.DeleteNeeds(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNeedValidation)
}
