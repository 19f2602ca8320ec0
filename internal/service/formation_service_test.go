package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateFormation(t *testing.T) {
	svc := NewFormationService(newFakeFormationRepo())

	start := time.Now().UTC().AddDate(0, 2, 0)
	end := start.AddDate(0, 0, 3)
	formation, err := svc.CreateFormation(context.Background(), "Soudure TIG", start, end, "Béjaïa", "K. Mansouri", "")
	require.NoError(t, err)
	assert.Equal(t, "Soudure TIG", formation.Theme)
	assert.True(t, formation.IsAvailable())
}

func TestCreateFormationValidation(t *testing.T) {
	svc := NewFormationService(newFakeFormationRepo())
	start := time.Now().UTC()

	_, err := svc.CreateFormation(context.Background(), "", start, start.AddDate(0, 0, 1), "", "", "")
	assert.ErrorIs(t, err, ErrFormationValidation, "missing theme")

	_, err = svc.CreateFormation(context.Background(), "Thème", time.Time{}, start, "", "", "")
	assert.ErrorIs(t, err, ErrFormationValidation, "missing start date")

	_, err = svc.CreateFormation(context.Background(), "Thème", start, start.AddDate(0, 0, -2), "", "", "")
	assert.ErrorIs(t, err, ErrFormationValidation, "end before start")
}

func TestDeleteFormationInUse(t *testing.T) {
	repo := newFakeFormationRepo()
	svc := NewFormationService(repo)

	start := time.Now().UTC()
	formation, err := svc.CreateFormation(context.Background(), "Électricité", start, start.AddDate(0, 0, 2), "", "", "")
	require.NoError(t, err)

	_, err = repo.Claim(context.Background(), formation.ID, primitive.NewObjectID())
	require.NoError(t, err)

	err = svc.DeleteFormation(context.Background(), formation.ID)
	assert.ErrorIs(t, err, ErrFormationInUse)
}

func TestGetCompletedFormations(t *testing.T) {
	repo := newFakeFormationRepo()
	svc := NewFormationService(repo)

	past := time.Now().UTC().AddDate(0, -2, 0)
	_, err := svc.CreateFormation(context.Background(), "Terminée", past, past.AddDate(0, 0, 2), "", "", "")
	require.NoError(t, err)

	future := time.Now().UTC().AddDate(0, 2, 0)
	_, err = svc.CreateFormation(context.Background(), "À venir", future, future.AddDate(0, 0, 2), "", "", "")
	require.NoError(t, err)

	completed, err := svc.GetCompletedFormations(context.Background())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Terminée", completed[0].Theme)

	all, err := svc.GetAllFormations(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteUnknownFormation(t *testing.T) {
	svc := NewFormationService(newFakeFormationRepo())
	err := svc.DeleteFormation(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrFormationNotFound)
}
