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

const planCollectionName = "training_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new training plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan. Status, revision and timestamps are set here so
// every plan starts life as an empty draft at revision zero.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.Year == 0 {
		return primitive.NilObjectID, errors.New("plan requires a year")
	}
	plan.ID = primitive.NewObjectID()
	plan.Status = domain.PlanStatusDraft
	plan.Revision = 0
	if plan.Sessions == nil {
		plan.Sessions = []domain.PlanSession{}
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan aggregate, sessions included.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByYear retrieves all plans covering the given calendar year.
func (r *mongoPlanRepository) GetByYear(ctx context.Context, year int) ([]domain.TrainingPlan, error) {
	return r.find(ctx, bson.M{"year": year})
}

// List retrieves plans filtered by status. The multi-status case is pushed
// to the database as a single $in query instead of filtering client-side.
func (r *mongoPlanRepository) List(ctx context.Context, statuses []domain.PlanStatus) ([]domain.TrainingPlan, error) {
	filter := bson.M{}
	switch len(statuses) {
	case 0:
		// no filter
	case 1:
		filter["status"] = statuses[0]
	default:
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.find(ctx, filter)
}

func (r *mongoPlanRepository) find(ctx context.Context, filter bson.M) ([]domain.TrainingPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.TrainingPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdateStatus moves the plan to a new status. The filter matches on the
// expected revision; when the plan exists but the revision has moved on the
// update matches nothing and ErrStaleRevision is returned.
// rejectionReason semantics: nil leaves the field untouched, a non-nil empty
// string clears it (reset), a non-empty string records it (reject).
func (r *mongoPlanRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, revision int64, status domain.PlanStatus, rejectionReason *string) (*domain.TrainingPlan, error) {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	unset := bson.M{}
	if rejectionReason != nil {
		if *rejectionReason == "" {
			unset["rejectionReason"] = ""
		} else {
			set["rejectionReason"] = *rejectionReason
		}
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"revision": 1},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return r.casUpdate(ctx, id, revision, update)
}

// UpdateNotes is a pure metadata update: it does not bump the revision and
// is allowed at any status.
func (r *mongoPlanRepository) UpdateNotes(ctx context.Context, id primitive.ObjectID, notes string) (*domain.TrainingPlan, error) {
	update := bson.M{"$set": bson.M{
		"notes":     notes,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var plan domain.TrainingPlan
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// AttachSession pushes a new session onto the plan under the revision guard.
func (r *mongoPlanRepository) AttachSession(ctx context.Context, planID primitive.ObjectID, revision int64, session domain.PlanSession) (*domain.TrainingPlan, error) {
	update := bson.M{
		"$push": bson.M{"sessions": session},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
		"$inc":  bson.M{"revision": 1},
	}
	return r.casUpdate(ctx, planID, revision, update)
}

// DetachSession removes the session with the given ID under the revision
// guard. Whether the session actually existed is checked by the caller
// against the aggregate it read.
func (r *mongoPlanRepository) DetachSession(ctx context.Context, planID primitive.ObjectID, revision int64, sessionID primitive.ObjectID) (*domain.TrainingPlan, error) {
	update := bson.M{
		"$pull": bson.M{"sessions": bson.M{"_id": sessionID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
		"$inc":  bson.M{"revision": 1},
	}
	return r.casUpdate(ctx, planID, revision, update)
}

// casUpdate applies update to the plan identified by id at the expected
// revision and returns the updated aggregate. It distinguishes "plan gone"
// from "plan moved on" with a follow-up existence check.
func (r *mongoPlanRepository) casUpdate(ctx context.Context, id primitive.ObjectID, revision int64, update bson.M) (*domain.TrainingPlan, error) {
	filter := bson.M{"_id": id, "revision": revision}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var plan domain.TrainingPlan
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&plan)
	if err == nil {
		return &plan, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrStaleRevision
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "year", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
