package packageRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PackageRepository reads lesson packages and spends their credits.
type PackageRepository interface {
	GetByID(ctx context.Context, id string) (*models.Package, error)
	// ConsumeCredit atomically takes one credit from a package owned by
	// studentID for classID. It fails with database.ErrNoCredits when the
	// package is empty, expired or belongs to someone else.
	ConsumeCredit(ctx context.Context, id, studentID, classID string, now time.Time) (*models.Package, error)
	// RestoreCredit gives one credit back, never exceeding the total.
	RestoreCredit(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoPackageRepo struct {
	coll *mongo.Collection
}

// NewMongoPackageRepo returns a repository over the "packages" collection.
func NewMongoPackageRepo() PackageRepository {
	return &mongoPackageRepo{coll: database.Database().Collection("packages")}
}

func (r *mongoPackageRepo) GetByID(ctx context.Context, id string) (*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pkg models.Package
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("package %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching package %s: %w", id, err)
	}
	return &pkg, nil
}

func (r *mongoPackageRepo) ConsumeCredit(ctx context.Context, id, studentID, classID string, now time.Time) (*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":               id,
		"studentId":        studentID,
		"classId":          classID,
		"remainingCredits": bson.M{"$gte": 1},
		"$or": bson.A{
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": now}},
		},
	}
	var pkg models.Package
	err := r.coll.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"remainingCredits": -1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("package %s: %w", id, database.ErrNoCredits)
		}
		return nil, fmt.Errorf("failed to consume package credit: %w", err)
	}
	return &pkg, nil
}

func (r *mongoPackageRepo) RestoreCredit(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "$expr": bson.M{"$lt": bson.A{"$remainingCredits", "$totalCredits"}}},
		bson.M{"$inc": bson.M{"remainingCredits": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to restore package credit: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("package %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *mongoPackageRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "classId", Value: 1}},
			Options: options.Index().SetName("student_class_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create package indexes: %w", err)
	}
	return nil
}
