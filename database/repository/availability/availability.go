package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AvailabilityRepository reads instructor schedule documents.
type AvailabilityRepository interface {
	GetByClassID(ctx context.Context, classID string) ([]models.AvailabilityRecord, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo returns a repository over the "availability" collection.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: database.Database().Collection("availability")}
}

// GetByClassID returns every schedule record of a class in insertion order.
func (r *mongoAvailabilityRepo) GetByClassID(ctx context.Context, classID string) ([]models.AvailabilityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"classId": classID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability for class %s: %w", classID, err)
	}
	defer cursor.Close(ctx)

	var records []models.AvailabilityRecord
	for cursor.Next(ctx) {
		var rec models.AvailabilityRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("error decoding availability record: %w", err)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return records, nil
}

func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "classId", Value: 1}},
			Options: options.Index().SetName("class_idx"),
		},
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}, {Key: "classId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("instructor_class_unique"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
