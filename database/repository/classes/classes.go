package classRepo

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

// maxSeatAttempts bounds the optimistic retry when two first bookings of the
// same slot race to create its ledger entry.
const maxSeatAttempts = 3

// ClassRepository reads classes and maintains their group seat ledger.
type ClassRepository interface {
	GetByID(ctx context.Context, id string) (*models.Class, error)
	// ReserveSeats atomically takes seats from the slot's ledger entry, creating
	// it on first use. It fails with database.ErrSeatsExhausted instead of
	// overselling.
	ReserveSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) (models.SlotBooking, error)
	// ReleaseSeats returns seats to the slot, never exceeding total.
	ReleaseSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) error
	EnsureIndexes(ctx context.Context) error
}

type mongoClassRepo struct {
	coll *mongo.Collection
}

// NewMongoClassRepo returns a repository over the "classes" collection.
func NewMongoClassRepo() ClassRepository {
	return &mongoClassRepo{coll: database.Database().Collection("classes")}
}

func (r *mongoClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var class models.Class
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&class); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("class %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching class %s: %w", id, err)
	}
	return &class, nil
}

func bookingPath(start time.Time) string {
	return "bookings." + models.SlotKey(start)
}

func (r *mongoClassRepo) ReserveSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) (models.SlotBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	path := bookingPath(slot.Start)
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for attempt := 0; attempt < maxSeatAttempts; attempt++ {
		// Existing entry: decrement only while enough seats remain.
		var class models.Class
		err := r.coll.FindOneAndUpdate(ctx,
			bson.M{"id": classID, path + ".remainingSeats": bson.M{"$gte": seats}},
			bson.M{"$inc": bson.M{
				path + ".bookSeats":      seats,
				path + ".remainingSeats": -seats,
			}},
			after,
		).Decode(&class)
		if err == nil {
			return class.Bookings[models.SlotKey(slot.Start)], nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.SlotBooking{}, fmt.Errorf("failed to reserve seats: %w", err)
		}

		// First booking of the slot: create the entry if nobody else has.
		entry := models.SlotBooking{
			Start:          slot.Start.UTC(),
			End:            slot.End.UTC(),
			BookSeats:      seats,
			RemainingSeats: total - seats,
		}
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"id": classID, path: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{path: entry}},
		)
		if err != nil {
			return models.SlotBooking{}, fmt.Errorf("failed to initialize seat ledger: %w", err)
		}
		if res.MatchedCount == 1 {
			return entry, nil
		}

		// Neither write matched: the class is gone, the slot is full, or a
		// concurrent first booking created the entry in between.
		current, err := r.GetByID(ctx, classID)
		if err != nil {
			return models.SlotBooking{}, err
		}
		if existing, ok := current.Bookings[models.SlotKey(slot.Start)]; ok && existing.RemainingSeats < seats {
			return models.SlotBooking{}, fmt.Errorf("class %s slot %s has %d seats left: %w",
				classID, models.SlotKey(slot.Start), existing.RemainingSeats, database.ErrSeatsExhausted)
		}
	}
	return models.SlotBooking{}, fmt.Errorf("reserve seats for class %s: %w", classID, database.ErrStaleWrite)
}

func (r *mongoClassRepo) ReleaseSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	path := bookingPath(slot.Start)
	booked := bson.D{{Key: "$max", Value: bson.A{
		0,
		bson.D{{Key: "$subtract", Value: bson.A{"$" + path + ".bookSeats", seats}}},
	}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: path + ".bookSeats", Value: booked}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: path + ".remainingSeats", Value: bson.D{{Key: "$min", Value: bson.A{
			total,
			bson.D{{Key: "$subtract", Value: bson.A{total, "$" + path + ".bookSeats"}}},
		}}}}}}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": classID, path: bson.M{"$exists": true}}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("class %s slot %s: %w", classID, models.SlotKey(slot.Start), database.ErrNotFound)
	}
	return nil
}

func (r *mongoClassRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}},
			Options: options.Index().SetName("instructor_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create class indexes: %w", err)
	}
	return nil
}
