package firestoreRepo

import (
	"context"
	"fmt"
	"time"

	"pocketclass/database"
	classRepo "pocketclass/database/repository/classes"
	"pocketclass/models"

	"cloud.google.com/go/firestore"
)

type firestoreClassRepo struct {
	client *firestore.Client
}

// NewClassRepo returns a class repository backed by Firestore.
func NewClassRepo(client *firestore.Client) classRepo.ClassRepository {
	return &firestoreClassRepo{client: client}
}

func decodeClass(snap *firestore.DocumentSnapshot) (*models.Class, error) {
	var class models.Class
	if err := snap.DataTo(&class); err != nil {
		return nil, fmt.Errorf("error decoding class %s: %w", snap.Ref.ID, err)
	}
	if class.ID == "" {
		class.ID = snap.Ref.ID
	}
	return &class, nil
}

func (r *firestoreClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.client.Collection(classesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "class "+id)
	}
	return decodeClass(snap)
}

// ReserveSeats runs a read-modify-write transaction; Firestore retries it on
// contention, so the ledger cannot be decremented twice from the same read.
func (r *firestoreClassRepo) ReserveSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) (models.SlotBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.client.Collection(classesCollection).Doc(classID)
	key := models.SlotKey(slot.Start)
	var reserved models.SlotBooking

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		class, err := decodeClass(snap)
		if err != nil {
			return err
		}

		entry, ok := class.Bookings[key]
		if !ok {
			entry = models.SlotBooking{Start: slot.Start.UTC(), End: slot.End.UTC(), RemainingSeats: total}
		}
		if entry.RemainingSeats < seats {
			return fmt.Errorf("class %s slot %s has %d seats left: %w", classID, key, entry.RemainingSeats, database.ErrSeatsExhausted)
		}
		entry.BookSeats += seats
		entry.RemainingSeats -= seats
		reserved = entry

		return tx.Update(ref, []firestore.Update{{FieldPath: firestore.FieldPath{"bookings", key}, Value: entry}})
	})
	if err != nil {
		return models.SlotBooking{}, mapErr(err, "reserve seats for class "+classID)
	}
	return reserved, nil
}

func (r *firestoreClassRepo) ReleaseSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.client.Collection(classesCollection).Doc(classID)
	key := models.SlotKey(slot.Start)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		class, err := decodeClass(snap)
		if err != nil {
			return err
		}
		entry, ok := class.Bookings[key]
		if !ok {
			return fmt.Errorf("class %s slot %s: %w", classID, key, database.ErrNotFound)
		}
		entry.BookSeats = max(0, entry.BookSeats-seats)
		entry.RemainingSeats = min(total, total-entry.BookSeats)

		return tx.Update(ref, []firestore.Update{{FieldPath: firestore.FieldPath{"bookings", key}, Value: entry}})
	})
	return mapErr(err, "release seats for class "+classID)
}

func (r *firestoreClassRepo) EnsureIndexes(context.Context) error {
	return nil
}
