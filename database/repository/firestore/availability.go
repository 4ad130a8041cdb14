package firestoreRepo

import (
	"context"
	"fmt"
	"time"

	availabilityRepo "pocketclass/database/repository/availability"
	"pocketclass/models"

	"cloud.google.com/go/firestore"
)

type firestoreAvailabilityRepo struct {
	client *firestore.Client
}

// NewAvailabilityRepo returns an availability repository backed by Firestore.
func NewAvailabilityRepo(client *firestore.Client) availabilityRepo.AvailabilityRepository {
	return &firestoreAvailabilityRepo{client: client}
}

func (r *firestoreAvailabilityRepo) GetByClassID(ctx context.Context, classID string) ([]models.AvailabilityRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snaps, err := r.client.Collection(availabilityCollection).
		Where("classId", "==", classID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, mapErr(err, "availability for class "+classID)
	}

	records := make([]models.AvailabilityRecord, 0, len(snaps))
	for _, snap := range snaps {
		var rec models.AvailabilityRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("error decoding availability %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

// EnsureIndexes is a no-op; composite indexes are declared in firestore.indexes.json.
func (r *firestoreAvailabilityRepo) EnsureIndexes(context.Context) error {
	return nil
}
