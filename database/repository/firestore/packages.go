package firestoreRepo

import (
	"context"
	"fmt"
	"time"

	"pocketclass/database"
	packageRepo "pocketclass/database/repository/packages"
	"pocketclass/models"

	"cloud.google.com/go/firestore"
)

type firestorePackageRepo struct {
	client *firestore.Client
}

// NewPackageRepo returns a package repository backed by Firestore.
func NewPackageRepo(client *firestore.Client) packageRepo.PackageRepository {
	return &firestorePackageRepo{client: client}
}

func decodePackage(snap *firestore.DocumentSnapshot) (*models.Package, error) {
	var pkg models.Package
	if err := snap.DataTo(&pkg); err != nil {
		return nil, fmt.Errorf("error decoding package %s: %w", snap.Ref.ID, err)
	}
	if pkg.ID == "" {
		pkg.ID = snap.Ref.ID
	}
	return &pkg, nil
}

func (r *firestorePackageRepo) GetByID(ctx context.Context, id string) (*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.client.Collection(packagesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "package "+id)
	}
	return decodePackage(snap)
}

func (r *firestorePackageRepo) ConsumeCredit(ctx context.Context, id, studentID, classID string, now time.Time) (*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.client.Collection(packagesCollection).Doc(id)
	var spent *models.Package
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		pkg, err := decodePackage(snap)
		if err != nil {
			return err
		}
		if !pkg.Usable(studentID, classID, now) {
			return fmt.Errorf("package %s: %w", id, database.ErrNoCredits)
		}
		pkg.RemainingCredits--
		spent = pkg
		return tx.Update(ref, []firestore.Update{{Path: "remainingCredits", Value: pkg.RemainingCredits}})
	})
	if err != nil {
		return nil, mapErr(err, "consume credit of package "+id)
	}
	return spent, nil
}

func (r *firestorePackageRepo) RestoreCredit(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.client.Collection(packagesCollection).Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		pkg, err := decodePackage(snap)
		if err != nil {
			return err
		}
		if pkg.RemainingCredits >= pkg.TotalCredits {
			return nil
		}
		return tx.Update(ref, []firestore.Update{{Path: "remainingCredits", Value: pkg.RemainingCredits + 1}})
	})
	return mapErr(err, "restore credit of package "+id)
}

func (r *firestorePackageRepo) EnsureIndexes(context.Context) error {
	return nil
}
