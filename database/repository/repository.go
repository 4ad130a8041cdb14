package repository

import (
	"context"
	"fmt"

	availabilityRepo "pocketclass/database/repository/availability"
	appointmentRepo "pocketclass/database/repository/appointment"
	classRepo "pocketclass/database/repository/classes"
	firestoreRepo "pocketclass/database/repository/firestore"
	packageRepo "pocketclass/database/repository/packages"

	"cloud.google.com/go/firestore"
)

// Re-export the repository interfaces and Mongo constructors.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

var NewMongoAvailabilityRepo = availabilityRepo.NewMongoAvailabilityRepo

type AppointmentRepository = appointmentRepo.AppointmentRepository

var NewMongoAppointmentRepo = appointmentRepo.NewMongoAppointmentRepo

type ClassRepository = classRepo.ClassRepository

var NewMongoClassRepo = classRepo.NewMongoClassRepo

type PackageRepository = packageRepo.PackageRepository

var NewMongoPackageRepo = packageRepo.NewMongoPackageRepo

// Store bundles the repositories of one backend.
type Store struct {
	Availability AvailabilityRepository
	Appointments AppointmentRepository
	Classes      ClassRepository
	Packages     PackageRepository
}

// NewMongoStore builds the Mongo backed store. database.InitDB must have run.
func NewMongoStore() *Store {
	return &Store{
		Availability: NewMongoAvailabilityRepo(),
		Appointments: NewMongoAppointmentRepo(),
		Classes:      NewMongoClassRepo(),
		Packages:     NewMongoPackageRepo(),
	}
}

// NewFirestoreStore builds the Firestore backed store.
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Availability: firestoreRepo.NewAvailabilityRepo(client),
		Appointments: firestoreRepo.NewAppointmentRepo(client),
		Classes:      firestoreRepo.NewClassRepo(client),
		Packages:     firestoreRepo.NewPackageRepo(client),
	}
}

// EnsureIndexes creates the indexes of every repository.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.Availability.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("availability: %w", err)
	}
	if err := s.Appointments.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("appointments: %w", err)
	}
	if err := s.Classes.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("classes: %w", err)
	}
	if err := s.Packages.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("packages: %w", err)
	}
	return nil
}
