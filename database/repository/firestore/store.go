// Package firestoreRepo implements the repositories on Cloud Firestore for
// deployments that keep class data in Firebase.
package firestoreRepo

import (
	"context"
	"errors"
	"fmt"

	"pocketclass/database"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	classesCollection      = "classes"
	availabilityCollection = "availability"
	appointmentsCollection = "appointments"
	packagesCollection     = "packages"
)

var knownErrs = []error{database.ErrNotFound, database.ErrDuplicate, database.ErrSeatsExhausted, database.ErrStaleWrite, database.ErrNoCredits}

// mapErr translates Firestore status codes into storage-level errors.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", what, database.ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", what, database.ErrDuplicate)
	}
	for _, known := range knownErrs {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Pinger checks Firestore reachability with a one document read.
type Pinger struct {
	Client *firestore.Client
}

func (p Pinger) Ping(ctx context.Context) error {
	_, err := p.Client.Collection(classesCollection).Limit(1).Documents(ctx).Next()
	if err == nil || errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}
