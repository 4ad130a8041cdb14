package firestoreRepo

import (
	"context"
	"fmt"
	"time"

	"pocketclass/database"
	appointmentRepo "pocketclass/database/repository/appointment"
	"pocketclass/models"

	"cloud.google.com/go/firestore"
)

type firestoreAppointmentRepo struct {
	client *firestore.Client
}

// NewAppointmentRepo returns an appointment repository backed by Firestore.
func NewAppointmentRepo(client *firestore.Client) appointmentRepo.AppointmentRepository {
	return &firestoreAppointmentRepo{client: client}
}

func (r *firestoreAppointmentRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(appointmentsCollection)
}

// Create inserts the appointment. Private class hours are guarded inside the
// same transaction so two confirmations cannot land on one slot.
func (r *firestoreAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.coll().Doc(appt.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if !appt.GroupClass {
			q := r.coll().
				Where("classId", "==", appt.ClassID).
				Where("start", "==", appt.Start).
				Where("status", "==", string(models.StatusConfirmed)).
				Limit(1)
			existing, err := tx.Documents(q).GetAll()
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return fmt.Errorf("class %s at %s: %w", appt.ClassID, appt.Start.UTC().Format(time.RFC3339), database.ErrDuplicate)
			}
		}
		return tx.Create(ref, appt)
	})
	return mapErr(err, "create appointment "+appt.ID)
}

func (r *firestoreAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "appointment "+id)
	}
	var appt models.Appointment
	if err := snap.DataTo(&appt); err != nil {
		return nil, fmt.Errorf("error decoding appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *firestoreAppointmentRepo) ListActiveBetween(ctx context.Context, classID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snaps, err := r.coll().
		Where("classId", "==", classID).
		Where("start", "<", to).
		OrderBy("start", firestore.Asc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, mapErr(err, "appointments for class "+classID)
	}

	var appts []models.Appointment
	for _, snap := range snaps {
		var appt models.Appointment
		if err := snap.DataTo(&appt); err != nil {
			return nil, fmt.Errorf("error decoding appointment %s: %w", snap.Ref.ID, err)
		}
		// One range filter per query; the rest is applied here.
		if !appt.Active() || !appt.End.After(from) {
			continue
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

// updateConfirmed applies updates only while the appointment is still confirmed.
func (r *firestoreAppointmentRepo) updateConfirmed(ctx context.Context, id string, updates []firestore.Update) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.coll().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		st, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if st != string(models.StatusConfirmed) {
			return fmt.Errorf("appointment %s is %v: %w", id, st, database.ErrStaleWrite)
		}
		return tx.Update(ref, updates)
	})
	return mapErr(err, "update appointment "+id)
}

func (r *firestoreAppointmentRepo) Cancel(ctx context.Context, id, refundID string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "status", Value: string(models.StatusCancelled)},
		{Path: "cancelledAt", Value: at},
		{Path: "updatedAt", Value: at},
	}
	if refundID != "" {
		updates = append(updates, firestore.Update{Path: "refundId", Value: refundID})
	}
	return r.updateConfirmed(ctx, id, updates)
}

func (r *firestoreAppointmentRepo) Reschedule(ctx context.Context, id string, start, end time.Time, at time.Time) error {
	return r.updateConfirmed(ctx, id, []firestore.Update{
		{Path: "start", Value: start},
		{Path: "end", Value: end},
		{Path: "updatedAt", Value: at},
	})
}

func (r *firestoreAppointmentRepo) SetCalendarEvent(ctx context.Context, id, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{{Path: "calendarEventId", Value: eventID}})
	return mapErr(err, "store calendar event for "+id)
}

func (r *firestoreAppointmentRepo) CompleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	snaps, err := r.coll().
		Where("status", "==", string(models.StatusConfirmed)).
		Where("end", "<=", cutoff).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, mapErr(err, "past appointments")
	}

	var done int64
	for _, snap := range snaps {
		_, err := snap.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: string(models.StatusCompleted)},
			{Path: "updatedAt", Value: cutoff},
		})
		if err != nil {
			return done, mapErr(err, "complete appointment "+snap.Ref.ID)
		}
		done++
	}
	return done, nil
}

func (r *firestoreAppointmentRepo) EnsureIndexes(context.Context) error {
	return nil
}
