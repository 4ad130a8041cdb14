package appointmentRepo

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

// AppointmentRepository persists confirmed appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListActiveBetween returns pending or confirmed appointments of a class
	// overlapping [from, to).
	ListActiveBetween(ctx context.Context, classID string, from, to time.Time) ([]models.Appointment, error)
	Cancel(ctx context.Context, id, refundID string, at time.Time) error
	Reschedule(ctx context.Context, id string, start, end time.Time, at time.Time) error
	SetCalendarEvent(ctx context.Context, id, eventID string) error
	// CompleteEndedBefore marks confirmed appointments that ended before cutoff
	// as completed and returns how many changed.
	CompleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a repository over the "appointments" collection.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{coll: database.Database().Collection("appointments")}
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("appointment for class %s at %s: %w", appt.ClassID, appt.Start.UTC().Format(time.RFC3339), database.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) ListActiveBetween(ctx context.Context, classID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"classId": classID,
		"status":  bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}},
		"start":   bson.M{"$lt": to},
		"end":     bson.M{"$gt": from},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments for class %s: %w", classID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// Cancel only transitions a confirmed appointment; financial fields are left alone.
func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id, refundID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":      models.StatusCancelled,
		"cancelledAt": at,
		"updatedAt":   at,
	}
	if refundID != "" {
		set["refundId"] = refundID
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.StatusConfirmed},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not confirmed: %w", id, database.ErrStaleWrite)
	}
	return nil
}

func (r *mongoAppointmentRepo) Reschedule(ctx context.Context, id string, start, end time.Time, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.StatusConfirmed},
		bson.M{"$set": bson.M{"start": start, "end": end, "updatedAt": at}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("reschedule appointment %s: %w", id, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to reschedule appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not confirmed: %w", id, database.ErrStaleWrite)
	}
	return nil
}

func (r *mongoAppointmentRepo) SetCalendarEvent(ctx context.Context, id, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"calendarEventId": eventID}})
	if err != nil {
		return fmt.Errorf("failed to store calendar event for %s: %w", id, err)
	}
	return nil
}

func (r *mongoAppointmentRepo) CompleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"status": models.StatusConfirmed, "end": bson.M{"$lte": cutoff}},
		bson.M{"$set": bson.M{"status": models.StatusCompleted, "updatedAt": cutoff}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past appointments: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the lookup indexes plus a partial unique index that
// keeps two confirmed private appointments off the same class hour.
func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "classId", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("class_start_end_idx"),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "start", Value: -1}},
			Options: options.Index().SetName("student_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
		{
			Keys: bson.D{{Key: "classId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("confirmed_private_slot_unique").
				SetPartialFilterExpression(bson.M{
					"status":     models.StatusConfirmed,
					"groupClass": false,
				}),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
