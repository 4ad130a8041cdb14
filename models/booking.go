package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Payment methods.
const (
	PaymentCard    = "card"
	PaymentPackage = "package"
)

// Appointment represents a reservation of one class slot by a student.
type Appointment struct {
	ID              string            `bson:"id" json:"id" firestore:"id"`
	StudentID       string            `bson:"studentId" json:"studentId" firestore:"studentId"`
	InstructorID    string            `bson:"instructorId" json:"instructorId" firestore:"instructorId"`
	ClassID         string            `bson:"classId" json:"classId" firestore:"classId"`
	Start           time.Time         `bson:"start" json:"start" firestore:"start"`
	End             time.Time         `bson:"end" json:"end" firestore:"end"`
	Price           int64             `bson:"price" json:"price" firestore:"price"` // minor units, e.g. cents
	Currency        string            `bson:"currency" json:"currency" firestore:"currency"`
	Paid            bool              `bson:"paid" json:"paid" firestore:"paid"`
	Status          AppointmentStatus `bson:"status" json:"status" firestore:"status"`
	ClassStudents   int               `bson:"classStudents" json:"classStudents" firestore:"classStudents"` // seats requested
	GroupClass      bool              `bson:"groupClass" json:"groupClass" firestore:"groupClass"`
	PaymentMethod   string            `bson:"paymentMethod" json:"paymentMethod" firestore:"paymentMethod"`
	PaymentIntentID string            `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty" firestore:"paymentIntentId,omitempty"`
	PackageID       string            `bson:"packageId,omitempty" json:"packageId,omitempty" firestore:"packageId,omitempty"`
	RefundID        string            `bson:"refundId,omitempty" json:"refundId,omitempty" firestore:"refundId,omitempty"`
	Timezone        string            `bson:"timezone" json:"timezone" firestore:"timezone"`
	CalendarEventID string            `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty" firestore:"calendarEventId,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt" firestore:"updatedAt"`
	CancelledAt     *time.Time        `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty" firestore:"cancelledAt,omitempty"`
}

// Interval returns the appointment's time span.
func (a Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// PackagePaid reports whether the appointment was paid with a prepaid package.
func (a Appointment) PackagePaid() bool {
	return a.PaymentMethod == PaymentPackage || a.PackageID != ""
}

// Active reports whether the appointment still holds its slot.
func (a Appointment) Active() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}
