package models

import "time"

// SlotBooking is the seat ledger entry of a group class for one slot.
type SlotBooking struct {
	Start          time.Time `bson:"start" json:"start" firestore:"start"`
	End            time.Time `bson:"end" json:"end" firestore:"end"`
	BookSeats      int       `bson:"bookSeats" json:"bookSeats" firestore:"bookSeats"`
	RemainingSeats int       `bson:"remainingSeats" json:"remainingSeats" firestore:"remainingSeats"`
}

// Class is an instructor's bookable class. Bookings is only populated for group classes.
type Class struct {
	ID            string                 `bson:"id" json:"id" firestore:"id"`
	InstructorID  string                 `bson:"instructorId" json:"instructorId" firestore:"instructorId"`
	Name          string                 `bson:"name" json:"name" firestore:"name"`
	GroupClass    bool                   `bson:"groupClass" json:"groupClass" firestore:"groupClass"`
	ClassStudents int                    `bson:"classStudents" json:"classStudents" firestore:"classStudents"` // total seats
	Price         int64                  `bson:"price" json:"price" firestore:"price"`                         // per seat, minor units
	Currency      string                 `bson:"currency" json:"currency" firestore:"currency"`
	Timezone      string                 `bson:"timezone" json:"timezone" firestore:"timezone"`
	Bookings      map[string]SlotBooking `bson:"bookings,omitempty" json:"bookings,omitempty" firestore:"bookings,omitempty"`
}

// SlotKey is the key of a slot in Class.Bookings.
func SlotKey(start time.Time) string {
	return start.UTC().Format(time.RFC3339)
}
