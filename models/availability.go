package models

import "time"

// Interval is a half-open span of time [Start, End).
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// AvailabilityInterval is an instructor-declared open window with normalized instants.
type AvailabilityInterval struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Availability bool      `json:"availability"`
}

// Interval returns the window as a plain Interval.
func (ai AvailabilityInterval) Interval() Interval {
	return Interval{Start: ai.Start, End: ai.End}
}

// RawAvailabilityInterval is an interval exactly as stored. Start and End may be
// a native date, an ISO-8601 string or a provider timestamp object.
type RawAvailabilityInterval struct {
	Start        any  `bson:"start" json:"start" firestore:"start"`
	End          any  `bson:"end" json:"end" firestore:"end"`
	Availability bool `bson:"availability" json:"availability" firestore:"availability"`
}

// AvailabilityRecord is one instructor-class schedule document.
type AvailabilityRecord struct {
	ID           string                    `bson:"id" json:"id" firestore:"-"`
	ClassID      string                    `bson:"classId" json:"classId" firestore:"classId"`
	InstructorID string                    `bson:"instructorId" json:"instructorId" firestore:"instructorId"`
	Timezone     string                    `bson:"timezone,omitempty" json:"timezone,omitempty" firestore:"timezone,omitempty"`
	Availability []RawAvailabilityInterval `bson:"availability" json:"availability" firestore:"availability"`
	UpdatedAt    time.Time                 `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
