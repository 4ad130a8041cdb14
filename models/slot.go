package models

import "time"

// Slot is one bookable hour of a calendar day. It is derived, never stored.
type Slot struct {
	Label          string    `json:"label"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	IsAvailable    bool      `json:"isAvailable"`
	RemainingSeats *int      `json:"remainingSeats,omitempty"`
}

// DaySlots is the response for one class and day.
type DaySlots struct {
	ClassID  string `json:"classId"`
	Date     string `json:"date"`
	Timezone string `json:"timezone"`
	Slots    []Slot `json:"slots"`
}
