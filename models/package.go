package models

import "time"

// Package is a block of prepaid lessons a student bought for one class.
type Package struct {
	ID               string     `bson:"id" json:"id" firestore:"id"`
	StudentID        string     `bson:"studentId" json:"studentId" firestore:"studentId"`
	ClassID          string     `bson:"classId" json:"classId" firestore:"classId"`
	TotalCredits     int        `bson:"totalCredits" json:"totalCredits" firestore:"totalCredits"`
	RemainingCredits int        `bson:"remainingCredits" json:"remainingCredits" firestore:"remainingCredits"`
	ExpiresAt        *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty" firestore:"expiresAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

// Expired reports whether the package can no longer be used at now.
func (p Package) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Usable reports whether the package can pay for one lesson of classID.
func (p Package) Usable(studentID, classID string, now time.Time) bool {
	return p.StudentID == studentID && p.ClassID == classID && p.RemainingCredits > 0 && !p.Expired(now)
}
