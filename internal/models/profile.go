package models

import (
	"time"

	"gorm.io/datatypes"
)

// Gender selects the reference tables used for growth curves.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ChildProfile holds the birth facts for a subject.
type ChildProfile struct {
	SubjectID   string         `gorm:"primaryKey;size:64" json:"subjectId"`
	ChildName   string         `gorm:"size:255;not null" json:"childName"`
	DateOfBirth datatypes.Date `gorm:"not null" json:"dateOfBirth"`
	Gender      Gender         `gorm:"size:16;not null" json:"gender"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for ChildProfile
func (ChildProfile) TableName() string {
	return "child_profiles"
}

// Birth returns the date of birth as a time.Time.
func (p ChildProfile) Birth() time.Time {
	return time.Time(p.DateOfBirth)
}
