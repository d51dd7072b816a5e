package models

import "time"

// Meal times for solid records
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FluidRecord is one fluid intake owned by ParentID.
type FluidRecord struct {
	RecordID  string    `gorm:"primaryKey;size:36" json:"id"`
	ParentID  string    `gorm:"size:64;not null;index:idx_fluid_owner" json:"parentId"`
	ChildName string    `gorm:"size:255;not null" json:"childName"`
	FluidType string    `gorm:"size:64;not null" json:"fluidType"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Unit      string    `gorm:"size:16;not null" json:"unit"`
	Time      time.Time `gorm:"column:taken_at;not null;index:idx_fluid_owner" json:"time"`
	Notes     string    `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for FluidRecord
func (FluidRecord) TableName() string {
	return "fluid_records"
}

// SolidRecord is one solid food intake owned by ParentID.
type SolidRecord struct {
	RecordID  string    `gorm:"primaryKey;size:36" json:"id"`
	ParentID  string    `gorm:"size:64;not null;index:idx_solid_owner" json:"parentId"`
	ChildName string    `gorm:"size:255;not null" json:"childName"`
	FoodType  string    `gorm:"size:64;not null" json:"foodType"`
	FoodName  string    `gorm:"size:255;not null" json:"foodName"`
	MealTime  string    `gorm:"size:16;not null" json:"mealTime"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Unit      string    `gorm:"size:16;not null" json:"unit"`
	Time      time.Time `gorm:"column:taken_at;not null;index:idx_solid_owner" json:"time"`
	Notes     string    `gorm:"size:1024" json:"notes,omitempty"`
	Reaction  string    `gorm:"size:255" json:"reaction,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for SolidRecord
func (SolidRecord) TableName() string {
	return "solid_records"
}
