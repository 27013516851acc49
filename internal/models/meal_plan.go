package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealPlanEntry books one recipe into a (date, meal_type) slot of a user's calendar.
type MealPlanEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID     string     `bson:"user_id" json:"user_id"`
	Date       string     `bson:"date" json:"date"` // YYYY-MM-DD
	MealType   string     `bson:"meal_type" json:"meal_type"`
	SourceID   string     `bson:"source_id" json:"source_id"`
	SourceType SourceType `bson:"source_type" json:"source_type"`
	Title      string     `bson:"title" json:"title"`
	Image      string     `bson:"image,omitempty" json:"image,omitempty"`
}

// MealPlanPatch holds the fields a meal plan entry may be moved by.
type MealPlanPatch struct {
	Date     *string
	MealType *string
}

// Empty reports whether the patch changes nothing.
func (p MealPlanPatch) Empty() bool {
	return p.Date == nil && p.MealType == nil
}
