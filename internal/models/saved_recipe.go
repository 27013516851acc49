package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedRecipe is a bookmark with denormalized display fields.
type SavedRecipe struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SavedAt time.Time          `bson:"saved_at" json:"saved_at"`

	UserID         string     `bson:"user_id" json:"user_id"`
	RecipeID       string     `bson:"recipe_id" json:"recipe_id"`
	SourceType     SourceType `bson:"source_type" json:"source_type"`
	Title          string     `bson:"title" json:"title"`
	Image          string     `bson:"image,omitempty" json:"image,omitempty"`
	ReadyInMinutes *int       `bson:"readyInMinutes,omitempty" json:"readyInMinutes,omitempty"`
	Calories       *float64   `bson:"calories,omitempty" json:"calories,omitempty"`
}
