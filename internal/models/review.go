package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 100
)

// Review is one user's rating of one recipe reference.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID     string     `bson:"user_id" json:"user_id"`
	RecipeID   string     `bson:"recipe_id" json:"recipe_id"`
	SourceType SourceType `bson:"source_type" json:"source_type"`
	Rating     int        `bson:"rating" json:"rating"`
	Comment    string     `bson:"comment,omitempty" json:"comment,omitempty"`
}
