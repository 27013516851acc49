package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Ingredient struct {
	Name   string `bson:"name" json:"name"`
	Amount string `bson:"amount,omitempty" json:"amount,omitempty"`
}

type Step struct {
	Step string `bson:"step" json:"step"`
}

// PersonalRecipe is a community recipe authored by a user. Anyone logged in can
// read it; only the author can delete it.
type PersonalRecipe struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID         string       `bson:"user_id" json:"user_id"`
	Title          string       `bson:"title" json:"title"`
	Description    string       `bson:"description,omitempty" json:"description,omitempty"`
	ReadyInMinutes *int         `bson:"readyInMinutes,omitempty" json:"readyInMinutes"`
	Servings       *int         `bson:"servings,omitempty" json:"servings"`
	Calories       *float64     `bson:"calories,omitempty" json:"calories"`
	Ingredients    []Ingredient `bson:"ingredients" json:"ingredients"`
	Steps          []Step       `bson:"steps" json:"steps"`
	Image          string       `bson:"image,omitempty" json:"image"`
}
