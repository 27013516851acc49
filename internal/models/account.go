package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a registered user. Email is unique and compared as stored.
type Account struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Email        string `bson:"email" json:"email"`
	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"password_hash" json:"-"` // Don't return password in JSON
}
