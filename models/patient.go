package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username  string               `json:"username" bson:"username"`
	Email     string               `json:"email" bson:"email"`
	Password  string               `json:"-" bson:"password"`
	Gender    string               `json:"gender" bson:"gender"`
	Age       int                  `json:"age" bson:"age"`
	Height    float64              `json:"height" bson:"height"`
	Weight    float64              `json:"weight" bson:"weight"`
	BloodType string               `json:"bloodType" bson:"bloodType"`
	Doctors   []primitive.ObjectID `json:"doctors" bson:"doctors"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}
