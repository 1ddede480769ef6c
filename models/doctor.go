package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Doctor struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"`
	Specialization string               `json:"specialization" bson:"specialization"`
	Experience     int                  `json:"experience" bson:"experience"`
	Hospital       string               `json:"hospital" bson:"hospital"`
	ConsultantFees float64              `json:"consultantFees" bson:"consultantFees"`
	Phone          string               `json:"phone" bson:"phone"`
	Profile        string               `json:"profile,omitempty" bson:"profile,omitempty"`
	Patients       []primitive.ObjectID `json:"patients" bson:"patients"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}
