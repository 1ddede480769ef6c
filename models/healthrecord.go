package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthRecord is created by the clinical-data fan-out. It carries the
// appointment id so edits resolve an unambiguous record for the encounter.
type HealthRecord struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID     primitive.ObjectID `json:"patientId" bson:"patientId"`
	DoctorID      primitive.ObjectID `json:"doctorId" bson:"doctorId"`
	AppointmentID primitive.ObjectID `json:"appointmentId" bson:"appointmentId"`
	Disease       string             `json:"disease" bson:"disease"`
	Symptoms      string             `json:"symptoms" bson:"symptoms"`
	Attachments   []string           `json:"attachments" bson:"attachments"`
	Date          time.Time          `json:"date" bson:"date"`
}
