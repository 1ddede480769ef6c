package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is the central coordination document. PatientID and DoctorID are
// set at booking and never change afterwards. Attachments keeps upload order.
type Appointment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID   primitive.ObjectID `json:"patientId" bson:"patientId"`
	DoctorID    primitive.ObjectID `json:"doctorId" bson:"doctorId"`
	Date        time.Time          `json:"date" bson:"date"`
	TimeSlot    string             `json:"timeSlot" bson:"timeSlot"`
	Status      string             `json:"status" bson:"status"`
	Reason      string             `json:"reason" bson:"reason"`
	Disease     string             `json:"disease" bson:"disease"`
	Summary     string             `json:"summary" bson:"summary"`
	Notes       string             `json:"notes" bson:"notes"`
	Attachments []string           `json:"attachments" bson:"attachments"`
	MeetingLink string             `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
