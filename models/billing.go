package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Billing struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID     primitive.ObjectID `json:"patientId" bson:"patientId"`
	DoctorID      primitive.ObjectID `json:"doctorId" bson:"doctorId"`
	AppointmentID primitive.ObjectID `json:"appointmentId" bson:"appointmentId"`
	InvoiceNo     string             `json:"invoiceNo" bson:"invoiceNo"`
	Date          time.Time          `json:"date" bson:"date"`
	Amount        float64            `json:"amount" bson:"amount"`
	Reason        string             `json:"reason" bson:"reason"`
	Status        string             `json:"status" bson:"status"`
	PaymentMethod string             `json:"paymentMethod" bson:"paymentMethod"`
	Attachments   []string           `json:"attachments" bson:"attachments"`
}
