package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"Aarogyam/models"
	"Aarogyam/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Attachments == nil {
		a.Attachments = []string{}
	}
	_, err := m.collection(util.AppointmentCollection).InsertOne(ctx, a)
	if err != nil {
		log.Println("Error while creating appointment: ", err)
		return err
	}
	return nil
}

func (m *Mongo) AppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	err := m.collection(util.AppointmentCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
		}
		log.Println("Error while fetching appointment: ", err)
		return nil, err
	}
	return &a, nil
}

func (m *Mongo) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now()
	res, err := m.collection(util.AppointmentCollection).ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		log.Println("Error while updating appointment: ", err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
	}
	return nil
}

func (m *Mongo) DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.collection(util.AppointmentCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Println("Error while deleting appointment: ", err)
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
	}
	return nil
}

/*
* Build the filter from whatever structured fields are set
* Date filters match the calendar day, not the instant
 */
func (m *Mongo) SearchAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{}
	if f.PatientID != nil {
		filter["patientId"] = *f.PatientID
	}
	if f.DoctorID != nil {
		filter["doctorId"] = *f.DoctorID
	}
	if f.Date != nil {
		day := f.Date.Truncate(24 * time.Hour)
		filter["date"] = bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.TimeSlot != "" {
		filter["timeSlot"] = f.TimeSlot
	}

	cursor, err := m.collection(util.AppointmentCollection).Find(ctx, filter)
	if err != nil {
		log.Println("Error while searching appointments: ", err)
		return nil, err
	}
	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (m *Mongo) UpcomingAppointments(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.M{"date": 1}).SetLimit(int64(limit))
	cursor, err := m.collection(util.AppointmentCollection).Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		log.Println("Error while fetching upcoming appointments: ", err)
		return nil, err
	}
	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
