package store

import (
	"context"
	"fmt"
	"log"

	"Aarogyam/models"
	"Aarogyam/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) CreateHealthRecord(ctx context.Context, r *models.HealthRecord) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
	_, err := m.collection(util.HealthRecordCollection).InsertOne(ctx, r)
	if err != nil {
		log.Println("Error while creating health record: ", err)
		return err
	}
	return nil
}

func (m *Mongo) HealthRecordByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.HealthRecord, error) {
	var r models.HealthRecord
	err := m.collection(util.HealthRecordCollection).FindOne(ctx, bson.M{"appointmentId": appointmentID}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.HEALTH_RECORD_NOT_FOUND)
		}
		log.Println("Error while fetching health record: ", err)
		return nil, err
	}
	return &r, nil
}

func (m *Mongo) UpdateHealthRecord(ctx context.Context, r *models.HealthRecord) error {
	res, err := m.collection(util.HealthRecordCollection).ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		log.Println("Error while updating health record: ", err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.HEALTH_RECORD_NOT_FOUND)
	}
	return nil
}

func (m *Mongo) HealthRecordsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.HealthRecord, error) {
	cursor, err := m.collection(util.HealthRecordCollection).Find(ctx, bson.M{"patientId": patientID})
	if err != nil {
		log.Println("Error while listing health records: ", err)
		return nil, err
	}
	var records []models.HealthRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (m *Mongo) RecentHealthRecords(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.HealthRecord, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(int64(limit))
	cursor, err := m.collection(util.HealthRecordCollection).Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		log.Println("Error while fetching recent health records: ", err)
		return nil, err
	}
	var records []models.HealthRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (m *Mongo) CreateBilling(ctx context.Context, b *models.Billing) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.Attachments == nil {
		b.Attachments = []string{}
	}
	_, err := m.collection(util.BillingCollection).InsertOne(ctx, b)
	if err != nil {
		log.Println("Error while creating billing: ", err)
		return err
	}
	return nil
}

func (m *Mongo) BillingByID(ctx context.Context, id primitive.ObjectID) (*models.Billing, error) {
	var b models.Billing
	err := m.collection(util.BillingCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
		}
		log.Println("Error while fetching billing: ", err)
		return nil, err
	}
	return &b, nil
}

func (m *Mongo) BillingByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Billing, error) {
	var b models.Billing
	err := m.collection(util.BillingCollection).FindOne(ctx, bson.M{"appointmentId": appointmentID}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
		}
		log.Println("Error while fetching billing by appointment: ", err)
		return nil, err
	}
	return &b, nil
}

func (m *Mongo) UpdateBilling(ctx context.Context, b *models.Billing) error {
	res, err := m.collection(util.BillingCollection).ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		log.Println("Error while updating billing: ", err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
	}
	return nil
}

func (m *Mongo) BillingsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Billing, error) {
	cursor, err := m.collection(util.BillingCollection).Find(ctx, bson.M{"patientId": patientID})
	if err != nil {
		log.Println("Error while listing billings: ", err)
		return nil, err
	}
	var billings []models.Billing
	if err := cursor.All(ctx, &billings); err != nil {
		return nil, err
	}
	return billings, nil
}

func (m *Mongo) RecentBillings(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Billing, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(int64(limit))
	cursor, err := m.collection(util.BillingCollection).Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		log.Println("Error while fetching recent billings: ", err)
		return nil, err
	}
	var billings []models.Billing
	if err := cursor.All(ctx, &billings); err != nil {
		return nil, err
	}
	return billings, nil
}
