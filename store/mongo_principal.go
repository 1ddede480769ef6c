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
)

func (m *Mongo) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	if d.Patients == nil {
		d.Patients = []primitive.ObjectID{}
	}
	_, err := m.collection(util.DoctorCollection).InsertOne(ctx, d)
	if err != nil {
		log.Println("Error while creating doctor: ", err)
		return err
	}
	return nil
}

func (m *Mongo) CreatePatient(ctx context.Context, p *models.Patient) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.Doctors == nil {
		p.Doctors = []primitive.ObjectID{}
	}
	_, err := m.collection(util.PatientCollection).InsertOne(ctx, p)
	if err != nil {
		log.Println("Error while creating patient: ", err)
		return err
	}
	return nil
}

func (m *Mongo) DoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	err := m.collection(util.DoctorCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.DOCTOR_NOT_FOUND)
		}
		log.Println("Error while fetching doctor: ", err)
		return nil, err
	}
	return &d, nil
}

func (m *Mongo) PatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := m.collection(util.PatientCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.PATIENT_NOT_FOUND)
		}
		log.Println("Error while fetching patient: ", err)
		return nil, err
	}
	return &p, nil
}

/*
* Probe the doctors collection first, then patients
* Return a tagged principal so the caller never re-probes by role
 */
func (m *Mongo) ResolveUsername(ctx context.Context, username string) (*Principal, error) {
	var d models.Doctor
	err := m.collection(util.DoctorCollection).FindOne(ctx, bson.M{"username": username}).Decode(&d)
	if err == nil {
		return &Principal{Role: util.RoleDoctor, Doctor: &d}, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Error while resolving username against doctors: ", err)
		return nil, err
	}

	var p models.Patient
	err = m.collection(util.PatientCollection).FindOne(ctx, bson.M{"username": username}).Decode(&p)
	if err == nil {
		return &Principal{Role: util.RolePatient, Patient: &p}, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Error while resolving username against patients: ", err)
		return nil, err
	}
	return nil, util.ErrNotFound
}

func (m *Mongo) EmailInUse(ctx context.Context, email string) (bool, error) {
	for _, collection := range []string{util.DoctorCollection, util.PatientCollection} {
		n, err := m.collection(collection).CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("Error while checking email in ", collection, ": ", err)
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (m *Mongo) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	cursor, err := m.collection(util.DoctorCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Println("Error while listing doctors: ", err)
		return nil, err
	}
	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (m *Mongo) AddPatientRef(ctx context.Context, doctorID, patientID primitive.ObjectID) error {
	_, err := m.collection(util.DoctorCollection).UpdateOne(ctx,
		bson.M{"_id": doctorID},
		bson.M{"$addToSet": bson.M{"patients": patientID}},
	)
	if err != nil {
		log.Println("Error while adding patient ref to doctor: ", err)
	}
	return err
}

func (m *Mongo) AddDoctorRef(ctx context.Context, patientID, doctorID primitive.ObjectID) error {
	_, err := m.collection(util.PatientCollection).UpdateOne(ctx,
		bson.M{"_id": patientID},
		bson.M{"$addToSet": bson.M{"doctors": doctorID}},
	)
	if err != nil {
		log.Println("Error while adding doctor ref to patient: ", err)
	}
	return err
}
