package store

import (
	"context"
	"time"

	"Aarogyam/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the tagged result of a username lookup: exactly one of Doctor
// or Patient is set, and Role names which.
type Principal struct {
	Role    string
	Doctor  *models.Doctor
	Patient *models.Patient
}

func (p *Principal) ID() primitive.ObjectID {
	if p.Doctor != nil {
		return p.Doctor.ID
	}
	return p.Patient.ID
}

type PrincipalStore interface {
	CreateDoctor(ctx context.Context, d *models.Doctor) error
	CreatePatient(ctx context.Context, p *models.Patient) error
	DoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	PatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	// ResolveUsername answers "is this username a doctor or a patient" in one
	// call instead of sequential existence probes.
	ResolveUsername(ctx context.Context, username string) (*Principal, error)
	// EmailInUse reports whether any principal of either type already
	// registered the address.
	EmailInUse(ctx context.Context, email string) (bool, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	// AddPatientRef / AddDoctorRef have $addToSet semantics: repeated adds of
	// the same counterpart leave the set unchanged.
	AddPatientRef(ctx context.Context, doctorID, patientID primitive.ObjectID) error
	AddDoctorRef(ctx context.Context, patientID, doctorID primitive.ObjectID) error
}

// AppointmentFilter carries the structured filters the store can apply
// directly. Free-text search over joined doctor fields happens in the service.
type AppointmentFilter struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
	Date      *time.Time
	Status    string
	TimeSlot  string
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	AppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, a *models.Appointment) error
	DeleteAppointment(ctx context.Context, id primitive.ObjectID) error
	SearchAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	// UpcomingAppointments returns at most limit appointments for the patient
	// ordered by date ascending.
	UpcomingAppointments(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Appointment, error)
}

type RecordStore interface {
	CreateHealthRecord(ctx context.Context, r *models.HealthRecord) error
	HealthRecordByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.HealthRecord, error)
	UpdateHealthRecord(ctx context.Context, r *models.HealthRecord) error
	HealthRecordsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.HealthRecord, error)
	RecentHealthRecords(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.HealthRecord, error)

	CreateBilling(ctx context.Context, b *models.Billing) error
	BillingByID(ctx context.Context, id primitive.ObjectID) (*models.Billing, error)
	BillingByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Billing, error)
	UpdateBilling(ctx context.Context, b *models.Billing) error
	BillingsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Billing, error)
	RecentBillings(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Billing, error)
}

// Store is the single handle the lifecycle coordinator works against.
// WithTransaction runs fn atomically when the backend supports it; the Mongo
// implementation can be configured to fall back to plain sequential writes.
type Store interface {
	PrincipalStore
	AppointmentStore
	RecordStore
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
