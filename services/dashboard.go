package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"Aarogyam/models"
	"Aarogyam/store"
	"Aarogyam/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dashboardLimit = 3

// QueryService covers the read paths: dashboards, appointment search and
// the relationship-derived listings.
type QueryService struct {
	store store.Store
	cache store.Cache
}

func NewQueryService(s store.Store, cache store.Cache) *QueryService {
	return &QueryService{store: s, cache: cache}
}

// AppointmentView is an appointment with its doctor joined in, the shape the
// patient-facing listings render.
type AppointmentView struct {
	models.Appointment
	Doctor *models.Doctor `json:"doctor,omitempty"`
}

type HealthRecordView struct {
	models.HealthRecord
	Doctor *models.Doctor `json:"doctor,omitempty"`
}

type BillingView struct {
	models.Billing
	Doctor *models.Doctor `json:"doctor,omitempty"`
}

type PatientDashboard struct {
	Patient        *models.Patient    `json:"patient"`
	Appointments   []AppointmentView  `json:"appointments"`
	MedicalRecords []HealthRecordView `json:"medicalRecords"`
	Billing        []BillingView      `json:"billing"`
}

// SearchQuery combines the structured filters pushed to the store with the
// free-text filter applied after the doctor join.
type SearchQuery struct {
	Date     string
	Status   string
	TimeSlot string
	Search   string
}

/*
* Most-recent-N summary per patient
* Appointments ascending (upcoming first), records and billing descending
 */
func (q *QueryService) PatientDashboard(ctx context.Context, patientID primitive.ObjectID) (*PatientDashboard, error) {
	patient, err := q.store.PatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	appointments, err := q.store.UpcomingAppointments(ctx, patientID, dashboardLimit)
	if err != nil {
		return nil, err
	}
	records, err := q.store.RecentHealthRecords(ctx, patientID, dashboardLimit)
	if err != nil {
		return nil, err
	}
	billings, err := q.store.RecentBillings(ctx, patientID, dashboardLimit)
	if err != nil {
		return nil, err
	}

	dash := &PatientDashboard{
		Patient:        patient,
		Appointments:   q.joinAppointments(ctx, appointments),
		MedicalRecords: q.joinRecords(ctx, records),
		Billing:        q.joinBillings(ctx, billings),
	}
	return dash, nil
}

/*
* Structured filters go to the store
* The text filter spans the joined doctor name, so it runs here:
* case-insensitive substring over doctor username, reason and disease
 */
func (q *QueryService) SearchAppointments(ctx context.Context, patientID primitive.ObjectID, query SearchQuery) ([]AppointmentView, error) {
	filter := store.AppointmentFilter{
		PatientID: &patientID,
		Status:    query.Status,
		TimeSlot:  query.TimeSlot,
	}
	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			return nil, util.ErrValidationFailed
		}
		filter.Date = &day
	}

	appointments, err := q.store.SearchAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := q.joinAppointments(ctx, appointments)

	if query.Search == "" {
		return views, nil
	}
	needle := strings.ToLower(query.Search)
	matched := views[:0]
	for _, v := range views {
		doctorName := ""
		if v.Doctor != nil {
			doctorName = v.Doctor.Username
		}
		if strings.Contains(strings.ToLower(doctorName), needle) ||
			strings.Contains(strings.ToLower(v.Reason), needle) ||
			strings.Contains(strings.ToLower(v.Disease), needle) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (q *QueryService) PatientAppointments(ctx context.Context, patientID primitive.ObjectID) ([]AppointmentView, error) {
	appointments, err := q.store.SearchAppointments(ctx, store.AppointmentFilter{PatientID: &patientID})
	if err != nil {
		return nil, err
	}
	return q.joinAppointments(ctx, appointments), nil
}

/*
* Try the daily warmed cache first, fall back to the store
 */
func (q *QueryService) DoctorTodayAppointments(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	if q.cache != nil {
		if payload, ok := q.cache.GetCache(ctx, util.DoctorTodayKey+doctorID.Hex()); ok {
			var appointments []models.Appointment
			if err := json.Unmarshal(payload, &appointments); err == nil {
				return appointments, nil
			}
			log.Println("Corrupt cached entry for doctor, rereading store")
		}
	}
	today := time.Now().Truncate(24 * time.Hour)
	return q.store.SearchAppointments(ctx, store.AppointmentFilter{DoctorID: &doctorID, Date: &today})
}

func (q *QueryService) Doctor(ctx context.Context, doctorID primitive.ObjectID) (*models.Doctor, error) {
	return q.store.DoctorByID(ctx, doctorID)
}

func (q *QueryService) DoctorAppointments(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	return q.store.SearchAppointments(ctx, store.AppointmentFilter{DoctorID: &doctorID})
}

func (q *QueryService) PairAppointments(ctx context.Context, doctorID, patientID primitive.ObjectID) ([]models.Appointment, error) {
	return q.store.SearchAppointments(ctx, store.AppointmentFilter{DoctorID: &doctorID, PatientID: &patientID})
}

// PatientAppointmentView is an appointment joined with its patient, the
// shape the doctor-side detail screens use.
type PatientAppointmentView struct {
	models.Appointment
	Patient *models.Patient `json:"patient,omitempty"`
}

// EncounterBundle is the appointment plus the health record and billing
// derived from it, for prefilling the clinical edit form. Records that do not
// exist yet come back nil.
type EncounterBundle struct {
	Appointment  *PatientAppointmentView `json:"appointment"`
	HealthRecord *models.HealthRecord    `json:"healthRecord"`
	Billing      *models.Billing         `json:"billing"`
}

func (q *QueryService) AppointmentWithPatient(ctx context.Context, appointmentID primitive.ObjectID) (*PatientAppointmentView, error) {
	appointment, err := q.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	view := &PatientAppointmentView{Appointment: *appointment}
	if p, err := q.store.PatientByID(ctx, appointment.PatientID); err == nil {
		view.Patient = p
	}
	return view, nil
}

func (q *QueryService) EncounterBundle(ctx context.Context, appointmentID primitive.ObjectID) (*EncounterBundle, error) {
	view, err := q.AppointmentWithPatient(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	bundle := &EncounterBundle{Appointment: view}
	if record, err := q.store.HealthRecordByAppointment(ctx, appointmentID); err == nil {
		bundle.HealthRecord = record
	}
	if billing, err := q.store.BillingByAppointment(ctx, appointmentID); err == nil {
		bundle.Billing = billing
	}
	return bundle, nil
}

func (q *QueryService) PatientHealthRecords(ctx context.Context, patientID primitive.ObjectID) ([]HealthRecordView, error) {
	records, err := q.store.HealthRecordsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return q.joinRecords(ctx, records), nil
}

func (q *QueryService) PatientBillings(ctx context.Context, patientID primitive.ObjectID) ([]BillingView, error) {
	billings, err := q.store.BillingsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return q.joinBillings(ctx, billings), nil
}

// DoctorPatients resolves the doctor's relationship-reference set. The list
// comes from the stored set only, never recomputed from appointment history.
func (q *QueryService) DoctorPatients(ctx context.Context, doctorID primitive.ObjectID) ([]models.Patient, error) {
	doctor, err := q.store.DoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	patients := make([]models.Patient, 0, len(doctor.Patients))
	for _, id := range doctor.Patients {
		p, err := q.store.PatientByID(ctx, id)
		if err != nil {
			log.Println("Error while resolving patient ref: ", err)
			continue
		}
		patients = append(patients, *p)
	}
	return patients, nil
}

func (q *QueryService) PatientDoctors(ctx context.Context, patientID primitive.ObjectID) ([]models.Doctor, error) {
	patient, err := q.store.PatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	doctors := make([]models.Doctor, 0, len(patient.Doctors))
	for _, id := range patient.Doctors {
		d, err := q.store.DoctorByID(ctx, id)
		if err != nil {
			log.Println("Error while resolving doctor ref: ", err)
			continue
		}
		doctors = append(doctors, *d)
	}
	return doctors, nil
}

func (q *QueryService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return q.store.ListDoctors(ctx)
}

func (q *QueryService) joinAppointments(ctx context.Context, appointments []models.Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		view := AppointmentView{Appointment: a}
		if d, err := q.store.DoctorByID(ctx, a.DoctorID); err == nil {
			view.Doctor = d
		}
		views = append(views, view)
	}
	return views
}

func (q *QueryService) joinRecords(ctx context.Context, records []models.HealthRecord) []HealthRecordView {
	views := make([]HealthRecordView, 0, len(records))
	for _, r := range records {
		view := HealthRecordView{HealthRecord: r}
		if d, err := q.store.DoctorByID(ctx, r.DoctorID); err == nil {
			view.Doctor = d
		}
		views = append(views, view)
	}
	return views
}

func (q *QueryService) joinBillings(ctx context.Context, billings []models.Billing) []BillingView {
	views := make([]BillingView, 0, len(billings))
	for _, b := range billings {
		view := BillingView{Billing: b}
		if d, err := q.store.DoctorByID(ctx, b.DoctorID); err == nil {
			view.Doctor = d
		}
		views = append(views, view)
	}
	return views
}
