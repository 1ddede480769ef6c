package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"Aarogyam/models"
	"Aarogyam/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store used by unit tests. Single-document operations
// take the lock; WithTransaction runs fn directly since there is no partial
// visibility to protect against inside one test goroutine.
type Memory struct {
	mu            sync.Mutex
	doctors       map[primitive.ObjectID]models.Doctor
	patients      map[primitive.ObjectID]models.Patient
	appointments  map[primitive.ObjectID]models.Appointment
	healthRecords map[primitive.ObjectID]models.HealthRecord
	billings      map[primitive.ObjectID]models.Billing
}

func NewMemory() *Memory {
	return &Memory{
		doctors:       make(map[primitive.ObjectID]models.Doctor),
		patients:      make(map[primitive.ObjectID]models.Patient),
		appointments:  make(map[primitive.ObjectID]models.Appointment),
		healthRecords: make(map[primitive.ObjectID]models.HealthRecord),
		billings:      make(map[primitive.ObjectID]models.Billing),
	}
}

func (m *Memory) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *Memory) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	if d.Patients == nil {
		d.Patients = []primitive.ObjectID{}
	}
	m.doctors[d.ID] = *d
	return nil
}

func (m *Memory) CreatePatient(ctx context.Context, p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.Doctors == nil {
		p.Doctors = []primitive.ObjectID{}
	}
	m.patients[p.ID] = *p
	return nil
}

func (m *Memory) DoctorByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.DOCTOR_NOT_FOUND)
	}
	return &d, nil
}

func (m *Memory) PatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.PATIENT_NOT_FOUND)
	}
	return &p, nil
}

func (m *Memory) ResolveUsername(ctx context.Context, username string) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if d.Username == username {
			d := d
			return &Principal{Role: util.RoleDoctor, Doctor: &d}, nil
		}
	}
	for _, p := range m.patients {
		if p.Username == username {
			p := p
			return &Principal{Role: util.RolePatient, Patient: &p}, nil
		}
	}
	return nil, util.ErrNotFound
}

func (m *Memory) EmailInUse(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if d.Email == email {
			return true, nil
		}
	}
	for _, p := range m.patients {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doctors := make([]models.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		doctors = append(doctors, d)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Username < doctors[j].Username })
	return doctors, nil
}

func (m *Memory) AddPatientRef(ctx context.Context, doctorID, patientID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[doctorID]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.DOCTOR_NOT_FOUND)
	}
	for _, id := range d.Patients {
		if id == patientID {
			return nil
		}
	}
	d.Patients = append(d.Patients, patientID)
	m.doctors[doctorID] = d
	return nil
}

func (m *Memory) AddDoctorRef(ctx context.Context, patientID, doctorID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[patientID]
	if !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.PATIENT_NOT_FOUND)
	}
	for _, id := range p.Doctors {
		if id == doctorID {
			return nil
		}
	}
	p.Doctors = append(p.Doctors, doctorID)
	m.patients[patientID] = p
	return nil
}

func (m *Memory) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Attachments == nil {
		a.Attachments = []string{}
	}
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) AppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
	}
	a.Attachments = append([]string(nil), a.Attachments...)
	return &a, nil
}

func (m *Memory) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[a.ID]; !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
	}
	a.UpdatedAt = time.Now()
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[id]; !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.APPOINTMENT_NOT_FOUND)
	}
	delete(m.appointments, id)
	return nil
}

func (m *Memory) SearchAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appointments {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.Date != nil {
			day := f.Date.Truncate(24 * time.Hour)
			if a.Date.Before(day) || !a.Date.Before(day.Add(24*time.Hour)) {
				continue
			}
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.TimeSlot != "" && a.TimeSlot != f.TimeSlot {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) UpcomingAppointments(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Appointment, error) {
	all, err := m.SearchAppointments(ctx, AppointmentFilter{PatientID: &patientID})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Memory) CreateHealthRecord(ctx context.Context, r *models.HealthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
	m.healthRecords[r.ID] = *r
	return nil
}

func (m *Memory) HealthRecordByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.healthRecords {
		if r.AppointmentID == appointmentID {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.HEALTH_RECORD_NOT_FOUND)
}

func (m *Memory) UpdateHealthRecord(ctx context.Context, r *models.HealthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.healthRecords[r.ID]; !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.HEALTH_RECORD_NOT_FOUND)
	}
	m.healthRecords[r.ID] = *r
	return nil
}

func (m *Memory) HealthRecordsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.HealthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HealthRecord
	for _, r := range m.healthRecords {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *Memory) RecentHealthRecords(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.HealthRecord, error) {
	all, err := m.HealthRecordsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Memory) CreateBilling(ctx context.Context, b *models.Billing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.Attachments == nil {
		b.Attachments = []string{}
	}
	m.billings[b.ID] = *b
	return nil
}

func (m *Memory) BillingByID(ctx context.Context, id primitive.ObjectID) (*models.Billing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.billings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
	}
	b.Attachments = append([]string(nil), b.Attachments...)
	return &b, nil
}

func (m *Memory) BillingByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Billing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.billings {
		if b.AppointmentID == appointmentID {
			b := b
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
}

func (m *Memory) UpdateBilling(ctx context.Context, b *models.Billing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.billings[b.ID]; !ok {
		return fmt.Errorf("%w: %s", util.ErrNotFound, util.BILLING_NOT_FOUND)
	}
	m.billings[b.ID] = *b
	return nil
}

func (m *Memory) BillingsByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Billing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Billing
	for _, b := range m.billings {
		if b.PatientID == patientID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *Memory) RecentBillings(ctx context.Context, patientID primitive.ObjectID, limit int) ([]models.Billing, error) {
	all, err := m.BillingsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
