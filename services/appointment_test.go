package services

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"Aarogyam/models"
	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestCoordinator(t *testing.T) (*AppointmentService, *store.Memory, *models.Doctor, *models.Patient) {
	t.Helper()
	mem := store.NewMemory()
	svc := NewAppointmentService(mem, "https://meet.jit.si")

	doctor := &models.Doctor{Username: "drhouse", Email: "house@example.com"}
	require.NoError(t, mem.CreateDoctor(context.Background(), doctor))
	patient := &models.Patient{Username: "john", Email: "john@example.com"}
	require.NoError(t, mem.CreatePatient(context.Background(), patient))
	return svc, mem, doctor, patient
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)
	assert.Equal(t, util.StatusPending, appointment.Status)
	assert.Equal(t, patient.ID, appointment.PatientID)
	assert.Equal(t, doctor.ID, appointment.DoctorID)
	assert.Empty(t, appointment.Attachments)

	// The appointment shows up exactly once in each principal's derived view.
	byDoctor, err := mem.SearchAppointments(ctx, store.AppointmentFilter{DoctorID: &doctor.ID})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 1)
	byPatient, err := mem.SearchAppointments(ctx, store.AppointmentFilter{PatientID: &patient.ID})
	require.NoError(t, err)
	assert.Len(t, byPatient, 1)
	assert.Equal(t, appointment.ID, byPatient[0].ID)
}

func TestBookRejectsUnknownPrincipals(t *testing.T) {
	svc, _, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, patient.ID, primitive.NewObjectID(), "2026-09-01", "10:00", "checkup")
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = svc.Book(ctx, primitive.NewObjectID(), doctor.ID, "2026-09-01", "10:00", "checkup")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestBookRejectsBadDate(t *testing.T) {
	svc, _, doctor, patient := newTestCoordinator(t)

	_, err := svc.Book(context.Background(), patient.ID, doctor.ID, "not-a-date", "10:00", "checkup")
	assert.ErrorIs(t, err, util.ErrValidationFailed)
}

func TestConfirmIsIdempotent(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)

	// Before confirmation the relationship sets are untouched.
	d, err := mem.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.NotContains(t, d.Patients, patient.ID)

	for i := 0; i < 2; i++ {
		confirmed, err := svc.Confirm(ctx, appointment.ID)
		require.NoError(t, err)
		assert.Equal(t, util.StatusConfirmed, confirmed.Status)
	}

	d, err = mem.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, countIDs(d.Patients, patient.ID))

	p, err := mem.PatientByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, countIDs(p.Doctors, doctor.ID))
}

func TestAttachThenEditReplacesPrescription(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)

	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease:      "flu",
		Symptoms:     "fever",
		Prescription: "/uploads/1.pdf",
	})
	require.NoError(t, err)

	_, err = svc.EditClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease:      "flu",
		Symptoms:     "fever",
		Prescription: "/uploads/2.pdf",
	})
	require.NoError(t, err)

	got, err := mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/2.pdf"}, got.Attachments)
}

func TestSecondAttachAppendsPrescription(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)

	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease: "flu", Symptoms: "fever", Prescription: "/uploads/1.pdf",
	})
	require.NoError(t, err)
	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease: "flu", Symptoms: "fever", Prescription: "/uploads/2.pdf",
	})
	require.NoError(t, err)

	got, err := mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1.pdf", "/uploads/2.pdf"}, got.Attachments)
}

// retryingStore re-runs the transaction callback once after it succeeds, the
// way the driver replays it on a transient transaction error.
type retryingStore struct {
	*store.Memory
}

func (r *retryingStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

func TestAttachPrescriptionSurvivesTransactionRetry(t *testing.T) {
	mem := store.NewMemory()
	svc := NewAppointmentService(&retryingStore{Memory: mem}, "https://meet.jit.si")
	ctx := context.Background()

	doctor := &models.Doctor{Username: "drhouse"}
	require.NoError(t, mem.CreateDoctor(ctx, doctor))
	patient := &models.Patient{Username: "john"}
	require.NoError(t, mem.CreatePatient(ctx, patient))

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)

	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease: "flu", Symptoms: "fever", Prescription: "/uploads/1.pdf",
	})
	require.NoError(t, err)

	// Replaying the callback must not append the prescription a second time.
	got, err := mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1.pdf"}, got.Attachments)
}

func TestEditRequiresDiseaseAndSymptoms(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)
	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{Disease: "flu", Symptoms: "fever"})
	require.NoError(t, err)

	_, err = svc.EditClinicalData(ctx, appointment.ID, ClinicalInput{Disease: "", Symptoms: "fever"})
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	// Rejected before any mutation.
	got, err := mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "flu", got.Disease)
}

func TestInvoiceNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d{4}$`)
	for i := 0; i < 200; i++ {
		inv := NewInvoiceNo()
		require.Regexp(t, pattern, inv)
		n, err := strconv.Atoi(inv[4:])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
	// Only 9000 possible values and no uniqueness check against existing
	// invoices: rapid encounters can collide. The format is the contract,
	// uniqueness is not.
}

func TestRemoveAttachmentUnknownTokenIsNoop(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)
	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{
		Disease: "flu", Symptoms: "fever", Prescription: "/uploads/1.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAttachment(ctx, appointment.ID, "/uploads/never-uploaded.pdf"))

	got, err := mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1.pdf"}, got.Attachments)

	require.NoError(t, svc.RemoveAttachment(ctx, appointment.ID, "/uploads/1.pdf"))
	got, err = mem.AppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Attachments)
}

func TestCancelDeletesAppointment(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, appointment.ID))

	_, err = mem.AppointmentByID(ctx, appointment.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	// Derived views see the cancellation immediately: no stale references.
	byDoctor, err := mem.SearchAppointments(ctx, store.AppointmentFilter{DoctorID: &doctor.ID})
	require.NoError(t, err)
	assert.Empty(t, byDoctor)
}

func TestVideoConsultationBooking(t *testing.T) {
	svc, _, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.BookVideoConsultation(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "sore throat")
	require.NoError(t, err)
	assert.Equal(t, util.StatusVideoConsultation, appointment.Status)
	assert.Equal(t, "Video Consultation", appointment.Reason)
	assert.Regexp(t, `^https://meet\.jit\.si/room-\d+-[0-9a-f-]{8}$`, appointment.MeetingLink)

	link, err := svc.MeetingRoom(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.MeetingLink, link)
}

// Full lifecycle: book, confirm, attach. One health record and one billing
// exist for the pair afterwards, both carrying the disease.
func TestLifecycleEndToEnd(t *testing.T) {
	svc, mem, doctor, patient := newTestCoordinator(t)
	ctx := context.Background()

	appointment, err := svc.Book(ctx, patient.ID, doctor.ID, "2026-09-01", "10:00", "checkup")
	require.NoError(t, err)
	assert.Equal(t, util.StatusPending, appointment.Status)

	d, err := mem.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.NotContains(t, d.Patients, patient.ID)

	confirmed, err := svc.Confirm(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, util.StatusConfirmed, confirmed.Status)

	d, err = mem.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Contains(t, d.Patients, patient.ID)
	p, err := mem.PatientByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Contains(t, p.Doctors, doctor.ID)

	_, err = svc.AttachClinicalData(ctx, appointment.ID, ClinicalInput{Disease: "flu", Symptoms: "fever"})
	require.NoError(t, err)

	records, err := mem.HealthRecordsByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "flu", records[0].Disease)
	assert.Equal(t, doctor.ID, records[0].DoctorID)

	billings, err := mem.BillingsByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, billings, 1)
	assert.Equal(t, float64(0), billings[0].Amount)
	assert.Regexp(t, `^INV-\d{4}$`, billings[0].InvoiceNo)
}

func countIDs(ids []primitive.ObjectID, want primitive.ObjectID) int {
	n := 0
	for _, id := range ids {
		if id == want {
			n++
		}
	}
	return n
}
