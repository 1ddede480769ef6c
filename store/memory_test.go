package store

import (
	"context"
	"testing"
	"time"

	"Aarogyam/models"
	"Aarogyam/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveUsernameTaggedUnion(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	doctor := &models.Doctor{Username: "drhouse"}
	require.NoError(t, mem.CreateDoctor(ctx, doctor))
	patient := &models.Patient{Username: "john"}
	require.NoError(t, mem.CreatePatient(ctx, patient))

	p, err := mem.ResolveUsername(ctx, "drhouse")
	require.NoError(t, err)
	assert.Equal(t, util.RoleDoctor, p.Role)
	require.NotNil(t, p.Doctor)
	assert.Nil(t, p.Patient)
	assert.Equal(t, doctor.ID, p.ID())

	p, err = mem.ResolveUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, util.RolePatient, p.Role)
	assert.Equal(t, patient.ID, p.ID())

	_, err = mem.ResolveUsername(ctx, "nobody")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAddRefsHaveSetSemantics(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	doctor := &models.Doctor{Username: "drhouse"}
	require.NoError(t, mem.CreateDoctor(ctx, doctor))
	patient := &models.Patient{Username: "john"}
	require.NoError(t, mem.CreatePatient(ctx, patient))

	for i := 0; i < 3; i++ {
		require.NoError(t, mem.AddPatientRef(ctx, doctor.ID, patient.ID))
		require.NoError(t, mem.AddDoctorRef(ctx, patient.ID, doctor.ID))
	}

	d, err := mem.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{patient.ID}, d.Patients)

	p, err := mem.PatientByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{doctor.ID}, p.Doctors)

	err = mem.AddPatientRef(ctx, primitive.NewObjectID(), patient.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSearchAppointmentsDateIsDayRange(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	doctorID := primitive.NewObjectID()
	patientID := primitive.NewObjectID()

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-time.Hour, 0, 9 * time.Hour, 24 * time.Hour} {
		require.NoError(t, mem.CreateAppointment(ctx, &models.Appointment{
			PatientID: patientID, DoctorID: doctorID, Date: day.Add(offset), Status: util.StatusPending,
		}))
	}

	// [day, day+24h): midnight inclusive, next midnight exclusive.
	out, err := mem.SearchAppointments(ctx, AppointmentFilter{DoctorID: &doctorID, Date: &day})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, day, out[0].Date)
	assert.Equal(t, day.Add(9*time.Hour), out[1].Date)
}

func TestUpcomingAppointmentsOrderAndLimit(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	doctorID := primitive.NewObjectID()
	patientID := primitive.NewObjectID()

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{3, 1, 4, 2} {
		require.NoError(t, mem.CreateAppointment(ctx, &models.Appointment{
			PatientID: patientID, DoctorID: doctorID, Date: base.AddDate(0, 0, d), Status: util.StatusPending,
		}))
	}

	out, err := mem.UpcomingAppointments(ctx, patientID, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, out[0].Date.Before(out[1].Date))
	assert.True(t, out[1].Date.Before(out[2].Date))
	assert.Equal(t, base.AddDate(0, 0, 1), out[0].Date)
}

func TestRecentRecordsDescending(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	patientID := primitive.NewObjectID()
	doctorID := primitive.NewObjectID()

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{1, 3, 2} {
		require.NoError(t, mem.CreateHealthRecord(ctx, &models.HealthRecord{
			PatientID: patientID, DoctorID: doctorID, AppointmentID: primitive.NewObjectID(),
			Disease: "flu", Date: base.AddDate(0, 0, d),
		}))
		require.NoError(t, mem.CreateBilling(ctx, &models.Billing{
			PatientID: patientID, DoctorID: doctorID, AppointmentID: primitive.NewObjectID(),
			InvoiceNo: "INV-1234", Date: base.AddDate(0, 0, d),
		}))
	}

	records, err := mem.RecentHealthRecords(ctx, patientID, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, base.AddDate(0, 0, 3), records[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 2), records[1].Date)

	billings, err := mem.RecentBillings(ctx, patientID, 2)
	require.NoError(t, err)
	require.Len(t, billings, 2)
	assert.Equal(t, base.AddDate(0, 0, 3), billings[0].Date)
}

func TestAppointmentReadsCopyAttachments(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	a := &models.Appointment{
		PatientID: primitive.NewObjectID(), DoctorID: primitive.NewObjectID(),
		Date: time.Now(), Status: util.StatusPending, Attachments: []string{"/uploads/1.pdf"},
	}
	require.NoError(t, mem.CreateAppointment(ctx, a))

	got, err := mem.AppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	got.Attachments[0] = "mutated"

	again, err := mem.AppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1.pdf"}, again.Attachments)
}

func TestByAppointmentLookups(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	appointmentID := primitive.NewObjectID()

	_, err := mem.HealthRecordByAppointment(ctx, appointmentID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = mem.BillingByAppointment(ctx, appointmentID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, mem.CreateHealthRecord(ctx, &models.HealthRecord{AppointmentID: appointmentID, Disease: "flu"}))
	require.NoError(t, mem.CreateBilling(ctx, &models.Billing{AppointmentID: appointmentID, InvoiceNo: "INV-2222"}))

	record, err := mem.HealthRecordByAppointment(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, "flu", record.Disease)

	billing, err := mem.BillingByAppointment(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2222", billing.InvoiceNo)
}
