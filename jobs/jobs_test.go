package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"Aarogyam/models"
	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmTodayAppointments(t *testing.T) {
	mem := store.NewMemory()
	cache := store.NewMemoryCache()
	ctx := context.Background()

	doctor := &models.Doctor{Username: "drhouse"}
	require.NoError(t, mem.CreateDoctor(ctx, doctor))
	idle := &models.Doctor{Username: "drwho"}
	require.NoError(t, mem.CreateDoctor(ctx, idle))
	patient := &models.Patient{Username: "john"}
	require.NoError(t, mem.CreatePatient(ctx, patient))

	today := time.Now().Truncate(24 * time.Hour)
	require.NoError(t, mem.CreateAppointment(ctx, &models.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: today.Add(10 * time.Hour),
		TimeSlot: "10:00", Status: util.StatusConfirmed,
	}))
	// Tomorrow's appointment must not be warmed.
	require.NoError(t, mem.CreateAppointment(ctx, &models.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: today.Add(30 * time.Hour),
		TimeSlot: "06:00", Status: util.StatusConfirmed,
	}))

	NewScheduler(mem, cache).WarmTodayAppointments(ctx)

	payload, ok := cache.GetCache(ctx, util.DoctorTodayKey+doctor.ID.Hex())
	require.True(t, ok)
	var warmed []models.Appointment
	require.NoError(t, json.Unmarshal(payload, &warmed))
	require.Len(t, warmed, 1)
	assert.Equal(t, "10:00", warmed[0].TimeSlot)

	// Every doctor gets an entry, even an empty one.
	payload, ok = cache.GetCache(ctx, util.DoctorTodayKey+idle.ID.Hex())
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(payload, &warmed))
	assert.Empty(t, warmed)
}
